package models

import (
	"time"

	"github.com/golang-jwt/jwt/v4"
)

type AuthorizationToken struct {
	Token string `json:"token"`
}

type CustomClaims struct {
	Type   string
	UserId string
	jwt.RegisteredClaims
}

const (
	UserTypeClient = `client`
	UserTypeStaff  = `staff`
	UserTypeAdmin  = `admin`
)

// IsReviewer reports whether the user type may move a listing through verification.
func IsReviewer(userType string) bool {
	return userType == UserTypeStaff || userType == UserTypeAdmin
}

func ValidUserType(userType string) bool {
	return userType == UserTypeClient || IsReviewer(userType)
}

type User struct {
	Id       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
	UserType string `json:"user_type"`
}

// Session is the client-side handle of a logged in user. It is created by a
// login call and dropped on logout; nothing reads it implicitly.
type Session struct {
	Token     string    `json:"token"`
	UserId    string    `json:"user_id"`
	UserType  string    `json:"user_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Session) IsReviewer() bool {
	return s != nil && IsReviewer(s.UserType)
}

type VerificationStatus string

const (
	StatusPending  VerificationStatus = `pending`
	StatusVerified VerificationStatus = `verified`
	StatusRejected VerificationStatus = `rejected`
)

func ParseStatus(s string) (VerificationStatus, bool) {
	switch VerificationStatus(s) {
	case StatusPending, StatusVerified, StatusRejected:
		return VerificationStatus(s), true
	}
	return ``, false
}

const (
	PurposeSell      = `Sell`
	PurposeRentLease = `Rent/Lease`
)

const (
	PropertyApartment = `Apartment`
	PropertyPlot      = `Plot`
	PropertyHouse     = `House`
)

// MinMedia is the number of photos or videos a listing needs before it can be submitted.
const MinMedia = 4

type MediaKind string

const (
	MediaImage MediaKind = `image`
	MediaVideo MediaKind = `video`
)

type MediaRef struct {
	URI  string    `json:"uri" validate:"required,notblank"`
	Kind MediaKind `json:"kind" validate:"required,oneof=image video"`
}

type Listing struct {
	Id           string             `json:"id"`
	OwnerId      string             `json:"owner_id"`
	Title        string             `json:"title"`
	Purpose      string             `json:"purpose"`
	PropertyType string             `json:"property_type"`
	Description  string             `json:"description"`
	City         string             `json:"city"`
	Address      string             `json:"address"`
	Landmark     string             `json:"landmark"`
	Media        []MediaRef         `json:"media"`
	Price        int64              `json:"price"`
	Area         float64            `json:"area"`
	Balconies    int                `json:"balconies"`
	Bathrooms    int                `json:"bathrooms"`
	Floors       int                `json:"floors"`
	OwnerName    string             `json:"owner_name"`
	OwnerPhone   string             `json:"owner_phone"`
	OwnerEmail   string             `json:"owner_email"`
	Verification VerificationStatus `json:"verification"`
	ReviewedBy   string             `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time         `json:"reviewed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// CreateListingRequest is the body of POST /listings. Identity, verification
// and timestamps are assigned by the server and are not part of it.
type CreateListingRequest struct {
	Title        string     `json:"title" validate:"required,notblank"`
	Purpose      string     `json:"purpose" validate:"required,oneof=Sell Rent/Lease"`
	PropertyType string     `json:"property_type" validate:"required,oneof=Apartment Plot House"`
	Description  string     `json:"description" validate:"required,notblank"`
	City         string     `json:"city" validate:"required,notblank"`
	Address      string     `json:"address" validate:"required,notblank"`
	Landmark     string     `json:"landmark" validate:"required,notblank"`
	Media        []MediaRef `json:"media" validate:"min=4,dive"`
	Price        int64      `json:"price" validate:"gte=0"`
	Area         float64    `json:"area" validate:"gte=0"`
	Balconies    int        `json:"balconies" validate:"gte=0"`
	Bathrooms    int        `json:"bathrooms" validate:"gte=0"`
	Floors       int        `json:"floors" validate:"gte=0"`
	OwnerName    string     `json:"owner_name"`
	OwnerPhone   string     `json:"owner_phone"`
	OwnerEmail   string     `json:"owner_email" validate:"omitempty,email"`
}

func (r CreateListingRequest) Listing(ownerId string) Listing {
	media := make([]MediaRef, len(r.Media))
	copy(media, r.Media)

	return Listing{
		OwnerId:      ownerId,
		Title:        r.Title,
		Purpose:      r.Purpose,
		PropertyType: r.PropertyType,
		Description:  r.Description,
		City:         r.City,
		Address:      r.Address,
		Landmark:     r.Landmark,
		Media:        media,
		Price:        r.Price,
		Area:         r.Area,
		Balconies:    r.Balconies,
		Bathrooms:    r.Bathrooms,
		Floors:       r.Floors,
		OwnerName:    r.OwnerName,
		OwnerPhone:   r.OwnerPhone,
		OwnerEmail:   r.OwnerEmail,
	}
}

type TransitionRequest struct {
	Verification VerificationStatus `json:"verification"`
}

type ErrorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
