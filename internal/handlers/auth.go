package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"listingBoard/internal/models"
	"listingBoard/internal/storage"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const dummyUserPrefix = `dummyLogin-`

type Auth struct {
	key      []byte
	tokenTTL time.Duration
	dummyTTL time.Duration
	now      func() time.Time
}

func NewAuth(key string, tokenTTL, dummyTTL time.Duration) *Auth {
	return &Auth{key: []byte(key), tokenTTL: tokenTTL, dummyTTL: dummyTTL, now: time.Now}
}

func (a *Auth) issue(userId, userType string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := &models.CustomClaims{
		UserId: userId,
		Type:   userType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.key)
}

func (a *Auth) parse(tokenStr string) (*models.CustomClaims, error) {
	claims := &models.CustomClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return a.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// DummyLoginHandler issues a short-lived token for any known user type without a stored user.
func (a *Auth) DummyLoginHandler(w http.ResponseWriter, r *http.Request) {
	userType := r.URL.Query().Get(`user_type`)

	if !models.ValidUserType(userType) {
		writeError(w, http.StatusBadRequest, "No such user type")
		return
	}

	tokenStr, err := a.issue(dummyUserPrefix+uuid.NewString(), userType, a.dummyTTL)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, models.AuthorizationToken{Token: tokenStr})
}

func (a *Auth) RegisterHandler(db storage.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		defer r.Body.Close()

		var user models.User
		if err := json.Unmarshal(body, &user); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if user.Email == `` || user.Password == `` || !models.ValidUserType(user.UserType) {
			writeError(w, http.StatusBadRequest, "email, password and a valid user_type are required")
			return
		}

		passwordHash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		user.Password = string(passwordHash)

		if user, err = db.CreateUser(r.Context(), user); err != nil {
			slog.Error("Failed to create user", slog.Any("err", err))
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"user_id": user.Id})
	})
}

func (a *Auth) LoginHandler(db storage.Database) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		defer r.Body.Close()

		var userFromReq models.User
		if err := json.Unmarshal(body, &userFromReq); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		user, err := db.GetUserById(r.Context(), userFromReq.Id)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				writeError(w, http.StatusNotFound, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(userFromReq.Password)); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid password")
			return
		}

		tokenStr, err := a.issue(user.Id, user.UserType, a.tokenTTL)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, models.AuthorizationToken{Token: tokenStr})
	})
}
