// Package client is the app side of the listing API: login, submitting a
// draft, and the reviewer dashboard.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"listingBoard/internal/draft"
	"listingBoard/internal/models"
	"net/http"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v4"
)

// ErrNoSession means the caller has to log in first.
var ErrNoSession = errors.New("not logged in")

type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

type ServerError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

type Client struct {
	http *resty.Client

	mu      sync.RWMutex
	session *models.Session
}

// New builds a client without a request timeout. Callers bound requests with
// the context they pass in.
func New(baseURL string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("User-Agent", "listingBoard-client/1.0"),
	}
}

func (c *Client) Session() *models.Session {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.session
}

func (c *Client) Logout() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *Client) DummyLogin(ctx context.Context, userType string) (*models.Session, error) {
	var token models.AuthorizationToken

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam(`user_type`, userType).
		SetResult(&token).
		SetError(&models.ErrorResponse{}).
		Get(`/dummyLogin`)
	if err := check(resp, err); err != nil {
		return nil, err
	}

	return c.startSession(token.Token)
}

func (c *Client) Login(ctx context.Context, id, password string) (*models.Session, error) {
	var token models.AuthorizationToken

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(models.User{Id: id, Password: password}).
		SetResult(&token).
		SetError(&models.ErrorResponse{}).
		Post(`/login`)
	if err := check(resp, err); err != nil {
		return nil, err
	}

	return c.startSession(token.Token)
}

// startSession reads identity from the token. The server verifies the
// signature on every request, so the client does not need the key.
func (c *Client) startSession(token string) (*models.Session, error) {
	claims := &models.CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	session := &models.Session{
		Token:     token,
		UserId:    claims.UserId,
		UserType:  claims.Type,
		CreatedAt: time.Now(),
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return session, nil
}

func (c *Client) authorized(ctx context.Context) (*resty.Request, error) {
	session := c.Session()
	if session == nil {
		return nil, ErrNoSession
	}

	return c.http.R().SetContext(ctx).SetAuthToken(session.Token), nil
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.IsError() {
		serverErr := &ServerError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
		if body, ok := resp.Error().(*models.ErrorResponse); ok && body.Message != `` {
			serverErr.Message = body.Message
			serverErr.Fields = body.Fields
		}
		return serverErr
	}

	return nil
}

// Submit sends a complete draft. The draft is cleared only after the server
// created the listing; on any error it is left as it was.
func (c *Client) Submit(ctx context.Context, d *draft.Draft) (models.Listing, error) {
	if err := d.Validate(); err != nil {
		return models.Listing{}, err
	}

	req, err := c.authorized(ctx)
	if err != nil {
		return models.Listing{}, err
	}

	var listing models.Listing
	resp, err := req.
		SetBody(d.Payload()).
		SetResult(&listing).
		SetError(&models.ErrorResponse{}).
		Post(`/listings`)
	if err := check(resp, err); err != nil {
		return models.Listing{}, err
	}

	d.Reset()
	return listing, nil
}

func (c *Client) GetListing(ctx context.Context, id string) (models.Listing, error) {
	req, err := c.authorized(ctx)
	if err != nil {
		return models.Listing{}, err
	}

	var listing models.Listing
	resp, err := req.
		SetPathParam(`id`, id).
		SetResult(&listing).
		SetError(&models.ErrorResponse{}).
		Get(`/listings/{id}`)
	if err := check(resp, err); err != nil {
		return models.Listing{}, err
	}

	return listing, nil
}

// UploadMedia stores one photo or video and returns the reference to put in a draft.
func (c *Client) UploadMedia(ctx context.Context, name string, r io.Reader) (models.MediaRef, error) {
	req, err := c.authorized(ctx)
	if err != nil {
		return models.MediaRef{}, err
	}

	var ref models.MediaRef
	resp, err := req.
		SetFileReader(`file`, name, r).
		SetResult(&ref).
		SetError(&models.ErrorResponse{}).
		Post(`/media`)
	if err := check(resp, err); err != nil {
		return models.MediaRef{}, err
	}

	return ref, nil
}
