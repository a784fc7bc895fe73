package client

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/session"
)

// HeaderAuthorizationUser carries the percent-encoded user record the token
// claims to belong to.
const HeaderAuthorizationUser = "Authorization-User"

var validate = validator.New(validator.WithRequiredStructEnabled())

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token" validate:"required"`
	User  session.User `json:"user"`
}

type VerifyResponse struct {
	Valid bool         `json:"valid"`
	User  session.User `json:"user"`
}

// Login exchanges credentials for a token. A rejected login is an *APIError
// carrying the server's message.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	err := c.post(ctx, "/api/auth/login", LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &resp, nil
}

// Verify asks the server whether token is still accepted for the serialized
// user rawUser. Any non-2xx answer is an error, as is a 2xx body carrying
// "valid": false.
func (c *Client) Verify(ctx context.Context, token, rawUser string) (*VerifyResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/auth/verify", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(HeaderAuthorizationUser, EncodeURIComponent(rawUser))

	body, err := c.Do(req)
	if err != nil {
		return nil, err
	}

	// Any 2xx accepts the session unless the body says "valid": false.
	var payload struct {
		Valid *bool        `json:"valid"`
		User  session.User `json:"user"`
	}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := decodeJSON(body, &payload); err != nil {
			return nil, err
		}
	}
	if payload.Valid != nil && !*payload.Valid {
		return nil, ErrSessionRejected
	}
	return &VerifyResponse{Valid: true, User: payload.User}, nil
}

// Logout asks the server to revoke the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/api/auth/logout", nil, nil)
}

// Me returns the account the current token belongs to.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.get(ctx, "/api/auth/me", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// EncodeURIComponent escapes s the way browsers do for URI components.
func EncodeURIComponent(s string) string {
	escaped := url.QueryEscape(s)
	r := strings.NewReplacer(
		"+", "%20",
		"%21", "!",
		"%27", "'",
		"%28", "(",
		"%29", ")",
		"%2A", "*",
		"%7E", "~",
	)
	return r.Replace(escaped)
}
