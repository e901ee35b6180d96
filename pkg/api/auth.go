package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/smnshzh/MarketVisit/internal/domain"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullName,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success      bool        `json:"success"`
	Message      string      `json:"message"`
	User         domain.User `json:"user"`
	SessionToken string      `json:"sessionToken"`
}

type CurrentUserResponse struct {
	Success bool        `json:"success"`
	User    domain.User `json:"user"`
}

// StatusResponse is the bare {"success", "message"} envelope.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Register creates an account and stores the returned session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if err := validateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.Call(ctx, "/api/auth/register", RequestOptions{Method: http.MethodPost, Body: req}, &out); err != nil {
		return nil, err
	}
	if err := c.rememberSession(out.SessionToken); err != nil {
		return &out, err
	}
	return &out, nil
}

// Login authenticates and stores the returned session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if err := validateCredentials(req.Username, req.Password); err != nil {
		return nil, err
	}
	var out AuthResponse
	if err := c.Call(ctx, "/api/auth/login", RequestOptions{Method: http.MethodPut, Body: req}, &out); err != nil {
		return nil, err
	}
	if err := c.rememberSession(out.SessionToken); err != nil {
		return &out, err
	}
	return &out, nil
}

// Logout ends the backend session. The local session is discarded even when
// the backend call fails.
func (c *Client) Logout(ctx context.Context) (*StatusResponse, error) {
	var out StatusResponse
	callErr := c.Call(ctx, "/api/auth/logout", RequestOptions{Method: http.MethodDelete}, &out)
	if err := c.sessions.ClearSession(); err != nil && callErr == nil {
		return &out, fmt.Errorf("clear session: %w", err)
	}
	if callErr != nil {
		return nil, callErr
	}
	return &out, nil
}

// CurrentUser returns the user owning the stored session.
func (c *Client) CurrentUser(ctx context.Context) (*CurrentUserResponse, error) {
	var out CurrentUserResponse
	if err := c.Call(ctx, "/api/auth/me", RequestOptions{Method: http.MethodGet}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) rememberSession(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := c.sessions.SaveSession(token); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func validateCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidRequest)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidRequest)
	}
	return nil
}
