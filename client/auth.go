package client

import (
	"context"
	"net/http"

	"github.com/immich-go/client/immicherr"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// WithEmail logs in with email/password against baseURL and returns a
// Client authenticated with the resulting session cookie.
func WithEmail(ctx context.Context, baseURL, email, password string) (*Client, error) {
	bootstrap, err := New(baseURL, noAuth{})
	if err != nil {
		return nil, err
	}

	var lr loginResponse
	status, err := bootstrap.PostJSON(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &lr)
	if err != nil {
		return nil, err
	}
	if status != http.StatusCreated {
		return nil, immicherr.ErrAuth
	}

	return New(baseURL, CookieAuth(lr.AccessToken))
}

// WithAPIKey authenticates with a long-lived API key, verifying it against
// /auth/validateToken before returning.
func WithAPIKey(ctx context.Context, baseURL, key string) (*Client, error) {
	c, err := New(baseURL, APIKeyAuth(key))
	if err != nil {
		return nil, err
	}
	if !c.CheckAuth(ctx) {
		return nil, immicherr.ErrAuth
	}
	return c, nil
}

// CheckAuth hits the liveness probe endpoint and reports whether the
// current credentials are accepted.
func (c *Client) CheckAuth(ctx context.Context) bool {
	status, err := c.GetJSON(ctx, "/auth/validateToken", nil)
	return err == nil && status == http.StatusOK
}

type meResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Me returns the id and email of the authenticated user.
func (c *Client) Me(ctx context.Context) (id, email string, err error) {
	var me meResponse
	status, err := c.GetJSON(ctx, "/users/me", &me)
	if err != nil {
		return "", "", err
	}
	if status != http.StatusOK {
		return "", "", &immicherr.StatusError{Code: status}
	}
	return me.ID, me.Email, nil
}
