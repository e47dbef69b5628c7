package gateway

import (
	"context"
	"net/http"

	"github.com/findora/findora/internal/forms"
	"github.com/findora/findora/internal/model"
)

// Login exchanges credentials for a bearer token. The caller decides where
// to keep it (see session.SaveLogin).
func (c *Client) Login(ctx context.Context, form forms.Login) (string, error) {
	const op = "logging in"
	req, err := jsonRequest(op, http.MethodPost, "/admin/login", form)
	if err != nil {
		return "", err
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &DecodeError{Op: op, Err: errEmptyBody}
	}
	return resp.Token, nil
}

// Register creates an admin account.
func (c *Client) Register(ctx context.Context, form forms.Register) (*model.AdminSummary, error) {
	const op = "registering admin"
	req, err := jsonRequest(op, http.MethodPost, "/admin/register", form)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Message string              `json:"message"`
		Admin   *model.AdminSummary `json:"admin"`
	}
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	return requireBody(op, resp.Admin)
}

// Logout revokes the current token on the server.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, request{op: "logging out", method: http.MethodPost, path: "/admin/logout", auth: true}, nil)
}

// Health checks that the API is up.
func (c *Client) Health(ctx context.Context) error {
	var resp struct {
		Status string `json:"status"`
	}
	return c.do(ctx, request{op: "checking health", method: http.MethodGet, path: "/health"}, &resp)
}
