package client

import (
	"context"

	"github.com/devraider/dataroom/internal/api"
	"github.com/devraider/dataroom/internal/core"
)

// Login exchanges a Google ID token for a session. The returned session
// token is NOT stored on the client; pass it via WithAuthToken for follow-up calls.
func (c *Client) Login(ctx context.Context, credential string) (*api.LoginResponse, string, error) {
	var resp api.LoginResponse
	correlation, err := c.post(ctx, c.url().
		setPath(api.LoginRoute).
		build(), api.LoginPayload{Credential: credential}, &resp)
	if err != nil {
		return nil, correlation, err
	}
	return &resp, correlation, nil
}

// Me returns the principal behind the configured session token.
func (c *Client) Me(ctx context.Context) (*core.User, string, error) {
	var user core.User
	correlation, err := c.get(ctx, c.url().
		setPath(api.MeRoute).
		build(), &user)
	if err != nil {
		return nil, correlation, err
	}
	return &user, correlation, nil
}

// Logout revokes the configured session token server-side.
func (c *Client) Logout(ctx context.Context) (string, error) {
	var resp api.LogoutResponse
	return c.post(ctx, c.url().
		setPath(api.LogoutRoute).
		build(), nil, &resp)
}
