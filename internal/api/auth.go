package api

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"

	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// HashPassword returns the SHA-256 hex digest the backend expects in
// place of a plain password.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// SignIn posts credentials to /signin. The password must already be
// hashed. The returned Token is taken from the body when present and
// otherwise from the token cookie set by the server.
func (c *Client) SignIn(ctx context.Context, login, passwordHash string) (*models.SignInResponse, error) {
	var out models.SignInResponse
	resp, err := c.doJSON(ctx, http.MethodPost, "/signin", models.SignInRequest{
		Login:    login,
		Password: passwordHash,
	}, &out)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	if out.Token == "" {
		for _, cookie := range resp.cookies {
			if cookie.Name == TokenCookie && cookie.Value != "" {
				out.Token = cookie.Value
				break
			}
		}
	}
	return &out, nil
}

// Logout ends the server session and drops the client token
func (c *Client) Logout(ctx context.Context) (*models.SignInResponse, error) {
	var out models.SignInResponse
	if _, err := c.doJSON(ctx, http.MethodPost, "/logout", nil, &out); err != nil {
		return nil, fmt.Errorf("logout: %w", err)
	}
	c.SetToken("")
	return &out, nil
}

// VerifyToken checks that the current token is accepted by requesting the
// video list. An empty catalog (404) still counts as authenticated.
func (c *Client) VerifyToken(ctx context.Context) error {
	_, err := c.send(ctx, request{method: http.MethodGet, path: "/video"})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}
