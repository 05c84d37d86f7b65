package console

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/api"
	"github.com/therealutkarshpriyadarshi/catalogadmin/pkg/models"
)

// View is what the session gate decided to show
type View int

const (
	ViewLogin View = iota
	ViewMain
)

func (v View) String() string {
	if v == ViewMain {
		return "main"
	}
	return "login"
}

// GateResult is the outcome of a session check or login
type GateResult struct {
	View View
	Page Panel
}

// Gate decides between the login view and the main console
type Gate struct {
	app *App
}

func (g *Gate) main() GateResult {
	return GateResult{View: ViewMain, Page: g.app.Router().Current()}
}

// Check verifies the stored token against the API. A 401 clears the token and
// yields the login view. Other failures are returned and keep the token.
func (g *Gate) Check(ctx context.Context) (GateResult, error) {
	err := g.app.client.VerifyToken(ctx)
	switch {
	case err == nil:
		return g.main(), nil
	case errors.Is(err, api.ErrUnauthorized):
		g.app.client.SetToken("")
		if err := g.app.state.ClearToken(); err != nil {
			return GateResult{View: ViewLogin}, fmt.Errorf("failed to clear token: %w", err)
		}
		return GateResult{View: ViewLogin}, nil
	default:
		return GateResult{View: ViewLogin}, failure(err, "failed to check session")
	}
}

// Login signs in with a plain password, which is hashed before sending.
// The token is saved and the saved page is returned.
func (g *Gate) Login(ctx context.Context, login, password string) (GateResult, error) {
	login = strings.TrimSpace(login)
	password = strings.TrimSpace(password)
	if login == "" || password == "" {
		return GateResult{View: ViewLogin}, invalid("login", "fill in all fields")
	}

	resp, err := g.app.client.SignIn(ctx, login, api.HashPassword(password))
	if err != nil {
		return GateResult{View: ViewLogin}, failure(err, "authorization failed")
	}
	if resp.Message != models.SignInSuccessMessage && resp.Token == "" {
		return GateResult{View: ViewLogin}, ErrInvalidCredentials
	}

	if resp.Token != "" {
		g.app.client.SetToken(resp.Token)
		if err := g.app.state.SetToken(resp.Token); err != nil {
			return GateResult{View: ViewLogin}, fmt.Errorf("failed to save token: %w", err)
		}
	}
	return g.main(), nil
}

// Logout ends the session on the server, then forgets the token and the
// saved page.
func (g *Gate) Logout(ctx context.Context) error {
	if _, err := g.app.client.Logout(ctx); err != nil {
		return failure(err, "logout failed")
	}
	if err := g.app.state.ClearSession(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Identity describes the stored session token
type Identity struct {
	Username  string
	Admin     bool
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry in the past
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

type sessionClaims struct {
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Whoami decodes the stored token without verifying its signature; the
// signing key belongs to the server.
func (g *Gate) Whoami() (Identity, error) {
	token := g.app.state.Token()
	if token == "" {
		return Identity{}, errors.New("not logged in")
	}

	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, fmt.Errorf("stored token is not a valid JWT: %w", err)
	}

	id := Identity{Username: claims.Username, Admin: claims.IsAdmin}
	if claims.ExpiresAt != nil {
		id.ExpiresAt = claims.ExpiresAt.Time
	}
	return id, nil
}
