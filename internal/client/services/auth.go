// Package services contains the application services of the AgriTrack client:
// authentication/session lifecycle and the product and farm workflows built on
// the backend API.
package services

import (
	"context"

	"github.com/agritrack/agritrack-cli/internal/client/api"
	"github.com/agritrack/agritrack-cli/internal/client/models"
	"github.com/agritrack/agritrack-cli/internal/client/session"
	"github.com/agritrack/agritrack-cli/internal/logging"
)

// SessionStore persists the session between runs. *session.Store satisfies it;
// tests provide fakes.
type SessionStore interface {
	Load(ctx context.Context) (*session.Session, error)
	Save(ctx context.Context, sess *session.Session) error
	Clear(ctx context.Context) error
}

// AuthService owns the session lifecycle.
//
// Contract:
//   - Login/Register: authenticate against the backend, persist the session,
//     and install the token on the API client.
//   - Restore: reload a previously persisted session (start-up path); an
//     expired token surfaces as common.ErrTokenExpired with the stale session
//     already wiped.
//   - Logout: clear the persisted session and drop the token.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*session.Session, error)
	Register(ctx context.Context, req models.RegisterRequest) (*session.Session, error)
	Restore(ctx context.Context) (*session.Session, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client api.Client
	store  SessionStore
	log    logging.Logger
}

// NewAuthService constructs an AuthService bound to the given API client and
// session store.
func NewAuthService(client api.Client, store SessionStore, log logging.Logger) AuthService {
	return &authService{client: client, store: store, log: log}
}

func (a *authService) Login(ctx context.Context, username, password string) (*session.Session, error) {
	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return a.install(ctx, resp)
}

// Register creates an account; the backend logs the new user straight in, so
// the returned session is ready to use.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (*session.Session, error) {
	resp, err := a.client.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	return a.install(ctx, resp)
}

func (a *authService) install(ctx context.Context, resp *models.AuthResponse) (*session.Session, error) {
	sess := session.FromAuthResponse(resp)
	if err := a.store.Save(ctx, sess); err != nil {
		a.log.Warn(ctx, "session not persisted", "err", err)
	}
	a.client.SetToken(sess.Token)
	return sess, nil
}

func (a *authService) Restore(ctx context.Context) (*session.Session, error) {
	sess, err := a.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, nil
	}
	a.client.SetToken(sess.Token)
	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	return a.store.Clear(ctx)
}
