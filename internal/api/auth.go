package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/tyha2404/nexo-app/internal/core"
	"github.com/tyha2404/nexo-app/internal/log"
)

// Auth endpoints. /whoiam is the server's spelling, not a typo here.
const (
	loginPath          = "/auth/login"
	whoAmIPath         = "/whoiam"
	forgotPasswordPath = "/auth/forgot-password"
	resetPasswordPath  = "/auth/reset-password"
)

// SessionStore is what the auth flow needs from the session layer.
// *session.Store satisfies it.
type SessionStore interface {
	SessionState
	User(ctx context.Context) *core.User
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	SetUser(ctx context.Context, user *core.User) error
}

// AuthService drives the anonymous -> authenticating -> authenticated
// lifecycle: login, logout, the who-am-i check, and password recovery.
type AuthService struct {
	transport *Transport
	store     SessionStore
	logger    *log.Logger
}

func NewAuthService(transport *Transport, store SessionStore, logger *log.Logger) *AuthService {
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAuth)
	}
	return &AuthService{
		transport: transport,
		store:     store,
		logger:    logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginPayload struct {
	User  core.User `json:"user"`
	Token string    `json:"token"`
}

// Acknowledgement is the bare envelope returned by the password
// recovery endpoints.
type Acknowledgement struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Login posts credentials and, on success, persists the returned token
// and user before handing the user back. An unsuccessful envelope yields
// (nil, nil) with the session untouched; the caller decides the feedback.
func (s *AuthService) Login(ctx context.Context, email, password string) (*core.User, error) {
	var env Envelope[loginPayload]
	err := s.transport.Do(ctx, http.MethodPost, loginPath, nil, loginRequest{Email: email, Password: password}, &env)
	if err != nil {
		// A login attempt with bad credentials comes back 401; that is a
		// rejected login, not an expired session.
		if errors.Is(err, ErrUnauthorized) {
			return nil, nil
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !env.Success {
		return nil, nil
	}

	if err := s.store.SetToken(ctx, env.Data.Token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if err := s.store.SetUser(ctx, &env.Data.User); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	s.logger.InfoContext(ctx, "Login succeeded",
		log.FieldOperation, log.OpLogin,
		log.FieldUserID, env.Data.User.ID,
		log.FieldEmail, env.Data.User.Email)
	return &env.Data.User, nil
}

// Logout clears the persisted session.
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.InfoContext(ctx, "Logged out", log.FieldOperation, log.OpLogout)
	return nil
}

// CurrentUser asks the server who the stored token belongs to. With no
// token it is a no-op returning nil. Any failure is treated as "token
// invalid": the token is evicted and nil is returned.
func (s *AuthService) CurrentUser(ctx context.Context) *core.User {
	if s.store.Token(ctx) == "" {
		return nil
	}

	var env Envelope[core.User]
	err := s.transport.Do(ctx, http.MethodGet, whoAmIPath, nil, nil, &env)
	if err != nil {
		// On 401 the transport already cleared the whole session.
		if !errors.Is(err, ErrUnauthorized) {
			s.evictToken(ctx, err)
		}
		return nil
	}
	if !env.Success {
		s.evictToken(ctx, nil)
		return nil
	}
	return &env.Data
}

// BootstrapUser returns the persisted user record, the thing the app
// start routing decision is based on. Token validity is not checked
// here; a stale token is evicted lazily by the first real 401.
func (s *AuthService) BootstrapUser(ctx context.Context) *core.User {
	return s.store.User(ctx)
}

// ForgotPassword requests a password reset email.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (Acknowledgement, error) {
	var ack Acknowledgement
	err := s.transport.Do(ctx, http.MethodPost, forgotPasswordPath, nil,
		map[string]string{"email": email}, &ack)
	if err != nil {
		return Acknowledgement{}, fmt.Errorf("forgot password: %w", err)
	}
	return ack, nil
}

// ResetPassword sets a new password using the token from the reset email.
func (s *AuthService) ResetPassword(ctx context.Context, password, token string) (Acknowledgement, error) {
	var ack Acknowledgement
	err := s.transport.Do(ctx, http.MethodPost, resetPasswordPath, nil,
		map[string]string{"password": password, "token": token}, &ack)
	if err != nil {
		return Acknowledgement{}, fmt.Errorf("reset password: %w", err)
	}
	return ack, nil
}

func (s *AuthService) evictToken(ctx context.Context, cause error) {
	fields := []any{log.FieldOperation, log.OpRead}
	if cause != nil {
		fields = append(fields, log.FieldError, cause.Error())
	}
	s.logger.WarnContext(ctx, "Current-user check failed, evicting token", fields...)
	if err := s.store.ClearToken(ctx); err != nil {
		s.logger.ErrorContext(ctx, "Failed to evict token", log.FieldError, err.Error())
	}
}
