package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"LightAdmin/internal/cli/auth"
	"LightAdmin/internal/cli/gateway"
	"LightAdmin/internal/cli/model"
	"LightAdmin/internal/cli/repo"
)

var (
	// ErrNoRefreshToken — выход без сохранённого refresh-токена.
	ErrNoRefreshToken = errors.New("no refresh token found")
	// ErrInvalidCredentials — сервер отклонил логин/пароль.
	ErrInvalidCredentials = errors.New("invalid user name or password")
	// ErrEmptyTokens — сервер вернул неполную пару токенов.
	ErrEmptyTokens = errors.New("server returned empty tokens")
)

// SessionAPI — вызовы API, нужные сервису сессии.
type SessionAPI interface {
	Login(ctx context.Context, user, password string) (model.Tokens, error)
	Logout(ctx context.Context, refreshToken string) error
	Step(ctx context.Context) (model.Step, error)
	Setup(ctx context.Context, key, user, password string) error
	// Ping is a cheap authenticated call.
	Ping(ctx context.Context) error
}

// SessionService управляет входом, выходом и установкой. Пишет в шину состояния.
type SessionService struct {
	api    SessionAPI
	store  repo.CredentialStore
	users  repo.UserContextStore
	state  auth.Writer
	logger *zap.SugaredLogger
}

func NewSessionService(api SessionAPI, store repo.CredentialStore, users repo.UserContextStore, state auth.Writer, logger *zap.SugaredLogger) *SessionService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &SessionService{api: api, store: store, users: users, state: state, logger: logger}
}

// Login получает пару токенов и сохраняет её вместе с логином.
func (s *SessionService) Login(ctx context.Context, user, password string) error {
	user = strings.TrimSpace(user)
	if user == "" || password == "" {
		return errors.New("user name and password are required")
	}
	tok, err := s.api.Login(ctx, user, password)
	if err != nil {
		if gateway.IsUnauthorized(err) {
			return fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return fmt.Errorf("login: %w", err)
	}
	if tok.AccessToken == "" || tok.RefreshToken == "" {
		return ErrEmptyTokens
	}
	if err := s.store.SaveRefresh(tok.RefreshToken); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	if err := s.store.SaveAccess(tok.AccessToken); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	if err := s.users.SaveLogin(user); err != nil {
		s.logger.Warnw("cannot remember login", "error", err)
	}
	s.state.Set(auth.Authenticated)
	s.logger.Infow("logged in", "user", user)
	return nil
}

// Logout отзывает refresh-токен на сервере. Локальная пара стирается в любом случае.
func (s *SessionService) Logout(ctx context.Context) error {
	creds, err := s.store.Load()
	if err != nil {
		s.logger.Warnw("credential store unreadable", "error", err)
	}
	defer s.forget()
	if creds.RefreshToken == "" {
		return ErrNoRefreshToken
	}
	if err := s.api.Logout(ctx, creds.RefreshToken); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

func (s *SessionService) forget() {
	if err := s.store.Clear(); err != nil {
		s.logger.Warnw("cannot clear credentials", "error", err)
	}
	s.state.Set(auth.Unauthenticated)
}

// Step возвращает шаг установки: installed или setup.
func (s *SessionService) Step(ctx context.Context) (string, error) {
	st, err := s.api.Step(ctx)
	if err != nil {
		return "", fmt.Errorf("step: %w", err)
	}
	return st.Step, nil
}

// Setup создаёт первую учётную запись по ключу установки.
func (s *SessionService) Setup(ctx context.Context, key, user, password string) error {
	if key == "" {
		return errors.New("setup key is required")
	}
	if err := s.api.Setup(ctx, key, strings.TrimSpace(user), password); err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	return nil
}

// Probe определяет состояние аутентификации и публикует его.
func (s *SessionService) Probe(ctx context.Context) (auth.State, error) {
	creds, err := s.store.Load()
	if err != nil {
		s.logger.Warnw("credential store unreadable", "error", err)
	}
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		s.state.Set(auth.Unauthenticated)
		return auth.Unauthenticated, nil
	}
	err = s.api.Ping(ctx)
	switch {
	case err == nil:
		s.state.Set(auth.Authenticated)
		return auth.Authenticated, nil
	case gateway.IsUnauthorized(err), gateway.IsStatus(err, http.StatusForbidden):
		s.state.Set(auth.Unauthenticated)
		return auth.Unauthenticated, nil
	default:
		return auth.Unknown, fmt.Errorf("probe: %w", err)
	}
}
