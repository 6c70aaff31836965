package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"LightAdmin/internal/model"
	"LightAdmin/internal/repo"
)

// MinCredentialLen — минимальная длина имени и пароля при установке.
const MinCredentialLen = 8

// UserService — установка, вход и ротация токенов.
type UserService struct {
	creds    repo.CredentialRepository
	tokens   repo.TokenRepository
	issuer   *TokenIssuer
	setupKey string
	logger   *zap.SugaredLogger
	now      func() time.Time

	setupMu sync.Mutex
}

func NewUserService(
	creds repo.CredentialRepository,
	tokens repo.TokenRepository,
	issuer *TokenIssuer,
	setupKey string,
	logger *zap.SugaredLogger,
) *UserService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserService{
		creds:    creds,
		tokens:   tokens,
		issuer:   issuer,
		setupKey: setupKey,
		logger:   logger,
		now:      time.Now,
	}
}

// Step reports model.StepSetup until the first account exists.
func (s *UserService) Step(ctx context.Context) (string, error) {
	n, err := s.creds.Count(ctx)
	if err != nil {
		return "", fmt.Errorf("count credentials: %w", err)
	}
	if n == 0 {
		return model.StepSetup, nil
	}
	return model.StepInstalled, nil
}

// Setup создаёт первую учётную запись.
func (s *UserService) Setup(ctx context.Context, req model.SetupRequest) error {
	if req.Key != s.setupKey {
		return ErrUnauthorized
	}
	s.setupMu.Lock()
	defer s.setupMu.Unlock()

	step, err := s.Step(ctx)
	if err != nil {
		return err
	}
	if step == model.StepInstalled {
		return ErrForbidden
	}
	name := strings.TrimSpace(req.User.UserName)
	pass := strings.TrimSpace(req.User.Password)
	if len(name) < MinCredentialLen || len(pass) < MinCredentialLen {
		return fmt.Errorf("%w: user name and password need at least %d characters", ErrBadRequest, MinCredentialLen)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pass), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.creds.Create(ctx, &model.Credential{UserName: name, Password: string(hash)}); err != nil {
		return fmt.Errorf("create credential: %w", err)
	}
	s.logger.Infow("installation completed", "user", name)
	return nil
}

// Login проверяет пароль и выдаёт пару токенов; refresh привязывается к User-Agent.
func (s *UserService) Login(ctx context.Context, req model.AuthRequest, userAgent string) (model.AuthResponse, error) {
	name := strings.TrimSpace(req.UserName)
	c, err := s.creds.GetByUserName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.AuthResponse{}, ErrUnauthorized
		}
		return model.AuthResponse{}, fmt.Errorf("get credential: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(c.Password), []byte(req.Password)) != nil {
		return model.AuthResponse{}, ErrUnauthorized
	}

	access, err := s.issuer.Access(c.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}
	refresh, err := s.issuer.Refresh(c.ID)
	if err != nil {
		return model.AuthResponse{}, err
	}
	if err := s.tokens.Create(ctx, &model.RefreshToken{
		CredentialID: c.ID,
		Token:        refresh,
		UserAgent:    userAgent,
	}); err != nil {
		return model.AuthResponse{}, fmt.Errorf("store refresh token: %w", err)
	}
	return model.AuthResponse{AccessToken: access, RefreshToken: refresh}, nil
}

// lookup находит сохранённый refresh-токен и сверяет подпись и User-Agent.
func (s *UserService) lookup(ctx context.Context, token, userAgent string) (*model.RefreshToken, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	if _, err := s.issuer.ParseRefresh(token); err != nil {
		s.logger.Debugw("refresh token rejected", "error", err)
		return nil, ErrUnauthorized
	}
	rt, err := s.tokens.Get(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("get refresh token: %w", err)
	}
	if rt.UserAgent != userAgent {
		s.logger.Warnw("refresh token used from another user agent", "credential_id", rt.CredentialID)
		return nil, ErrUnauthorized
	}
	return rt, nil
}

// Refresh returns a new access token for a stored refresh token.
func (s *UserService) Refresh(ctx context.Context, token, userAgent string) (string, error) {
	rt, err := s.lookup(ctx, token, userAgent)
	if err != nil {
		return "", err
	}
	access, err := s.issuer.Access(rt.CredentialID)
	if err != nil {
		return "", err
	}
	if err := s.tokens.Touch(ctx, rt.ID, s.now().UTC()); err != nil {
		return "", fmt.Errorf("touch refresh token: %w", err)
	}
	return access, nil
}

// Logout удаляет refresh-токен.
func (s *UserService) Logout(ctx context.Context, token, userAgent string) error {
	rt, err := s.lookup(ctx, token, userAgent)
	if err != nil {
		return err
	}
	if err := s.tokens.Delete(ctx, rt.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}
