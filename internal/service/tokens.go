package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims — утверждения access-токена.
type AccessClaims struct {
	UID int64 `json:"uid"`
	jwt.RegisteredClaims
}

// RefreshClaims — утверждения refresh-токена. Срока нет: токен живёт, пока он есть в БД.
type RefreshClaims struct {
	UID       int64 `json:"uid"`
	CreatedAt int64 `json:"created_at"`
	jwt.RegisteredClaims
}

// ErrTokenExpired is returned by ParseAccessToken for a well-formed token past its exp.
var ErrTokenExpired = errors.New("token expired")

// TokenIssuer подписывает пары токенов HS256.
type TokenIssuer struct {
	authSecret    []byte
	refreshSecret []byte
	accessTTL     time.Duration
	now           func() time.Time
}

func NewTokenIssuer(authSecret, refreshSecret string, accessTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		authSecret:    []byte(authSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     accessTTL,
		now:           time.Now,
	}
}

// Access issues an access token for uid.
func (t *TokenIssuer) Access(uid int64) (string, error) {
	claims := AccessClaims{
		UID: uid,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(t.now().Add(t.accessTTL)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.authSecret)
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return s, nil
}

// Refresh issues a refresh token; jti делает каждый токен уникальным.
func (t *TokenIssuer) Refresh(uid int64) (string, error) {
	claims := RefreshClaims{
		UID:       uid,
		CreatedAt: t.now().Unix(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID: uuid.NewString(),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("sign refresh token: %w", err)
	}
	return s, nil
}

// ParseRefresh проверяет подпись refresh-токена и возвращает uid.
func (t *TokenIssuer) ParseRefresh(token string) (int64, error) {
	claims := &RefreshClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return t.refreshSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return 0, err
	}
	return claims.UID, nil
}

// ParseAccessToken validates an access token signed with secret.
// Expired tokens yield ErrTokenExpired, everything else is a generic parse error.
func ParseAccessToken(token, secret string) (int64, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, err
	}
	if !parsed.Valid {
		return 0, errors.New("invalid token")
	}
	return claims.UID, nil
}
