package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"LightAdmin/internal/model"
	"LightAdmin/internal/service"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

// WithAuth пропускает запрос только с валидным Bearer access-токеном.
// Нет заголовка Authorization → 403, истёкший токен → 401, любой другой дефект → 403.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			token := strings.TrimPrefix(header, "Bearer ")
			uid, err := service.ParseAccessToken(token, secret)
			if err != nil {
				if errors.Is(err, service.ErrTokenExpired) {
					deny(w, http.StatusUnauthorized, "token expired")
					return
				}
				sugar.Debugw("access token rejected", "error", err)
				deny(w, http.StatusForbidden, "forbidden")
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Message: msg})
}

// GetUserIDFromContext returns the uid set by WithAuth.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(userIDKey).(int64)
	return uid, ok
}
