package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LightAdmin/internal/model"
)

func TestUser_SetupFlow(t *testing.T) {
	e := newEnv(t, time.Minute)

	var step model.StepResponse
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/step", "", nil, &step))
	assert.Equal(t, model.StepSetup, step.Step)

	t.Run("wrong key", func(t *testing.T) {
		req := model.SetupRequest{Key: "nope", User: model.AuthRequest{UserName: adminName, Password: adminPass}}
		assert.Equal(t, http.StatusUnauthorized, e.call(t, http.MethodPost, "/api/step", "", req, nil))
	})
	t.Run("short credentials", func(t *testing.T) {
		req := model.SetupRequest{Key: setupKey, User: model.AuthRequest{UserName: "op", Password: adminPass}}
		assert.Equal(t, http.StatusBadRequest, e.call(t, http.MethodPost, "/api/step", "", req, nil))
	})
	t.Run("invalid body", func(t *testing.T) {
		assert.Equal(t, http.StatusBadRequest, e.call(t, http.MethodPost, "/api/step", "", "not an object", nil))
	})

	e.login(t)
	require.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/step", "", nil, &step))
	assert.Equal(t, model.StepInstalled, step.Step)

	again := model.SetupRequest{Key: setupKey, User: model.AuthRequest{UserName: "operator2", Password: adminPass}}
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodPost, "/api/step", "", again, nil))
}

func TestUser_LoginRefreshLogout(t *testing.T) {
	e := newEnv(t, time.Minute)
	pair := e.login(t)

	bad := model.AuthRequest{UserName: adminName, Password: "wrong-pass"}
	assert.Equal(t, http.StatusUnauthorized, e.call(t, http.MethodPost, "/api/auth", "", bad, nil))

	var tok model.TokenBody
	require.Equal(t, http.StatusOK, e.call(t, http.MethodPost, "/api/auth/refresh", "", model.TokenBody{Token: pair.RefreshToken}, &tok))
	assert.NotEmpty(t, tok.Token)
	assert.Equal(t, http.StatusOK, e.call(t, http.MethodGet, "/api/devices", tok.Token, nil, nil))

	assert.Equal(t, http.StatusUnauthorized, e.call(t, http.MethodPost, "/api/auth/refresh", "", model.TokenBody{Token: "bogus"}, nil))

	require.Equal(t, http.StatusOK, e.call(t, http.MethodDelete, "/api/auth", "", model.TokenBody{Token: pair.RefreshToken}, nil))
	assert.Equal(t, http.StatusUnauthorized, e.call(t, http.MethodPost, "/api/auth/refresh", "", model.TokenBody{Token: pair.RefreshToken}, nil))
}

func TestProtectedRoutes_AuthSplit(t *testing.T) {
	e := newEnv(t, -time.Second) // access-токены выдаются уже истёкшими
	pair := e.login(t)

	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodGet, "/api/points", "", nil, nil))
	assert.Equal(t, http.StatusForbidden, e.call(t, http.MethodGet, "/api/points", "garbage", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, e.call(t, http.MethodGet, "/api/points", pair.AccessToken, nil, nil))
}
