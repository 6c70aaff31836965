package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"LightAdmin/internal/model"
	"LightAdmin/internal/service"
)

// UserHandler — установка и сессии.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
}

func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger}
}

// Step GET /api/step
func (h *UserHandler) Step(w http.ResponseWriter, r *http.Request) {
	step, err := h.UserService.Step(r.Context())
	if err != nil {
		writeError(w, h.Logger, "Step", err)
		return
	}
	writeJSON(w, http.StatusOK, model.StepResponse{Step: step})
}

// Setup POST /api/step
func (h *UserHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req model.SetupRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.UserService.Setup(r.Context(), req); err != nil {
		writeError(w, h.Logger, "Setup", err)
		return
	}
	writeJSON(w, http.StatusOK, model.StepResponse{Step: model.StepInstalled})
}

// Login POST /api/auth
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.AuthRequest
	if !decode(w, r, &req) {
		return
	}
	pair, err := h.UserService.Login(r.Context(), req, r.UserAgent())
	if err != nil {
		writeError(w, h.Logger, "Login", err)
		return
	}
	h.Logger.Infow("Login: user logged in", "user", req.UserName)
	writeJSON(w, http.StatusOK, pair)
}

// Refresh POST /api/auth/refresh
func (h *UserHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req model.TokenBody
	if !decode(w, r, &req) {
		return
	}
	access, err := h.UserService.Refresh(r.Context(), req.Token, r.UserAgent())
	if err != nil {
		writeError(w, h.Logger, "Refresh", err)
		return
	}
	writeJSON(w, http.StatusOK, model.TokenBody{Token: access})
}

// Logout DELETE /api/auth
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req model.TokenBody
	if !decode(w, r, &req) {
		return
	}
	if err := h.UserService.Logout(r.Context(), req.Token, r.UserAgent()); err != nil {
		writeError(w, h.Logger, "Logout", err)
		return
	}
	writeJSON(w, http.StatusOK, model.ErrorResponse{Message: "logged out"})
}
