package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"LightAdmin/internal/middleware"
	"LightAdmin/internal/model"
	"LightAdmin/internal/service"
)

// LightingHandler — устройства, точки и пресеты.
type LightingHandler struct {
	Devices *service.DeviceService
	Points  *service.PointService
	Presets *service.PresetService
	Logger  *zap.SugaredLogger
}

func NewLightingHandler(
	devices *service.DeviceService,
	points *service.PointService,
	presets *service.PresetService,
	logger *zap.SugaredLogger,
) *LightingHandler {
	return &LightingHandler{Devices: devices, Points: points, Presets: presets, Logger: logger}
}

func (h *LightingHandler) ListDevices(w http.ResponseWriter, r *http.Request) {
	devs, err := h.Devices.List(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListDevices", err)
		return
	}
	writeJSON(w, http.StatusOK, devs)
}

func (h *LightingHandler) ScanDevices(w http.ResponseWriter, r *http.Request) {
	devs, err := h.Devices.Scan(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ScanDevices", err)
		return
	}
	writeJSON(w, http.StatusOK, devs)
}

func (h *LightingHandler) ListPoints(w http.ResponseWriter, r *http.Request) {
	pts, err := h.Points.List(r.Context())
	if err != nil {
		writeError(w, h.Logger, "ListPoints", err)
		return
	}
	writeJSON(w, http.StatusOK, pts)
}

func (h *LightingHandler) UpdatePoints(w http.ResponseWriter, r *http.Request) {
	var pts []model.Point
	if !decode(w, r, &pts) {
		return
	}
	out, err := h.Points.Update(r.Context(), pts)
	if err != nil {
		writeError(w, h.Logger, "UpdatePoints", err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LightingHandler) Identify(w http.ResponseWriter, r *http.Request) {
	var q model.QueryByID
	if !decode(w, r, &q) {
		return
	}
	if err := h.Points.Identify(r.Context(), q.ID); err != nil {
		writeError(w, h.Logger, "Identify", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

// userID достаёт uid, положенный WithAuth.
func (h *LightingHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusForbidden, "forbidden")
	}
	return uid, ok
}

func (h *LightingHandler) ListPresets(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	list, err := h.Presets.List(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "ListPresets", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LightingHandler) CreatePreset(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var np model.NewPreset
	if !decode(w, r, &np) {
		return
	}
	list, err := h.Presets.Create(r.Context(), uid, np)
	if err != nil {
		writeError(w, h.Logger, "CreatePreset", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LightingHandler) UpdatePreset(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var p model.Preset
	if !decode(w, r, &p) {
		return
	}
	list, err := h.Presets.Update(r.Context(), uid, p)
	if err != nil {
		writeError(w, h.Logger, "UpdatePreset", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LightingHandler) DeletePreset(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var q model.QueryByID
	if !decode(w, r, &q) {
		return
	}
	list, err := h.Presets.Delete(r.Context(), uid, q.ID)
	if err != nil {
		writeError(w, h.Logger, "DeletePreset", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *LightingHandler) ActivePreset(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	id, err := h.Presets.Active(r.Context(), uid)
	if err != nil {
		writeError(w, h.Logger, "ActivePreset", err)
		return
	}
	writeJSON(w, http.StatusOK, model.QueryByID{ID: id})
}

func (h *LightingHandler) ActivatePreset(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var q model.QueryByID
	if !decode(w, r, &q) {
		return
	}
	if err := h.Presets.Activate(r.Context(), uid, q.ID); err != nil {
		writeError(w, h.Logger, "ActivatePreset", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (h *LightingHandler) CapturePreset(w http.ResponseWriter, r *http.Request) {
	uid, ok := h.userID(w, r)
	if !ok {
		return
	}
	var q model.QueryByID
	if !decode(w, r, &q) {
		return
	}
	if err := h.Presets.Capture(r.Context(), uid, q.ID); err != nil {
		writeError(w, h.Logger, "CapturePreset", err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}
