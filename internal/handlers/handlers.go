package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"LightAdmin/internal/config"
	"LightAdmin/internal/middleware"
	"LightAdmin/internal/service"
)

type Handler struct {
	Router chi.Router
}

// Services — зависимости хендлеров.
type Services struct {
	Users   *service.UserService
	Devices *service.DeviceService
	Points  *service.PointService
	Presets *service.PresetService
}

// NewHandler разводящий для хендлеров
func NewHandler(svc Services, logger *zap.SugaredLogger, config *config.Config) *Handler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)

	userHandler := NewUserHandler(svc.Users, logger)
	lightHandler := NewLightingHandler(svc.Devices, svc.Points, svc.Presets, logger)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("OK"))
		})

		// Public routes
		r.Get("/step", userHandler.Step)
		r.Post("/step", userHandler.Setup)
		r.Post("/auth", userHandler.Login)
		r.Delete("/auth", userHandler.Logout)
		r.Post("/auth/refresh", userHandler.Refresh)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.WithAuth(config.AuthSecret))

			r.Get("/devices", lightHandler.ListDevices)
			r.Post("/devices", lightHandler.ScanDevices)

			r.Get("/points", lightHandler.ListPoints)
			r.Put("/points", lightHandler.UpdatePoints)
			r.Post("/points/identify", lightHandler.Identify)

			r.Get("/presets", lightHandler.ListPresets)
			r.Post("/presets", lightHandler.CreatePreset)
			r.Put("/presets", lightHandler.UpdatePreset)
			r.Delete("/presets", lightHandler.DeletePreset)
			r.Get("/presets/active", lightHandler.ActivePreset)
			r.Put("/presets/active", lightHandler.ActivatePreset)
			r.Put("/presets/points", lightHandler.CapturePreset)
		})
	})

	return &Handler{Router: r}
}
