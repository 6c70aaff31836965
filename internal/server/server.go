// Package server собирает API-сервер: репозитории, сервисы, диспетчер и роутер.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"LightAdmin/internal/config"
	"LightAdmin/internal/dispatch"
	"LightAdmin/internal/handlers"
	"LightAdmin/internal/repo"
	"LightAdmin/internal/service"
)

// Server — собранное приложение.
type Server struct {
	Handler    *handlers.Handler
	Dispatcher *dispatch.Dispatcher

	cfg    *config.Config
	logger *zap.SugaredLogger
}

// NewSink выбирает транспорт: MQTT при заданном брокере, иначе лог.
func NewSink(cfg *config.Config, logger *zap.SugaredLogger) (dispatch.Sink, error) {
	if cfg.MQTTBroker == "" {
		return dispatch.NewLogSink(logger), nil
	}
	return dispatch.NewMQTTSink(cfg.MQTTBroker, cfg.MQTTClientID, logger)
}

// New wires the API over db.
func New(cfg *config.Config, db *gorm.DB, sink dispatch.Sink, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	devices := repo.NewDeviceRepository(db)
	points := repo.NewPointRepository(db)
	presets := repo.NewPresetRepository(db)

	disp := dispatch.NewDispatcher(devices, points, sink, logger)
	lock := &service.LightLock{}
	issuer := service.NewTokenIssuer(cfg.AuthSecret, cfg.RefreshSecret, cfg.AccessTTL)

	svc := handlers.Services{
		Users:   service.NewUserService(repo.NewCredentialRepository(db), repo.NewTokenRepository(db), issuer, cfg.SetupSecret, logger),
		Devices: service.NewDeviceService(devices, service.FileInventory{Path: cfg.DevicesFile}, disp, logger),
		Points:  service.NewPointService(points, lock, disp, logger),
		Presets: service.NewPresetService(presets, points, lock, disp, logger),
	}
	return &Server{
		Handler:    handlers.NewHandler(svc, logger, cfg),
		Dispatcher: disp,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run слушает cfg.BaseURL до отмены ctx, затем корректно останавливается.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.BaseURL,
		Handler:           s.Handler.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	dctx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Dispatcher.Run(dctx)
	}()
	defer func() {
		stop()
		wg.Wait()
		s.Dispatcher.Close()
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Infow("Starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
