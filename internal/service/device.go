package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"LightAdmin/internal/model"
	"LightAdmin/internal/repo"
)

// DeviceService — список контроллеров и пересканирование шины.
type DeviceService struct {
	devices  repo.DeviceRepository
	inv      Inventory
	dispatch LightDispatcher
	logger   *zap.SugaredLogger
}

func NewDeviceService(devices repo.DeviceRepository, inv Inventory, dispatch LightDispatcher, logger *zap.SugaredLogger) *DeviceService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DeviceService{devices: devices, inv: inv, dispatch: dispatch, logger: logger}
}

func (s *DeviceService) List(ctx context.Context) ([]model.Device, error) {
	return s.devices.List(ctx)
}

// Scan приводит таблицу устройств и их точек к текущей инвентаризации.
func (s *DeviceService) Scan(ctx context.Context) ([]model.Device, error) {
	found, err := s.inv.Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("scan inventory: %w", err)
	}
	devs, err := s.devices.Reconcile(ctx, found)
	if err != nil {
		return nil, fmt.Errorf("reconcile devices: %w", err)
	}
	s.logger.Infow("devices scanned", "count", len(devs))
	s.dispatch.Request()
	return devs, nil
}
