package dispatch

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"LightAdmin/internal/model"
)

// DeviceLister and PointLister are satisfied by the repo layer.
type DeviceLister interface {
	List(ctx context.Context) ([]model.Device, error)
}

type PointLister interface {
	List(ctx context.Context) ([]model.Point, error)
}

// Dispatcher сводит точки с адресами устройств и отдаёт уровни в Sink.
type Dispatcher struct {
	devices DeviceLister
	points  PointLister
	sink    Sink
	batch   *Batcher
	logger  *zap.SugaredLogger
}

func NewDispatcher(devices DeviceLister, points PointLister, sink Sink, logger *zap.SugaredLogger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Dispatcher{
		devices: devices,
		points:  points,
		sink:    sink,
		batch:   NewBatcher(),
		logger:  logger,
	}
}

// Request schedules a flush of all levels; see Run.
func (d *Dispatcher) Request() { d.batch.Request() }

// Run обрабатывает запросы до отмены ctx.
func (d *Dispatcher) Run(ctx context.Context) {
	d.batch.Run(ctx, func(ctx context.Context) {
		if err := d.Flush(ctx); err != nil {
			d.logger.Errorw("dispatch failed", "error", err)
		}
	})
}

// Flush sends the current level of every point whose device is known.
func (d *Dispatcher) Flush(ctx context.Context) error {
	adr, err := d.addresses(ctx)
	if err != nil {
		return err
	}
	pts, err := d.points.List(ctx)
	if err != nil {
		return fmt.Errorf("list points: %w", err)
	}
	levels := make([]Level, 0, len(pts))
	for _, p := range pts {
		a, ok := adr[p.DeviceID]
		if !ok {
			continue
		}
		levels = append(levels, Level{PointID: p.ID, Adr: a, Position: p.DevicePosition, Val: p.Val})
	}
	return d.sink.Apply(ctx, levels)
}

// Identify просит контроллер подсветить точку.
func (d *Dispatcher) Identify(ctx context.Context, p model.Point) error {
	adr, err := d.addresses(ctx)
	if err != nil {
		return err
	}
	a, ok := adr[p.DeviceID]
	if !ok {
		return fmt.Errorf("device %d of point %d not found", p.DeviceID, p.ID)
	}
	return d.sink.Identify(ctx, Level{PointID: p.ID, Adr: a, Position: p.DevicePosition, Val: p.Val})
}

func (d *Dispatcher) addresses(ctx context.Context) (map[int64]int, error) {
	devs, err := d.devices.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	out := make(map[int64]int, len(devs))
	for _, dv := range devs {
		out[dv.ID] = dv.Adr
	}
	return out, nil
}

func (d *Dispatcher) Close() { d.sink.Close() }
