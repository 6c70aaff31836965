package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"LightAdmin/internal/model"
	"LightAdmin/internal/repo"
)

// PointService — уровни и геометрия точек.
type PointService struct {
	points   repo.PointRepository
	lock     *LightLock
	dispatch LightDispatcher
	logger   *zap.SugaredLogger
}

func NewPointService(points repo.PointRepository, lock *LightLock, dispatch LightDispatcher, logger *zap.SugaredLogger) *PointService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PointService{points: points, lock: lock, dispatch: dispatch, logger: logger}
}

func (s *PointService) List(ctx context.Context) ([]model.Point, error) {
	return s.points.List(ctx)
}

// Clamp приводит значения точки к допустимым границам.
func Clamp(p model.Point) model.Point {
	p.Val = min(max(p.Val, model.LightLevelMin), model.LightLevelMax)
	p.Rotation = min(max(p.Rotation, model.RotationMin), model.RotationMax)
	p.Width = max(p.Width, 0)
	p.Height = max(p.Height, 0)
	p.X = max(p.X, 0)
	p.Y = max(p.Y, 0)
	p.Watts = max(p.Watts, 0)
	return p
}

// Update сохраняет точки, снимает активный пресет и отправляет уровни.
func (s *PointService) Update(ctx context.Context, pts []model.Point) ([]model.Point, error) {
	unlock, err := s.lock.Acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	clamped := make([]model.Point, len(pts))
	for i, p := range pts {
		clamped[i] = Clamp(p)
	}
	out, err := s.points.Update(ctx, clamped)
	if err != nil {
		return nil, fmt.Errorf("update points: %w", err)
	}
	s.dispatch.Request()
	return out, nil
}

// Identify подсвечивает точку; неизвестная точка даёт ErrConflict.
func (s *PointService) Identify(ctx context.Context, id int64) error {
	unlock, err := s.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	p, err := s.points.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConflict
		}
		return fmt.Errorf("get point: %w", err)
	}
	if err := s.dispatch.Identify(ctx, *p); err != nil {
		s.logger.Warnw("identify dispatch failed", "point_id", id, "error", err)
	}
	return nil
}
