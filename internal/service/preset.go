package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"LightAdmin/internal/model"
	"LightAdmin/internal/repo"
)

// PresetService — пресеты пользователя.
type PresetService struct {
	presets  repo.PresetRepository
	points   repo.PointRepository
	lock     *LightLock
	dispatch LightDispatcher
	logger   *zap.SugaredLogger
}

func NewPresetService(
	presets repo.PresetRepository,
	points repo.PointRepository,
	lock *LightLock,
	dispatch LightDispatcher,
	logger *zap.SugaredLogger,
) *PresetService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PresetService{presets: presets, points: points, lock: lock, dispatch: dispatch, logger: logger}
}

// notOwned переводит "не найден" репозитория в ErrConflict.
func notOwned(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrConflict
	}
	return err
}

func (s *PresetService) List(ctx context.Context, uid int64) ([]model.Preset, error) {
	return s.presets.ListByUser(ctx, uid)
}

// Create снимает текущие уровни в новый активный пресет.
// Если такой набор уровней уже сохранён в другом пресете пользователя, возвращает ErrConflict.
func (s *PresetService) Create(ctx context.Context, uid int64, np model.NewPreset) ([]model.Preset, error) {
	name := strings.TrimSpace(np.PresetName)
	if name == "" {
		return nil, fmt.Errorf("%w: empty preset name", ErrBadRequest)
	}
	pts, err := s.points.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list points: %w", err)
	}
	dup, err := s.matchesExisting(ctx, uid, pts)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, ErrConflict
	}

	items := make([]model.PresetItem, 0, len(pts))
	for _, p := range pts {
		items = append(items, model.PresetItem{PointID: p.ID, Val: p.Val})
	}
	p := &model.Preset{UserID: uid, PresetName: name, Favorite: np.Favorite, Icon: np.Icon}
	if err := s.presets.Create(ctx, p, items); err != nil {
		return nil, fmt.Errorf("create preset: %w", err)
	}
	return s.presets.ListByUser(ctx, uid)
}

func (s *PresetService) matchesExisting(ctx context.Context, uid int64, pts []model.Point) (bool, error) {
	if len(pts) == 0 {
		return false, nil
	}
	current := make(map[int64]int, len(pts))
	for _, p := range pts {
		current[p.ID] = p.Val
	}
	list, err := s.presets.ListByUser(ctx, uid)
	if err != nil {
		return false, fmt.Errorf("list presets: %w", err)
	}
	for _, pr := range list {
		items, err := s.presets.Items(ctx, pr.ID)
		if err != nil {
			return false, fmt.Errorf("preset items: %w", err)
		}
		if len(items) != len(current) {
			continue
		}
		same := true
		for _, it := range items {
			if v, ok := current[it.PointID]; !ok || v != it.Val {
				same = false
				break
			}
		}
		if same {
			return true, nil
		}
	}
	return false, nil
}

// Update меняет имя, избранное и иконку.
func (s *PresetService) Update(ctx context.Context, uid int64, p model.Preset) ([]model.Preset, error) {
	p.UserID = uid
	p.PresetName = strings.TrimSpace(p.PresetName)
	if p.PresetName == "" {
		return nil, fmt.Errorf("%w: empty preset name", ErrBadRequest)
	}
	if err := s.presets.Update(ctx, &p); err != nil {
		return nil, notOwned(err)
	}
	return s.presets.ListByUser(ctx, uid)
}

func (s *PresetService) Delete(ctx context.Context, uid, id int64) ([]model.Preset, error) {
	if err := s.presets.Delete(ctx, uid, id); err != nil {
		return nil, notOwned(err)
	}
	return s.presets.ListByUser(ctx, uid)
}

// Active returns the active preset id or model.NoActivePreset.
func (s *PresetService) Active(ctx context.Context, uid int64) (int64, error) {
	p, err := s.presets.Active(ctx, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.NoActivePreset, nil
		}
		return 0, err
	}
	return p.ID, nil
}

// Activate переносит уровни пресета в точки и отправляет их на контроллеры.
func (s *PresetService) Activate(ctx context.Context, uid, id int64) error {
	unlock, err := s.lock.Acquire()
	if err != nil {
		return err
	}
	defer unlock()

	if _, err := s.presets.Activate(ctx, uid, id); err != nil {
		return notOwned(err)
	}
	s.dispatch.Request()
	return nil
}

// Capture перезаписывает уровни пресета текущими.
func (s *PresetService) Capture(ctx context.Context, uid, id int64) error {
	return notOwned(s.presets.Capture(ctx, uid, id))
}
