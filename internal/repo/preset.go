package repo

import (
	"context"

	"gorm.io/gorm"

	"LightAdmin/internal/model"
)

// PresetRepository — пресеты пользователя. Чужой или несуществующий пресет → gorm.ErrRecordNotFound.
type PresetRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]model.Preset, error)
	Get(ctx context.Context, userID, id int64) (*model.Preset, error)
	Items(ctx context.Context, presetID int64) ([]model.PresetItem, error)
	// Create вставляет активный пресет со снимком items, остальные пресеты деактивируются.
	Create(ctx context.Context, p *model.Preset, items []model.PresetItem) error
	Update(ctx context.Context, p *model.Preset) error
	Delete(ctx context.Context, userID, id int64) error
	// Active returns gorm.ErrRecordNotFound when no preset of the user is active.
	Active(ctx context.Context, userID int64) (*model.Preset, error)
	// Activate делает пресет активным и переносит его уровни в точки.
	Activate(ctx context.Context, userID, id int64) ([]model.Point, error)
	// Capture перезаписывает items пресета текущими уровнями точек.
	Capture(ctx context.Context, userID, id int64) error
}

type presetRepo struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) PresetRepository {
	return &presetRepo{db: db}
}

func (r *presetRepo) ListByUser(ctx context.Context, userID int64) ([]model.Preset, error) {
	out := []model.Preset{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&out).Error
	return out, err
}

func (r *presetRepo) Get(ctx context.Context, userID, id int64) (*model.Preset, error) {
	return getPreset(r.db.WithContext(ctx), userID, id)
}

func getPreset(db *gorm.DB, userID, id int64) (*model.Preset, error) {
	var p model.Preset
	if err := db.Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presetRepo) Items(ctx context.Context, presetID int64) ([]model.PresetItem, error) {
	var out []model.PresetItem
	err := r.db.WithContext(ctx).Where("preset_id = ?", presetID).Order("point_id").Find(&out).Error
	return out, err
}

func (r *presetRepo) Create(ctx context.Context, p *model.Preset, items []model.PresetItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deactivatePresets(tx); err != nil {
			return err
		}
		p.Active = true
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		return insertItems(tx, p.ID, items)
	})
}

func insertItems(tx *gorm.DB, presetID int64, items []model.PresetItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]model.PresetItem, len(items))
	for i, it := range items {
		rows[i] = model.PresetItem{PresetID: presetID, PointID: it.PointID, Val: it.Val}
	}
	return tx.Create(&rows).Error
}

func (r *presetRepo) Update(ctx context.Context, p *model.Preset) error {
	tx := r.db.WithContext(ctx).Model(&model.Preset{}).
		Where("id = ? AND user_id = ?", p.ID, p.UserID).
		Updates(map[string]any{
			"preset_name": p.PresetName,
			"favorite":    p.Favorite,
			"icon":        p.Icon,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *presetRepo) Delete(ctx context.Context, userID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getPreset(tx, userID, id); err != nil {
			return err
		}
		if err := tx.Where("preset_id = ?", id).Delete(&model.PresetItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Preset{}, id).Error
	})
}

func (r *presetRepo) Active(ctx context.Context, userID int64) (*model.Preset, error) {
	var p model.Preset
	err := r.db.WithContext(ctx).Where("user_id = ? AND active = ?", userID, true).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *presetRepo) Activate(ctx context.Context, userID, id int64) ([]model.Point, error) {
	var out []model.Point
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getPreset(tx, userID, id); err != nil {
			return err
		}
		if err := deactivatePresets(tx); err != nil {
			return err
		}
		if err := tx.Model(&model.Preset{}).Where("id = ?", id).Update("active", true).Error; err != nil {
			return err
		}
		var items []model.PresetItem
		if err := tx.Where("preset_id = ?", id).Find(&items).Error; err != nil {
			return err
		}
		for _, it := range items {
			if err := tx.Model(&model.Point{}).Where("id = ?", it.PointID).Update("val", it.Val).Error; err != nil {
				return err
			}
		}
		var err error
		out, err = listPoints(tx)
		return err
	})
	return out, err
}

func (r *presetRepo) Capture(ctx context.Context, userID, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := getPreset(tx, userID, id); err != nil {
			return err
		}
		pts, err := listPoints(tx)
		if err != nil {
			return err
		}
		if err := tx.Where("preset_id = ?", id).Delete(&model.PresetItem{}).Error; err != nil {
			return err
		}
		items := make([]model.PresetItem, 0, len(pts))
		for _, p := range pts {
			items = append(items, model.PresetItem{PointID: p.ID, Val: p.Val})
		}
		return insertItems(tx, id, items)
	})
}
