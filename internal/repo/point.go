package repo

import (
	"context"

	"gorm.io/gorm"

	"LightAdmin/internal/model"
)

// PointRepository — световые точки.
type PointRepository interface {
	// List returns all points ordered by id.
	List(ctx context.Context) ([]model.Point, error)
	Get(ctx context.Context, id int64) (*model.Point, error)
	// Update пишет переданные поля точек (по id+device_id) и снимает активность со всех пресетов.
	Update(ctx context.Context, pts []model.Point) ([]model.Point, error)
}

type pointRepo struct {
	db *gorm.DB
}

func NewPointRepository(db *gorm.DB) PointRepository {
	return &pointRepo{db: db}
}

func (r *pointRepo) List(ctx context.Context) ([]model.Point, error) {
	return listPoints(r.db.WithContext(ctx))
}

func listPoints(db *gorm.DB) ([]model.Point, error) {
	var out []model.Point
	err := db.Order("id").Find(&out).Error
	return out, err
}

func (r *pointRepo) Get(ctx context.Context, id int64) (*model.Point, error) {
	var p model.Point
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pointRepo) Update(ctx context.Context, pts []model.Point) ([]model.Point, error) {
	var out []model.Point
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range pts {
			// map, чтобы нулевые значения тоже записывались
			if err := tx.Model(&model.Point{}).
				Where("id = ? AND device_id = ?", p.ID, p.DeviceID).
				Updates(map[string]any{
					"val":      p.Val,
					"width":    p.Width,
					"height":   p.Height,
					"x":        p.X,
					"y":        p.Y,
					"rotation": p.Rotation,
					"watts":    p.Watts,
					"active":   p.Active,
					"tag":      p.Tag,
				}).Error; err != nil {
				return err
			}
		}
		if err := deactivatePresets(tx); err != nil {
			return err
		}
		var err error
		out, err = listPoints(tx)
		return err
	})
	return out, err
}

func deactivatePresets(tx *gorm.DB) error {
	return tx.Model(&model.Preset{}).Where("active = ?", true).Update("active", false).Error
}
