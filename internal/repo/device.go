package repo

import (
	"context"

	"gorm.io/gorm"

	"LightAdmin/internal/model"
)

// DeviceRepository — устройства и их точки.
type DeviceRepository interface {
	List(ctx context.Context) ([]model.Device, error)
	// Reconcile приводит таблицу устройств к найденному набору и
	// выравнивает число точек каждого устройства по EndpointCount.
	Reconcile(ctx context.Context, found []model.Device) ([]model.Device, error)
}

type deviceRepo struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepo{db: db}
}

func (r *deviceRepo) List(ctx context.Context) ([]model.Device, error) {
	var out []model.Device
	err := r.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (r *deviceRepo) Reconcile(ctx context.Context, found []model.Device) ([]model.Device, error) {
	var out []model.Device
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []model.Device
		if err := tx.Find(&current).Error; err != nil {
			return err
		}
		byAdr := make(map[int]model.Device, len(found))
		for _, d := range found {
			byAdr[d.Adr] = d
		}
		known := make(map[int]bool, len(current))
		for _, d := range current {
			f, ok := byAdr[d.Adr]
			if !ok {
				if err := deletePoints(tx, "device_id = ?", d.ID); err != nil {
					return err
				}
				if err := tx.Delete(&model.Device{}, d.ID).Error; err != nil {
					return err
				}
				continue
			}
			known[d.Adr] = true
			if f.EndpointCount != d.EndpointCount || f.PairsOf != d.PairsOf {
				if err := tx.Model(&model.Device{}).Where("id = ?", d.ID).Updates(map[string]any{
					"endpoint_count": f.EndpointCount,
					"pairs_of":       f.PairsOf,
				}).Error; err != nil {
					return err
				}
			}
		}
		for _, f := range found {
			if known[f.Adr] {
				continue
			}
			nd := model.Device{Adr: f.Adr, PairsOf: f.PairsOf, EndpointCount: f.EndpointCount}
			if err := tx.Create(&nd).Error; err != nil {
				return err
			}
		}

		if err := tx.Order("id").Find(&out).Error; err != nil {
			return err
		}
		for _, d := range out {
			if err := syncPoints(tx, d); err != nil {
				return err
			}
		}
		return nil
	})
	return out, err
}

// syncPoints добавляет точки в конец или снимает последние по позиции.
func syncPoints(tx *gorm.DB, d model.Device) error {
	var pts []model.Point
	if err := tx.Where("device_id = ?", d.ID).Order("device_position").Find(&pts).Error; err != nil {
		return err
	}
	switch {
	case len(pts) < d.EndpointCount:
		next := 0
		if len(pts) > 0 {
			next = pts[len(pts)-1].DevicePosition + 1
		}
		add := make([]model.Point, 0, d.EndpointCount-len(pts))
		for i := len(pts); i < d.EndpointCount; i++ {
			add = append(add, model.Point{DeviceID: d.ID, DevicePosition: next})
			next++
		}
		return tx.Create(&add).Error
	case len(pts) > d.EndpointCount:
		ids := make([]int64, 0, len(pts)-d.EndpointCount)
		for _, p := range pts[d.EndpointCount:] {
			ids = append(ids, p.ID)
		}
		return deletePoints(tx, "id IN ?", ids)
	}
	return nil
}

// deletePoints удаляет точки вместе с их значениями в пресетах.
func deletePoints(tx *gorm.DB, cond string, arg any) error {
	var ids []int64
	if err := tx.Model(&model.Point{}).Where(cond, arg).Pluck("id", &ids).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("point_id IN ?", ids).Delete(&model.PresetItem{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&model.Point{}).Error
}
