package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"LightAdmin/internal/model"
)

// TokenRepository хранит выданные refresh-токены.
type TokenRepository interface {
	Create(ctx context.Context, t *model.RefreshToken) error
	// Get returns gorm.ErrRecordNotFound for unknown tokens.
	Get(ctx context.Context, token string) (*model.RefreshToken, error)
	Touch(ctx context.Context, id int64, at time.Time) error
	Delete(ctx context.Context, id int64) error
}

type tokenRepo struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) TokenRepository {
	return &tokenRepo{db: db}
}

func (r *tokenRepo) Create(ctx context.Context, t *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tokenRepo) Get(ctx context.Context, token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tokenRepo) Touch(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.RefreshToken{}).Where("id = ?", id).Update("used_at", at).Error
}

func (r *tokenRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.RefreshToken{}, id).Error
}
