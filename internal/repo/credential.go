package repo

import (
	"context"

	"gorm.io/gorm"

	"LightAdmin/internal/model"
)

// CredentialRepository — доступ к учётным записям.
type CredentialRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, c *model.Credential) error
	// GetByUserName returns gorm.ErrRecordNotFound when absent.
	GetByUserName(ctx context.Context, userName string) (*model.Credential, error)
}

type credentialRepo struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) CredentialRepository {
	return &credentialRepo{db: db}
}

func (r *credentialRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Credential{}).Count(&n).Error
	return n, err
}

func (r *credentialRepo) Create(ctx context.Context, c *model.Credential) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *credentialRepo) GetByUserName(ctx context.Context, userName string) (*model.Credential, error) {
	var c model.Credential
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}
