package model

import "time"

// Credential — учётная запись администратора.
type Credential struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	UserName string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"` // bcrypt hash
}

// RefreshToken — выданный refresh-токен, привязанный к User-Agent клиента.
type RefreshToken struct {
	ID           int64       `gorm:"primaryKey;autoIncrement"`
	CredentialID int64       `gorm:"not null;index"`
	Credential   *Credential `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Token        string      `gorm:"uniqueIndex;not null"`
	UserAgent    string      `gorm:"not null"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
	UsedAt       *time.Time
}
