package repo

import (
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"LightAdmin/internal/model"
)

// InitDB открывает БД по DSN и накатывает схему.
// postgres:// и "host=..." уходят в Postgres, остальное — файл SQLite (modernc, без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(dialector(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func dialector(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return postgres.Open(dsn)
	}
	if strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	} else if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn + "?_pragma=foreign_keys(1)"
	}
	return gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
}

// Migrate создаёт/обновляет таблицы всех моделей.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Credential{},
		&model.RefreshToken{},
		&model.Device{},
		&model.Point{},
		&model.Preset{},
		&model.PresetItem{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
