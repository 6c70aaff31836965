package repo

import (
	"errors"
	"time"
)

// Snapshot kinds stored by the CLI cache.
const (
	SnapshotDevices = "devices"
	SnapshotPoints  = "points"
	SnapshotPresets = "presets"
)

// ErrNoSnapshot is returned by Load when nothing was cached for the kind.
var ErrNoSnapshot = errors.New("no cached snapshot")

// SnapshotRepository хранит последние ответы API для офлайн-просмотра.
type SnapshotRepository interface {
	// Save stores v (JSON encoded) under kind, replacing the previous snapshot.
	Save(kind string, v any) error
	// Load decodes the snapshot of kind into out and returns when it was fetched.
	Load(kind string, out any) (time.Time, error)
}
