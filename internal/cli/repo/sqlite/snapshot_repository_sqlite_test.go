package sqlite

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	cmodel "LightAdmin/internal/cli/model"
	"LightAdmin/internal/cli/repo"
)

func openTemp(t *testing.T, login string) (*SnapshotRepositorySQLite, string) {
	t.Helper()
	r, dbPath, err := OpenForUser(t.TempDir(), login)
	if err != nil {
		t.Fatalf("OpenForUser: %v", err)
	}
	t.Cleanup(func() { _ = r.Close() })
	if err := r.Migrate(); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return r, dbPath
}

func TestOpenForUser_And_Migrate(t *testing.T) {
	r, dbPath := openTemp(t, "john")
	if filepath.Base(filepath.Dir(dbPath)) != "john" {
		t.Fatalf("db must live in per-user dir, got %s", dbPath)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("db file not created: %v", err)
	}
	// повторная миграция идемпотентна
	if err := r.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}

func TestOpenForUser_RejectsBadLogin(t *testing.T) {
	for _, login := range []string{"", "..", "a/b", "x y"} {
		if _, _, err := OpenForUser(t.TempDir(), login); err == nil {
			t.Fatalf("expected error for login %q", login)
		}
	}
}

func TestSnapshot_SaveLoadReplace(t *testing.T) {
	r, _ := openTemp(t, "ann")
	r.now = func() time.Time { return time.UnixMilli(1_700_000_000_000) }

	var devs []cmodel.Device
	if _, err := r.Load(repo.SnapshotDevices, &devs); !errors.Is(err, repo.ErrNoSnapshot) {
		t.Fatalf("expected ErrNoSnapshot, got %v", err)
	}

	if err := r.Save(repo.SnapshotDevices, []cmodel.Device{{ID: 1, Adr: 16, EndpointCount: 4}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	r.now = func() time.Time { return time.UnixMilli(1_700_000_060_000) }
	if err := r.Save(repo.SnapshotDevices, []cmodel.Device{{ID: 2, Adr: 17, EndpointCount: 2}}); err != nil {
		t.Fatalf("save again: %v", err)
	}

	at, err := r.Load(repo.SnapshotDevices, &devs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(devs) != 1 || devs[0].ID != 2 {
		t.Fatalf("snapshot not replaced: %+v", devs)
	}
	if at.UnixMilli() != 1_700_000_060_000 {
		t.Fatalf("saved_at mismatch: %v", at)
	}

	// другие виды независимы
	var presets []cmodel.Preset
	if _, err := r.Load(repo.SnapshotPresets, &presets); !errors.Is(err, repo.ErrNoSnapshot) {
		t.Fatalf("presets must be empty, got %v", err)
	}
}

func TestSnapshot_EncryptedAtRest(t *testing.T) {
	r, dbPath := openTemp(t, "eve")
	if err := r.Save(repo.SnapshotPresets, []cmodel.Preset{{ID: 7, PresetName: "secret-scene"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	var sealed []byte
	if err := r.db.QueryRow(`SELECT cipher FROM snapshots WHERE kind = ?`, repo.SnapshotPresets).Scan(&sealed); err != nil {
		t.Fatalf("select: %v", err)
	}
	if bytes.Contains(sealed, []byte("secret-scene")) {
		t.Fatalf("snapshot stored in plain text")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dbPath), "key.bin")); err != nil {
		t.Fatalf("key file missing: %v", err)
	}

	// чужой ключ не расшифровывает
	r.key = bytes.Repeat([]byte{1}, 32)
	var out []cmodel.Preset
	if _, err := r.Load(repo.SnapshotPresets, &out); err == nil {
		t.Fatalf("expected decrypt error with foreign key")
	}
}

func TestMigrate_TracksSchemaVersion(t *testing.T) {
	r, _ := openTemp(t, "ver")
	var v int
	if err := r.db.QueryRow(`PRAGMA user_version`).Scan(&v); err != nil {
		t.Fatalf("user_version: %v", err)
	}
	if v != 1 {
		t.Fatalf("expected schema version 1, got %d", v)
	}
}
