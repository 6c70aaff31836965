package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LightAdmin/internal/cli/model"
	"LightAdmin/internal/cli/repo"
)

// mapCache — SnapshotRepository в памяти.
type mapCache struct {
	data map[string][]byte
	at   time.Time
}

func (c *mapCache) Save(kind string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[kind] = b
	return nil
}

func (c *mapCache) Load(kind string, out any) (time.Time, error) {
	b, ok := c.data[kind]
	if !ok {
		return time.Time{}, repo.ErrNoSnapshot
	}
	return c.at, json.Unmarshal(b, out)
}

func TestFetch_OnlineSavesSnapshot(t *testing.T) {
	cache := &mapCache{data: map[string][]byte{}}
	s := NewCatalogService(cache, nil)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	devs, at, err := Fetch(context.Background(), s, repo.SnapshotDevices, false, func(context.Context) ([]model.Device, error) {
		return []model.Device{{ID: 1, Adr: 16}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, devs, 1)
	assert.Equal(t, fixed, at)
	assert.Contains(t, cache.data, repo.SnapshotDevices)
}

func TestFetch_OfflineReadsSnapshot(t *testing.T) {
	saved := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	cache := &mapCache{data: map[string][]byte{}, at: saved}
	require.NoError(t, cache.Save(repo.SnapshotPresets, []model.Preset{{ID: 2, PresetName: "evening"}}))
	s := NewCatalogService(cache, nil)

	presets, at, err := Fetch(context.Background(), s, repo.SnapshotPresets, true, func(context.Context) ([]model.Preset, error) {
		t.Fatal("server must not be called offline")
		return nil, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "evening", presets[0].PresetName)
	assert.Equal(t, saved, at)

	_, _, err = Fetch(context.Background(), s, repo.SnapshotPoints, true, func(context.Context) ([]model.Point, error) { return nil, nil })
	assert.ErrorIs(t, err, repo.ErrNoSnapshot)
}

func TestFetch_ErrorNotCached(t *testing.T) {
	cache := &mapCache{data: map[string][]byte{}}
	s := NewCatalogService(cache, nil)
	boom := errors.New("boom")
	_, _, err := Fetch(context.Background(), s, repo.SnapshotPoints, false, func(context.Context) ([]model.Point, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, cache.data)
}

func TestFetch_NoCache(t *testing.T) {
	s := NewCatalogService(nil, nil)
	_, _, err := Fetch(context.Background(), s, repo.SnapshotPoints, true, func(context.Context) ([]model.Point, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrNoCache)

	pts, _, err := Fetch(context.Background(), s, repo.SnapshotPoints, false, func(context.Context) ([]model.Point, error) {
		return []model.Point{{ID: 1}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, pts, 1)
}
