package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"LightAdmin/internal/cli/repo"
)

// ErrNoCache — офлайн-режим без открытого кэша пользователя.
var ErrNoCache = errors.New("offline cache is not available: log in first")

// CatalogService отдаёт списки с сервера и складывает их в кэш пользователя.
type CatalogService struct {
	cache  repo.SnapshotRepository
	logger *zap.SugaredLogger
	now    func() time.Time
}

// NewCatalogService — cache может быть nil, тогда снимки не сохраняются.
func NewCatalogService(cache repo.SnapshotRepository, logger *zap.SugaredLogger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &CatalogService{cache: cache, logger: logger, now: time.Now}
}

// Fetch loads kind from the server (or the cache when offline) and returns
// the data with the time it was obtained.
func Fetch[T any](ctx context.Context, s *CatalogService, kind string, offline bool, load func(context.Context) (T, error)) (T, time.Time, error) {
	var out T
	if offline {
		if s.cache == nil {
			return out, time.Time{}, ErrNoCache
		}
		at, err := s.cache.Load(kind, &out)
		if err != nil {
			return out, time.Time{}, fmt.Errorf("load cached %s: %w", kind, err)
		}
		return out, at, nil
	}

	out, err := load(ctx)
	if err != nil {
		return out, time.Time{}, err
	}
	if s.cache != nil {
		if err := s.cache.Save(kind, out); err != nil {
			s.logger.Warnw("cannot cache snapshot", "kind", kind, "error", err)
		}
	}
	return out, s.now(), nil
}
