package service

import (
	"context"
	"sync"

	"LightAdmin/internal/model"
)

// LightDispatcher отправляет уровни на контроллеры (см. internal/dispatch).
type LightDispatcher interface {
	Request()
	Identify(ctx context.Context, p model.Point) error
}

// LightLock допускает одно изменение света за раз; второе получает ErrBusy.
type LightLock struct {
	mu sync.Mutex
}

// Acquire returns an unlock func or ErrBusy.
func (l *LightLock) Acquire() (func(), error) {
	if !l.mu.TryLock() {
		return nil, ErrBusy
	}
	return l.mu.Unlock, nil
}
