// Package auth holds the client-side authentication state and its broadcast bus.
package auth

import "sync"

// State is the tri-state authentication flag shared by the whole CLI.
type State int32

const (
	Unknown State = iota
	Authenticated
	Unauthenticated
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Unauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// Reader is handed to consumers that only observe the state.
type Reader interface {
	Current() State
	// Subscribe returns a channel receiving every state change and a cancel func.
	Subscribe() (<-chan State, func())
}

// Writer is handed only to the request gateway and the session service.
type Writer interface {
	Set(s State)
}

// Bus — publish/subscribe хранилище состояния аутентификации.
// Подписчик получает только последнее значение, если не успел прочитать предыдущее.
type Bus struct {
	mu   sync.Mutex
	cur  State
	subs map[int]chan State
	next int
}

var (
	_ Reader = (*Bus)(nil)
	_ Writer = (*Bus)(nil)
)

// NewBus creates a bus in the Unknown state.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan State)}
}

// Current returns the last published state.
func (b *Bus) Current() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cur
}

// Set publishes s to all subscribers. Repeating the current state is a no-op.
func (b *Bus) Set(s State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cur == s {
		return
	}
	b.cur = s
	for _, ch := range b.subs {
		select {
		case ch <- s:
		default:
			// буфер занят: выбрасываем устаревшее значение
			select {
			case <-ch:
			default:
			}
			ch <- s
		}
	}
}

// Subscribe registers a new listener.
func (b *Bus) Subscribe() (<-chan State, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	ch := make(chan State, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}
