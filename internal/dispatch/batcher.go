package dispatch

import "context"

// Batcher склеивает запросы на отправку: пока flush не начался,
// любое число Request даёт один вызов.
type Batcher struct {
	ch chan struct{}
}

func NewBatcher() *Batcher {
	return &Batcher{ch: make(chan struct{}, 1)}
}

// Request marks a flush as pending. Never blocks.
func (b *Batcher) Request() {
	select {
	case b.ch <- struct{}{}:
	default:
	}
}

// Run calls flush once per pending batch until ctx is done.
func (b *Batcher) Run(ctx context.Context, flush func(context.Context)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-b.ch:
			flush(ctx)
		}
	}
}
