package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LightAdmin/internal/model"
)

type doneToken struct {
	err  error
	done chan struct{}
}

func newDoneToken(err error) *doneToken {
	ch := make(chan struct{})
	close(ch)
	return &doneToken{err: err, done: ch}
}

func (t *doneToken) Wait() bool                     { return true }
func (t *doneToken) WaitTimeout(time.Duration) bool { return true }
func (t *doneToken) Done() <-chan struct{}          { return t.done }
func (t *doneToken) Error() error                   { return t.err }

type published struct {
	topic    string
	retained bool
	payload  []byte
}

type fakePublisher struct {
	mu     sync.Mutex
	msgs   []published
	err    error
	closed bool
}

func (f *fakePublisher) Publish(topic string, _ byte, retained bool, payload interface{}) mqtt.Token {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, published{topic: topic, retained: retained, payload: payload.([]byte)})
	return newDoneToken(f.err)
}

func (f *fakePublisher) Disconnect(uint) { f.closed = true }

type listFn[T any] func(ctx context.Context) ([]T, error)

func (f listFn[T]) List(ctx context.Context) ([]T, error) { return f(ctx) }

func fixtures() (DeviceLister, PointLister) {
	devs := listFn[model.Device](func(context.Context) ([]model.Device, error) {
		return []model.Device{{ID: 1, Adr: 0x40}}, nil
	})
	pts := listFn[model.Point](func(context.Context) ([]model.Point, error) {
		return []model.Point{
			{ID: 10, DeviceID: 1, DevicePosition: 0, Val: 100},
			{ID: 11, DeviceID: 1, DevicePosition: 1, Val: 200},
			{ID: 12, DeviceID: 9, DevicePosition: 0, Val: 300}, // устройства нет
		}, nil
	})
	return devs, pts
}

func TestDispatcher_FlushPublishesKnownPoints(t *testing.T) {
	pub := &fakePublisher{}
	devs, pts := fixtures()
	d := NewDispatcher(devs, pts, NewMQTTSinkWithClient(pub, nil), nil)

	require.NoError(t, d.Flush(context.Background()))
	require.Len(t, pub.msgs, 2)
	assert.Equal(t, "lightadmin/points/10/level", pub.msgs[0].topic)
	assert.True(t, pub.msgs[0].retained)

	var l Level
	require.NoError(t, json.Unmarshal(pub.msgs[1].payload, &l))
	assert.Equal(t, Level{PointID: 11, Adr: 0x40, Position: 1, Val: 200}, l)

	d.Close()
	assert.True(t, pub.closed)
}

func TestDispatcher_Identify(t *testing.T) {
	pub := &fakePublisher{}
	devs, pts := fixtures()
	d := NewDispatcher(devs, pts, NewMQTTSinkWithClient(pub, nil), nil)

	require.NoError(t, d.Identify(context.Background(), model.Point{ID: 10, DeviceID: 1}))
	require.Len(t, pub.msgs, 1)
	assert.Equal(t, "lightadmin/points/10/identify", pub.msgs[0].topic)
	assert.False(t, pub.msgs[0].retained)

	assert.Error(t, d.Identify(context.Background(), model.Point{ID: 12, DeviceID: 9}))
}

func TestMQTTSink_PublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	s := NewMQTTSinkWithClient(pub, nil)
	err := s.Apply(context.Background(), []Level{{PointID: 1}})
	assert.ErrorContains(t, err, "broker down")
}

func TestLogSink_NeverFails(t *testing.T) {
	s := NewLogSink(nil)
	assert.NoError(t, s.Apply(context.Background(), []Level{{PointID: 1, Val: 5}}))
	assert.NoError(t, s.Identify(context.Background(), Level{PointID: 1}))
}

func TestBatcher_CoalescesPendingRequests(t *testing.T) {
	b := NewBatcher()
	for i := 0; i < 5; i++ {
		b.Request()
	}

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx, func(context.Context) { calls.Add(1) })
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	b.Request()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
	assert.EqualValues(t, 2, calls.Load())
}
