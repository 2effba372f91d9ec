package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sesi/membership/internal/pkg/metrics"
)

type recordingSender struct {
	mu       sync.Mutex
	sent     []Message
	failures int
}

func (s *recordingSender) Send(_ context.Context, msg Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("smtp unavailable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.sent...)
}

type failingQueue struct{}

func (failingQueue) Enqueue(context.Context, Message) error { return errors.New("redis down") }
func (failingQueue) Dequeue(ctx context.Context) (Message, error) {
	<-ctx.Done()
	return Message{}, ctx.Err()
}
func (failingQueue) Close() error { return nil }

func TestMemoryQueueFIFO(t *testing.T) {
	q := NewMemoryQueue(4)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, Message{ID: "1"}))
	require.NoError(t, q.Enqueue(ctx, Message{ID: "2"}))
	assert.Equal(t, 2, q.Len())

	m, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", m.ID)
	m, err = q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2", m.ID)
}

func TestMemoryQueueFull(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, Message{ID: "1"}))
	assert.ErrorIs(t, q.Enqueue(ctx, Message{ID: "2"}), ErrQueueFull)
}

func TestMemoryQueueCloseDrains(t *testing.T) {
	q := NewMemoryQueue(2)
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, Message{ID: "1"}))
	require.NoError(t, q.Close())

	assert.ErrorIs(t, q.Enqueue(ctx, Message{ID: "2"}), ErrQueueClosed)

	m, err := q.Dequeue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "1", m.ID)

	_, err = q.Dequeue(ctx)
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestMemoryQueueDequeueHonoursContext(t *testing.T) {
	q := NewMemoryQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := q.Dequeue(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDispatcherStampsMessage(t *testing.T) {
	q := NewMemoryQueue(1)
	d := NewDispatcher(q, zerolog.Nop(), nil)
	fixed := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return fixed }

	d.Notify(context.Background(), Message{Kind: KindApproval, To: "a@b.c", Attempt: 5})

	m, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, 0, m.Attempt)
	assert.Equal(t, fixed, m.EnqueuedAt)
}

func TestDispatcherOutlivesCancelledRequest(t *testing.T) {
	q := NewMemoryQueue(32)
	d := NewDispatcher(q, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 20; i++ {
		d.Notify(ctx, Message{Kind: KindApproval, To: "a@b.c"})
	}
	assert.Equal(t, 20, q.Len())
}

func TestDispatcherSwallowsErrors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	d := NewDispatcher(failingQueue{}, zerolog.Nop(), m)

	assert.NotPanics(t, func() {
		d.Notify(context.Background(), Message{Kind: KindApproval, To: "a@b.c"})
		d.Notify(context.Background(), Message{Kind: KindApproval})
	})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsEnqueued.WithLabelValues(KindApproval, "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsEnqueued.WithLabelValues(KindApproval, "skipped")))
}

func TestWorkerDeliversAndStops(t *testing.T) {
	q := NewMemoryQueue(8)
	sender := &recordingSender{}
	w := NewWorker(q, sender, WorkerConfig{Concurrency: 2, Backoff: time.Millisecond}, zerolog.Nop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(ctx, Message{ID: string(rune('a' + i)), To: "x@y.z"}))
	}

	require.Eventually(t, func() bool { return len(sender.Sent()) == 3 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}

func TestWorkerRetriesThenSucceeds(t *testing.T) {
	q := NewMemoryQueue(1)
	sender := &recordingSender{failures: 2}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	w := NewWorker(q, sender, WorkerConfig{MaxAttempts: 3, Backoff: time.Millisecond}, zerolog.Nop(), m)

	w.deliver(context.Background(), Message{ID: "1", Kind: KindApproval})

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, 3, sent[0].Attempt)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.NotificationsDelivered.WithLabelValues(KindApproval, "retry")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDelivered.WithLabelValues(KindApproval, "sent")))
}

func TestWorkerGivesUp(t *testing.T) {
	q := NewMemoryQueue(1)
	sender := &recordingSender{failures: 10}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	w := NewWorker(q, sender, WorkerConfig{MaxAttempts: 2, Backoff: time.Millisecond}, zerolog.Nop(), m)

	w.deliver(context.Background(), Message{ID: "1", Kind: KindApprovalAdmin})

	assert.Empty(t, sender.Sent())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsDelivered.WithLabelValues(KindApprovalAdmin, "dropped")))
	assert.Equal(t, 0, q.Len())
}

func TestWorkerStopsOnClosedQueue(t *testing.T) {
	q := NewMemoryQueue(1)
	require.NoError(t, q.Close())
	w := NewWorker(q, &recordingSender{}, WorkerConfig{}, zerolog.Nop(), nil)

	assert.NoError(t, w.Run(context.Background()))
}
