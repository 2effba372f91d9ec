package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sesi/membership/internal/pkg/metrics"
)

// enqueueTimeout bounds a single enqueue once it is detached from the request
const enqueueTimeout = 5 * time.Second

// Dispatcher enqueues messages and swallows failures
type Dispatcher struct {
	queue   Queue
	logger  zerolog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewDispatcher creates a dispatcher over queue
func NewDispatcher(queue Queue, logger zerolog.Logger, m *metrics.Metrics) *Dispatcher {
	return &Dispatcher{
		queue:   queue,
		logger:  logger.With().Str("component", "notify").Logger(),
		metrics: m,
		now:     time.Now,
	}
}

// Notify stamps and enqueues msg. It never fails the caller, and a request
// that ends early does not cancel the enqueue.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) {
	if msg.To == "" {
		d.logger.Warn().Str("kind", msg.Kind).Msg("Skipping notification without recipient")
		d.metrics.IncEnqueued(msg.Kind, "skipped")
		return
	}
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	msg.Attempt = 0
	msg.EnqueuedAt = d.now().UTC()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), enqueueTimeout)
	defer cancel()

	if err := d.queue.Enqueue(ctx, msg); err != nil {
		d.logger.Error().Err(err).
			Str("id", msg.ID).
			Str("kind", msg.Kind).
			Str("to", msg.To).
			Msg("Failed to enqueue notification")
		d.metrics.IncEnqueued(msg.Kind, "error")
		return
	}

	d.logger.Debug().Str("id", msg.ID).Str("kind", msg.Kind).Msg("Notification enqueued")
	d.metrics.IncEnqueued(msg.Kind, "ok")
}

// NopNotifier drops every message
type NopNotifier struct{}

// Notify does nothing
func (NopNotifier) Notify(context.Context, Message) {}
