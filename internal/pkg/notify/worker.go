package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/sesi/membership/internal/pkg/metrics"
)

// WorkerConfig controls delivery concurrency and retries
type WorkerConfig struct {
	Concurrency int
	MaxAttempts int
	Backoff     time.Duration
}

// Worker drains a Queue through a Sender
type Worker struct {
	queue   Queue
	sender  Sender
	cfg     WorkerConfig
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewWorker creates a worker; zero config values fall back to 1 loop, 3 attempts, 2s backoff
func NewWorker(queue Queue, sender Sender, cfg WorkerConfig, logger zerolog.Logger, m *metrics.Metrics) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 2 * time.Second
	}
	return &Worker{
		queue:   queue,
		sender:  sender,
		cfg:     cfg,
		logger:  logger.With().Str("component", "notify-worker").Logger(),
		metrics: m,
	}
}

// Run blocks until ctx is cancelled or the queue is closed and drained
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().Int("concurrency", w.cfg.Concurrency).Msg("Notification worker started")
	defer w.logger.Info().Msg("Notification worker stopped")

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < w.cfg.Concurrency; i++ {
		g.Go(func() error { return w.loop(gctx) })
	}
	return g.Wait()
}

func (w *Worker) loop(ctx context.Context) error {
	for {
		msg, err := w.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrQueueClosed) {
				return nil
			}
			w.logger.Error().Err(err).Msg("Failed to dequeue notification")
			if !sleep(ctx, w.cfg.Backoff) {
				return nil
			}
			continue
		}
		w.deliver(ctx, msg)
	}
}

// deliver sends msg, retrying in place with linear backoff
func (w *Worker) deliver(ctx context.Context, msg Message) {
	for {
		msg.Attempt++
		err := w.sender.Send(ctx, msg)
		if err == nil {
			w.logger.Info().
				Str("id", msg.ID).
				Str("kind", msg.Kind).
				Str("to", msg.To).
				Int("attempt", msg.Attempt).
				Msg("Notification sent")
			w.metrics.IncDelivered(msg.Kind, "sent")
			return
		}

		if msg.Attempt >= w.cfg.MaxAttempts {
			w.logger.Error().Err(err).
				Str("id", msg.ID).
				Str("kind", msg.Kind).
				Str("to", msg.To).
				Int("attempt", msg.Attempt).
				Msg("Giving up on notification")
			w.metrics.IncDelivered(msg.Kind, "dropped")
			return
		}

		w.logger.Warn().Err(err).
			Str("id", msg.ID).
			Int("attempt", msg.Attempt).
			Msg("Notification delivery failed, retrying")
		w.metrics.IncDelivered(msg.Kind, "retry")

		if !sleep(ctx, time.Duration(msg.Attempt)*w.cfg.Backoff) {
			// shutting down; put it back for the next run
			if err := w.queue.Enqueue(context.WithoutCancel(ctx), msg); err != nil {
				w.logger.Error().Err(err).Str("id", msg.ID).Msg("Failed to requeue notification on shutdown")
			}
			return
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
