package worker

import (
	"context"
	"log/slog"
	"time"

	audit "onegov/pkg/platform/audit"
)

// Outbox is the read side of the audit outbox.
type Outbox interface {
	Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []string) error
}

// Producer publishes one serialized event keyed for partitioning.
type Producer interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

const (
	defaultBatchSize = 100
	defaultInterval  = time.Second
)

// Worker relays outbox entries to the event stream. Delivery is at least once:
// an entry is marked only after the producer acknowledges it.
type Worker struct {
	outbox    Outbox
	producer  Producer
	logger    *slog.Logger
	batchSize int
	interval  time.Duration
}

type Option func(*Worker)

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func NewWorker(outbox Outbox, producer Producer, logger *slog.Logger, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		batchSize: defaultBatchSize,
		interval:  defaultInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := w.Flush(ctx); err != nil {
				w.logger.WarnContext(ctx, "outbox relay failed", "error", err)
			}
		}
	}
}

// Flush relays a single batch and returns how many entries were published.
// Entries published before a producer failure are still marked.
func (w *Worker) Flush(ctx context.Context) (int, error) {
	entries, err := w.outbox.Pending(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}

	published := make([]string, 0, len(entries))
	var publishErr error
	for _, e := range entries {
		if err := w.producer.Publish(ctx, e.AggregateID, e.Payload); err != nil {
			publishErr = err
			break
		}
		published = append(published, e.ID)
	}

	if err := w.outbox.MarkPublished(ctx, published); err != nil {
		return 0, err
	}
	return len(published), publishErr
}
