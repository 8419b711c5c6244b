package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	audit "onegov/pkg/platform/audit"
)

type fakeOutbox struct {
	entries []audit.OutboxEntry
	marked  []string
}

func (f *fakeOutbox) Pending(_ context.Context, limit int) ([]audit.OutboxEntry, error) {
	var out []audit.OutboxEntry
	for _, e := range f.entries {
		if contains(f.marked, e.ID) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeOutbox) MarkPublished(_ context.Context, ids []string) error {
	f.marked = append(f.marked, ids...)
	return nil
}

type fakeProducer struct {
	failOn string
	keys   []string
}

func (p *fakeProducer) Publish(_ context.Context, key string, _ []byte) error {
	if key == p.failOn {
		return errors.New("broker down")
	}
	p.keys = append(p.keys, key)
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func TestFlush(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("relays and marks a batch", func(t *testing.T) {
		outbox := &fakeOutbox{entries: []audit.OutboxEntry{
			{ID: "1", AggregateID: "APP1"},
			{ID: "2", AggregateID: "APP2"},
			{ID: "3", AggregateID: "APP3"},
		}}
		producer := &fakeProducer{}
		w := NewWorker(outbox, producer, logger, WithBatchSize(2))

		n, err := w.Flush(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.Equal(t, []string{"APP1", "APP2"}, producer.keys)

		n, err = w.Flush(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"1", "2", "3"}, outbox.marked)
	})

	t.Run("stops at the first producer failure and keeps the rest pending", func(t *testing.T) {
		outbox := &fakeOutbox{entries: []audit.OutboxEntry{
			{ID: "1", AggregateID: "APP1"},
			{ID: "2", AggregateID: "BAD"},
			{ID: "3", AggregateID: "APP3"},
		}}
		w := NewWorker(outbox, &fakeProducer{failOn: "BAD"}, logger)

		n, err := w.Flush(context.Background())
		require.Error(t, err)
		assert.Equal(t, 1, n)
		assert.Equal(t, []string{"1"}, outbox.marked)
	})
}
