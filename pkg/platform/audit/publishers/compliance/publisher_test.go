package compliance

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onegov/pkg/domain"
	audit "onegov/pkg/platform/audit"
	"onegov/pkg/platform/audit/store/memory"
	"onegov/pkg/requestcontext"
)

type failingStore struct{}

func (failingStore) Append(context.Context, audit.Event) error { return errors.New("disk full") }

func TestEmit(t *testing.T) {
	citizen := id.NewCitizenID()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithRequestID(requestcontext.WithTime(context.Background(), now), "req-7")

	t.Run("fills timestamp, request id and category", func(t *testing.T) {
		store := memory.NewInMemoryStore()
		pub := New(store)

		require.NoError(t, pub.Emit(ctx, audit.Event{
			CitizenID: citizen,
			Subject:   "APP1",
			Action:    audit.EventApplicationSubmitted,
		}))

		events, err := store.ListByCitizen(ctx, citizen)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, now, events[0].Timestamp)
		assert.Equal(t, "req-7", events[0].RequestID)
		assert.Equal(t, audit.CategoryCompliance, events[0].Category)
	})

	t.Run("rejects incomplete events", func(t *testing.T) {
		pub := New(memory.NewInMemoryStore())
		assert.Error(t, pub.Emit(ctx, audit.Event{Subject: "APP1"}))
		assert.Error(t, pub.Emit(ctx, audit.Event{Action: audit.EventProfileSaved}))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		pub := New(failingStore{})
		err := pub.Emit(ctx, audit.Event{Subject: "APP1", Action: audit.EventApplicationSubmitted})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk full")
	})
}
