package tx

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "onegov/pkg/domain-errors"
)

func TestSQLRunner(t *testing.T) {
	t.Run("commits on success and exposes the tx", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectCommit()

		err = NewSQLRunner(db).RunInTx(context.Background(), func(ctx context.Context) error {
			_, ok := From(ctx)
			assert.True(t, ok)
			return nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err = NewSQLRunner(db).RunInTx(context.Background(), func(context.Context) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cancelled context is a timeout", func(t *testing.T) {
		db, _, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = NewSQLRunner(db).RunInTx(ctx, func(context.Context) error { return nil })
		assert.True(t, dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func TestNopRunner(t *testing.T) {
	called := false
	require.NoError(t, NopRunner{}.RunInTx(context.Background(), func(context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestOrdered(t *testing.T) {
	run := func(r Runner, writeErr error) []string {
		var steps []string
		_ = r.RunInTx(context.Background(), func(ctx context.Context) error {
			return Ordered(ctx, r,
				func(context.Context) error { steps = append(steps, "record"); return nil },
				func(context.Context) error { steps = append(steps, "write"); return writeErr },
			)
		})
		return steps
	}

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.True(t, Atomic(NewSQLRunner(db)))
	assert.False(t, Atomic(NopRunner{}))

	assert.Equal(t, []string{"write", "record"}, run(NopRunner{}, nil))
	assert.Equal(t, []string{"write"}, run(NopRunner{}, errors.New("taken")), "a refused write leaves no record")
}
