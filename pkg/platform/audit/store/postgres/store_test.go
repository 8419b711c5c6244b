package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "onegov/pkg/domain"
	audit "onegov/pkg/platform/audit"
	txcontext "onegov/pkg/platform/tx"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestAppendWritesOutboxRow(t *testing.T) {
	db, mock := newMock(t)
	store := New(db)

	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(sqlmock.AnyArg(), "audit", "APP1760000000", "application_submitted", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.Append(context.Background(), audit.Event{
		Timestamp: time.Now(),
		CitizenID: id.NewCitizenID(),
		Subject:   "APP1760000000",
		Action:    audit.EventApplicationSubmitted,
		Status:    "submitted",
		ActorRole: id.RoleCitizen,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAppendUsesContextTransaction(t *testing.T) {
	db, mock := newMock(t)
	store := New(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO outbox").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	ctx := txcontext.WithTx(context.Background(), tx)

	require.NoError(t, store.Append(ctx, audit.Event{Subject: "doc", Action: audit.EventDocumentDeleted}))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingAndMarkPublished(t *testing.T) {
	db, mock := newMock(t)
	store := New(db)

	rows := sqlmock.NewRows([]string{"id", "aggregate_id", "event_type", "payload"}).
		AddRow("6f1c3c1e-0000-4000-8000-000000000001", "APP1", "application_submitted", []byte(`{}`)).
		AddRow("6f1c3c1e-0000-4000-8000-000000000002", "APP2", "application_transitioned", []byte(`{}`))
	mock.ExpectQuery("SELECT id, aggregate_id, event_type, payload").WithArgs(10).WillReturnRows(rows)
	mock.ExpectExec("UPDATE outbox SET published_at").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	entries, err := store.Pending(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "APP2", entries[1].AggregateID)

	require.NoError(t, store.MarkPublished(context.Background(), []string{entries[0].ID, entries[1].ID}))
	require.NoError(t, store.MarkPublished(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}
