package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onegov/internal/vault/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

var docColumns = []string{
	"id", "citizen_id", "kind", "filename", "size_bytes", "uploaded_at",
	"verification_status", "verified_by", "verified_at", "remarks",
}

func newMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func TestPostgresListByCitizen(t *testing.T) {
	s, mock := newMock(t)
	citizenID := id.NewCitizenID()
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM vault_documents")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(docColumns).
			AddRow(id.NewDocumentID().String(), citizenID.String(), "aadhaar", "a.pdf", int64(10), at, "pending", "", nil, "").
			AddRow(id.NewDocumentID().String(), citizenID.String(), "pan", "p.pdf", int64(20), at, "verified", "officer", at, ""))

	docs, err := s.ListByCitizen(context.Background(), citizenID)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, id.KindAadhaar, docs[0].Kind)
	assert.Nil(t, docs[0].VerifiedAt)
	assert.Equal(t, models.VerificationVerified, docs[1].Status)
	assert.Equal(t, id.RoleOfficer, docs[1].VerifiedBy)
	require.NotNil(t, docs[1].VerifiedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM vault_documents WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindByID(context.Background(), id.NewDocumentID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresUpdateVerification(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := &models.VaultDocument{
		ID:         id.NewDocumentID(),
		Status:     models.VerificationVerified,
		VerifiedBy: id.RoleOfficer,
		VerifiedAt: &now,
	}

	t.Run("pending row is updated", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND verification_status = 'pending'")).
			WithArgs(sqlmock.AnyArg(), "verified", "officer", sqlmock.AnyArg(), "").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, s.UpdateVerification(context.Background(), doc))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("decided row reports invalid state", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE vault_documents")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("FROM vault_documents WHERE id = $1")).
			WillReturnRows(sqlmock.NewRows(docColumns).
				AddRow(doc.ID.String(), id.NewCitizenID().String(), "pan", "p.pdf", int64(1), now, "rejected", "admin", now, "blurred"))
		assert.ErrorIs(t, s.UpdateVerification(context.Background(), doc), sentinel.ErrInvalidState)
	})

	t.Run("missing row reports not found", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE vault_documents")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("FROM vault_documents WHERE id = $1")).
			WillReturnError(sql.ErrNoRows)
		assert.ErrorIs(t, s.UpdateVerification(context.Background(), doc), sentinel.ErrNotFound)
	})
}

func TestPostgresDelete(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM vault_documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, s.Delete(context.Background(), id.NewDocumentID()), sentinel.ErrNotFound)
}
