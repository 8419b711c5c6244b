package store

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onegov/internal/application/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
)

var appColumns = []string{
	"id", "tracking_id", "citizen_id", "family", "service_ref", "service_name",
	"document_ids", "missing_kinds", "form_snapshot", "status", "remarks", "certificate_number",
	"created_at", "updated_at",
}

var timelineColumns = []string{
	"application_id", "status", "actor_role", "remarks", "certificate_number", "occurred_at",
}

func newMock(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgres(db), mock
}

func sampleApp(t *testing.T) *models.Application {
	t.Helper()
	app, err := models.NewApplication(models.Submission{
		CitizenID:    id.NewCitizenID(),
		Family:       models.FamilyScheme,
		ServiceRef:   "pm-kisan",
		DocumentIDs:  []id.DocumentID{id.NewDocumentID()},
		FormSnapshot: map[string]any{"name": "Asha"},
	}, "APP1767225600000000001", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return app
}

func TestPostgresCreate(t *testing.T) {
	s, mock := newMock(t)
	app := sampleApp(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO application_timeline")).
		WithArgs(sqlmock.AnyArg(), 0, "submitted", "citizen", "", "", app.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, s.Create(context.Background(), app))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateTakenTrackingID(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO applications")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "applications_tracking_id_key"})
	mock.ExpectRollback()

	err := s.Create(context.Background(), sampleApp(t))
	assert.ErrorIs(t, err, sentinel.ErrAlreadyUsed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByTrackingID(t *testing.T) {
	s, mock := newMock(t)
	appID := id.NewApplicationID()
	docID := id.NewDocumentID()
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE tracking_id = $1")).
		WithArgs("APP1767225600000000001").
		WillReturnRows(sqlmock.NewRows(appColumns).AddRow(
			appID.String(), "APP1767225600000000001", id.NewCitizenID().String(), "scheme", "pm-kisan", "PM Kisan",
			"{"+docID.String()+"}", "{land-records}", []byte(`{"age":45}`), "verified", "", "",
			at, at.Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("FROM application_timeline")).
		WillReturnRows(sqlmock.NewRows(timelineColumns).
			AddRow(appID.String(), "submitted", "citizen", "", "", at).
			AddRow(appID.String(), "verified", "officer", "documents ok", "", at.Add(time.Hour)))

	app, err := s.FindByTrackingID(context.Background(), "APP1767225600000000001")
	require.NoError(t, err)
	assert.Equal(t, appID, app.ID)
	assert.Equal(t, []id.DocumentID{docID}, app.DocumentIDs)
	assert.Equal(t, []string{"land-records"}, app.MissingKinds)
	assert.Equal(t, float64(45), app.FormSnapshot["age"])
	require.Len(t, app.Timeline, 2)
	assert.Equal(t, models.StatusVerified, app.LastEntry().Status)
	assert.Equal(t, "documents ok", app.LastEntry().Remarks)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresFindByIDNotFound(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM applications WHERE id = $1")).
		WillReturnError(sql.ErrNoRows)

	_, err := s.FindByID(context.Background(), id.NewApplicationID())
	assert.ErrorIs(t, err, sentinel.ErrNotFound)
}

func TestPostgresTransition(t *testing.T) {
	prev := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	transitioned := func(t *testing.T) *models.Application {
		app := sampleApp(t)
		_, err := app.Apply(models.Transition{Target: models.StatusVerified, Actor: id.RoleOfficer}, prev.Add(time.Hour))
		require.NoError(t, err)
		return app
	}

	t.Run("swap succeeds and appends the entry", func(t *testing.T) {
		s, mock := newMock(t)
		app := transitioned(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("WHERE id = $1 AND status = $2 AND updated_at = $3")).
			WithArgs(sqlmock.AnyArg(), "submitted", prev, "verified", "", "", app.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO application_timeline")).
			WithArgs(sqlmock.AnyArg(), 1, "verified", "officer", "", "", app.UpdatedAt).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		require.NoError(t, s.Transition(context.Background(), app, models.StatusSubmitted, prev))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("lost race", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		err := s.Transition(context.Background(), transitioned(t), models.StatusSubmitted, prev)
		assert.ErrorIs(t, err, sentinel.ErrInvalidState)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing application", func(t *testing.T) {
		s, mock := newMock(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta("UPDATE applications")).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectRollback()

		err := s.Transition(context.Background(), transitioned(t), models.StatusSubmitted, prev)
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})
}
