package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"onegov/internal/application/models"
	"onegov/internal/platform/postgres"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
	txcontext "onegov/pkg/platform/tx"
)

const trackingConstraint = "applications_tracking_id_key"

// PostgresStore persists applications in applications and
// application_timeline. Multi-statement writes join the caller's transaction
// when one is in the context and open their own otherwise.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(dbExecutor) error) error {
	if tx, ok := txcontext.From(ctx); ok {
		return fn(tx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

const applicationColumns = `id, tracking_id, citizen_id, family, service_ref, service_name,
	document_ids, missing_kinds, form_snapshot, status, remarks, certificate_number,
	created_at, updated_at`

// Create inserts the application and its first timeline entry. A taken
// tracking id is reported as sentinel.ErrAlreadyUsed.
func (s *PostgresStore) Create(ctx context.Context, app *models.Application) error {
	snapshot, err := json.Marshal(app.FormSnapshot)
	if err != nil {
		return fmt.Errorf("encode form snapshot: %w", err)
	}
	docIDs := make([]string, len(app.DocumentIDs))
	for i, d := range app.DocumentIDs {
		docIDs[i] = d.String()
	}
	missing := app.MissingKinds
	if missing == nil {
		missing = []string{}
	}

	return s.inTx(ctx, func(db dbExecutor) error {
		query := `INSERT INTO applications (` + applicationColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
		_, err := db.ExecContext(ctx, query,
			uuid.UUID(app.ID), app.TrackingID, uuid.UUID(app.CitizenID), string(app.Family),
			app.ServiceRef, app.ServiceName, pq.Array(docIDs), pq.Array(missing), string(snapshot),
			string(app.Status), app.Remarks, app.CertificateNumber, app.CreatedAt, app.UpdatedAt,
		)
		if err != nil {
			if postgres.IsUniqueViolation(err, trackingConstraint) {
				return sentinel.ErrAlreadyUsed
			}
			return fmt.Errorf("insert application: %w", err)
		}
		for seq, entry := range app.Timeline {
			if err := insertEntry(ctx, db, app.ID, seq, entry); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertEntry(ctx context.Context, db dbExecutor, appID id.ApplicationID, seq int, e models.TimelineEntry) error {
	query := `INSERT INTO application_timeline
		(application_id, seq, status, actor_role, remarks, certificate_number, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := db.ExecContext(ctx, query,
		uuid.UUID(appID), seq, string(e.Status), string(e.ActorRole), e.Remarks, e.CertificateNumber, e.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("insert timeline entry: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		app       models.Application
		appID     uuid.UUID
		citizenID uuid.UUID
		family    string
		status    string
		docIDs    []string
		missing   []string
		snapshot  []byte
	)
	if err := row.Scan(&appID, &app.TrackingID, &citizenID, &family, &app.ServiceRef, &app.ServiceName,
		pq.Array(&docIDs), pq.Array(&missing), &snapshot, &status, &app.Remarks, &app.CertificateNumber,
		&app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	app.ID = id.ApplicationID(appID)
	app.CitizenID = id.CitizenID(citizenID)
	app.Family = models.Family(family)
	app.Status = models.Status(status)
	app.MissingKinds = missing
	app.DocumentIDs = make([]id.DocumentID, 0, len(docIDs))
	for _, raw := range docIDs {
		docID, err := id.ParseDocumentID(raw)
		if err != nil {
			return nil, fmt.Errorf("decode document id: %w", err)
		}
		app.DocumentIDs = append(app.DocumentIDs, docID)
	}
	app.FormSnapshot = map[string]any{}
	if len(snapshot) > 0 {
		if err := json.Unmarshal(snapshot, &app.FormSnapshot); err != nil {
			return nil, fmt.Errorf("decode form snapshot: %w", err)
		}
	}
	return &app, nil
}

func (s *PostgresStore) loadTimeline(ctx context.Context, apps []*models.Application) error {
	if len(apps) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]*models.Application, len(apps))
	ids := make([]string, 0, len(apps))
	for _, a := range apps {
		index[uuid.UUID(a.ID)] = a
		ids = append(ids, a.ID.String())
	}
	query := `SELECT application_id, status, actor_role, remarks, certificate_number, occurred_at
		FROM application_timeline WHERE application_id = ANY($1::uuid[]) ORDER BY application_id, seq`
	rows, err := s.execer(ctx).QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("load timeline: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			appID  uuid.UUID
			status string
			actor  string
			e      models.TimelineEntry
		)
		if err := rows.Scan(&appID, &status, &actor, &e.Remarks, &e.CertificateNumber, &e.OccurredAt); err != nil {
			return fmt.Errorf("scan timeline entry: %w", err)
		}
		e.Status = models.Status(status)
		e.ActorRole = id.ActorRole(actor)
		if a, ok := index[appID]; ok {
			a.Timeline = append(a.Timeline, e)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate timeline: %w", err)
	}
	return nil
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications WHERE ` + where
	app, err := scanApplication(s.execer(ctx).QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	if err := s.loadTimeline(ctx, []*models.Application{app}); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	return s.findOne(ctx, "id = $1", uuid.UUID(appID))
}

func (s *PostgresStore) FindByTrackingID(ctx context.Context, trackingID string) (*models.Application, error) {
	return s.findOne(ctx, "tracking_id = $1", trackingID)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]models.Application, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	rows.Close()

	if err := s.loadTimeline(ctx, apps); err != nil {
		return nil, err
	}
	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		out = append(out, *a)
	}
	return out, nil
}

func (s *PostgresStore) ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
		WHERE citizen_id = $1 ORDER BY created_at DESC, tracking_id DESC`
	return s.list(ctx, query, uuid.UUID(citizenID))
}

func (s *PostgresStore) ListByStatus(ctx context.Context, status models.Status, limit int) ([]models.Application, error) {
	query := `SELECT ` + applicationColumns + ` FROM applications
		WHERE status = $1 ORDER BY created_at, tracking_id LIMIT $2`
	if limit <= 0 {
		limit = 100
	}
	return s.list(ctx, query, string(status), limit)
}

// Transition is a compare-and-swap on (status, updated_at). The new timeline
// entry is written in the same transaction; a lost race leaves both untouched
// and reports sentinel.ErrInvalidState.
func (s *PostgresStore) Transition(ctx context.Context, app *models.Application, prevStatus models.Status, prevUpdatedAt time.Time) error {
	return s.inTx(ctx, func(db dbExecutor) error {
		query := `UPDATE applications
			SET status = $4, remarks = $5, certificate_number = $6, updated_at = $7
			WHERE id = $1 AND status = $2 AND updated_at = $3`
		res, err := db.ExecContext(ctx, query,
			uuid.UUID(app.ID), string(prevStatus), prevUpdatedAt,
			string(app.Status), app.Remarks, app.CertificateNumber, app.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		if n == 0 {
			var exists bool
			if err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`,
				uuid.UUID(app.ID)).Scan(&exists); err != nil {
				return fmt.Errorf("check application: %w", err)
			}
			if !exists {
				return sentinel.ErrNotFound
			}
			return sentinel.ErrInvalidState
		}
		seq := len(app.Timeline) - 1
		return insertEntry(ctx, db, app.ID, seq, app.LastEntry())
	})
}
