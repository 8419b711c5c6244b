package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"onegov/internal/vault/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
	txcontext "onegov/pkg/platform/tx"
)

// PostgresStore persists vault document metadata in vault_documents.
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

const documentColumns = `id, citizen_id, kind, filename, size_bytes, uploaded_at,
	verification_status, verified_by, verified_at, remarks`

func (s *PostgresStore) Save(ctx context.Context, d *models.VaultDocument) error {
	query := `INSERT INTO vault_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(d.ID), uuid.UUID(d.CitizenID), string(d.Kind), d.FileName, d.SizeBytes, d.UploadedAt,
		string(d.Status), string(d.VerifiedBy), d.VerifiedAt, d.Remarks,
	)
	if err != nil {
		return fmt.Errorf("insert vault document: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.VaultDocument, error) {
	var (
		d          models.VaultDocument
		docID      uuid.UUID
		citizenID  uuid.UUID
		kind       string
		status     string
		verifiedBy string
		verifiedAt sql.NullTime
	)
	if err := row.Scan(&docID, &citizenID, &kind, &d.FileName, &d.SizeBytes, &d.UploadedAt,
		&status, &verifiedBy, &verifiedAt, &d.Remarks); err != nil {
		return nil, err
	}
	d.ID = id.DocumentID(docID)
	d.CitizenID = id.CitizenID(citizenID)
	d.Kind = id.DocumentKind(kind)
	d.Status = models.VerificationStatus(status)
	d.VerifiedBy = id.ActorRole(verifiedBy)
	if verifiedAt.Valid {
		t := verifiedAt.Time
		d.VerifiedAt = &t
	}
	return &d, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, docID id.DocumentID) (*models.VaultDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM vault_documents WHERE id = $1`
	d, err := scanDocument(s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(docID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find vault document: %w", err)
	}
	return d, nil
}

func (s *PostgresStore) ListByCitizen(ctx context.Context, citizenID id.CitizenID) ([]models.VaultDocument, error) {
	query := `SELECT ` + documentColumns + ` FROM vault_documents
		WHERE citizen_id = $1 ORDER BY uploaded_at, id`
	rows, err := s.execer(ctx).QueryContext(ctx, query, uuid.UUID(citizenID))
	if err != nil {
		return nil, fmt.Errorf("list vault documents: %w", err)
	}
	defer rows.Close()

	out := make([]models.VaultDocument, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vault document: %w", err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vault documents: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) UpdateVerification(ctx context.Context, d *models.VaultDocument) error {
	query := `UPDATE vault_documents
		SET verification_status = $2, verified_by = $3, verified_at = $4, remarks = $5
		WHERE id = $1 AND verification_status = 'pending'`
	res, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(d.ID), string(d.Status), string(d.VerifiedBy), d.VerifiedAt, d.Remarks,
	)
	if err != nil {
		return fmt.Errorf("update vault document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vault document: %w", err)
	}
	if n == 0 {
		if _, err := s.FindByID(ctx, d.ID); err != nil {
			return err
		}
		return sentinel.ErrInvalidState
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, docID id.DocumentID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM vault_documents WHERE id = $1`, uuid.UUID(docID))
	if err != nil {
		return fmt.Errorf("delete vault document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vault document: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
