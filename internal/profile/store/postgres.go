package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"onegov/internal/profile/models"
	id "onegov/pkg/domain"
	"onegov/pkg/platform/sentinel"
	txcontext "onegov/pkg/platform/tx"
)

// PostgresStore persists profiles in citizen_profiles.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindByCitizen(ctx context.Context, citizenID id.CitizenID) (*models.CitizenProfile, error) {
	query := `
		SELECT citizen_id, name, age, gender, category, annual_income, occupation, state,
		       has_bpl_card, phone, email, address, extra, created_at, updated_at
		FROM citizen_profiles
		WHERE citizen_id = $1
	`
	var (
		p         models.CitizenProfile
		rawID     uuid.UUID
		age       sql.NullInt32
		income    sql.NullInt64
		bpl       sql.NullBool
		category  string
		extraJSON []byte
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, uuid.UUID(citizenID)).Scan(
		&rawID, &p.Name, &age, &p.Gender, &category, &income, &p.Occupation, &p.State,
		&bpl, &p.Phone, &p.Email, &p.Address, &extraJSON, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find profile: %w", err)
	}

	p.CitizenID = id.CitizenID(rawID)
	p.Category = models.Category(category)
	if age.Valid {
		p.Age = models.IntPtr(int(age.Int32))
	}
	if income.Valid {
		p.AnnualIncome = models.Int64Ptr(income.Int64)
	}
	if bpl.Valid {
		p.HasBPLCard = models.BoolPtr(bpl.Bool)
	}
	if len(extraJSON) > 0 {
		if err := json.Unmarshal(extraJSON, &p.Extra); err != nil {
			return nil, fmt.Errorf("decode profile extra: %w", err)
		}
		if len(p.Extra) == 0 {
			p.Extra = nil
		}
	}
	return &p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p *models.CitizenProfile) error {
	extra := p.Extra
	if extra == nil {
		extra = map[string]any{}
	}
	extraJSON, err := json.Marshal(extra)
	if err != nil {
		return fmt.Errorf("encode profile extra: %w", err)
	}

	query := `
		INSERT INTO citizen_profiles (
			citizen_id, name, age, gender, category, annual_income, occupation, state,
			has_bpl_card, phone, email, address, extra, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (citizen_id) DO UPDATE SET
			name = EXCLUDED.name,
			age = EXCLUDED.age,
			gender = EXCLUDED.gender,
			category = EXCLUDED.category,
			annual_income = EXCLUDED.annual_income,
			occupation = EXCLUDED.occupation,
			state = EXCLUDED.state,
			has_bpl_card = EXCLUDED.has_bpl_card,
			phone = EXCLUDED.phone,
			email = EXCLUDED.email,
			address = EXCLUDED.address,
			extra = EXCLUDED.extra,
			updated_at = EXCLUDED.updated_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(p.CitizenID), p.Name, nullInt(p.Age), p.Gender, string(p.Category),
		nullInt64(p.AnnualIncome), p.Occupation, p.State, nullBool(p.HasBPLCard),
		p.Phone, p.Email, p.Address, extraJSON, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func nullInt(v *int) sql.NullInt32 {
	if v == nil {
		return sql.NullInt32{}
	}
	return sql.NullInt32{Int32: int32(*v), Valid: true}
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullBool(v *bool) sql.NullBool {
	if v == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *v, Valid: true}
}
