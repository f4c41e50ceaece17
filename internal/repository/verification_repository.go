package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kstack-dev/content-service/internal/domain"
)

// VerificationRepository persists one-time-code records. Creating a record
// supersedes any prior active record for the same staff in the same
// transaction, so at most one usable code exists per staff at a time.
type VerificationRepository interface {
	Create(ctx context.Context, record *domain.VerificationRecord) error
	GetLatestByStaff(ctx context.Context, staffID string) (*domain.VerificationRecord, error)
	MarkVerified(ctx context.Context, id string, resetWindowExpiresAt time.Time) error
}

type verificationRepository struct {
	pool *pgxpool.Pool
}

// NewVerificationRepository constructs repository.
func NewVerificationRepository(pool *pgxpool.Pool) VerificationRepository {
	return &verificationRepository{pool: pool}
}

func (r *verificationRepository) Create(ctx context.Context, record *domain.VerificationRecord) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const supersede = `
        UPDATE verification_records SET superseded=true
        WHERE staff_id=$1 AND superseded=false AND verified=false`
	if _, err := tx.Exec(ctx, supersede, record.StaffID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO verification_records (staff_id, code, verified, superseded, code_expires_at)
        VALUES ($1,$2,false,false,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, insert,
		record.StaffID,
		record.Code,
		record.CodeExpiresAt,
	).Scan(&record.ID, &record.CreatedAt); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *verificationRepository) GetLatestByStaff(ctx context.Context, staffID string) (*domain.VerificationRecord, error) {
	const query = `
        SELECT id, staff_id, code, verified, superseded, code_expires_at, reset_window_expires_at, created_at
        FROM verification_records
        WHERE staff_id=$1 AND superseded=false
        ORDER BY created_at DESC
        LIMIT 1`
	var record domain.VerificationRecord
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(
		&record.ID,
		&record.StaffID,
		&record.Code,
		&record.Verified,
		&record.Superseded,
		&record.CodeExpiresAt,
		&record.ResetWindowExpiresAt,
		&record.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *verificationRepository) MarkVerified(ctx context.Context, id string, resetWindowExpiresAt time.Time) error {
	const query = `
        UPDATE verification_records SET verified=true, reset_window_expires_at=$1
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, resetWindowExpiresAt, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
