package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kstack-dev/content-service/internal/domain"
)

// SessionRepository persists login sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Invalidate(ctx context.Context, id string) error
	InvalidateAllForStaff(ctx context.Context, staffID string) error
}

type sessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository constructs repository.
func NewSessionRepository(pool *pgxpool.Pool) SessionRepository {
	return &sessionRepository{pool: pool}
}

func (r *sessionRepository) Create(ctx context.Context, session *domain.Session) error {
	const query = `
        INSERT INTO sessions (staff_id, token, user_agent, ip_address, expires_at, valid)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		session.StaffID,
		session.Token,
		session.UserAgent,
		session.IPAddress,
		session.ExpiresAt,
		session.Valid,
	).Scan(&session.ID, &session.CreatedAt)
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	const query = `
        SELECT id, staff_id, token, user_agent, ip_address, expires_at, valid, created_at
        FROM sessions WHERE id=$1`
	var session domain.Session
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&session.ID,
		&session.StaffID,
		&session.Token,
		&session.UserAgent,
		&session.IPAddress,
		&session.ExpiresAt,
		&session.Valid,
		&session.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Invalidate(ctx context.Context, id string) error {
	const query = `UPDATE sessions SET valid=false WHERE id=$1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *sessionRepository) InvalidateAllForStaff(ctx context.Context, staffID string) error {
	const query = `UPDATE sessions SET valid=false WHERE staff_id=$1 AND valid=true`
	_, err := r.pool.Exec(ctx, query, staffID)
	return err
}
