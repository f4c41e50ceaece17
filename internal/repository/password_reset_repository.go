package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/kstack-dev/content-service/pkg/util"
)

// PasswordResetToken represents stored single-use reset tokens.
type PasswordResetToken struct {
	ID        string
	StaffID   string
	Token     string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// PasswordResetRepository manages reset token persistence. Redemption is
// exactly-once: a single conditional update both checks and sets the used
// flag, so concurrent redeemers race on RowsAffected rather than on an
// application-level lock.
type PasswordResetRepository interface {
	Create(ctx context.Context, token *PasswordResetToken) error
	GetByToken(ctx context.Context, token string) (*PasswordResetToken, error)
	Redeem(ctx context.Context, token string) (string, error)
	InvalidateAllForStaff(ctx context.Context, staffID string) error
}

type passwordResetRepository struct {
	pool *pgxpool.Pool
}

// NewPasswordResetRepository constructs repository.
func NewPasswordResetRepository(pool *pgxpool.Pool) PasswordResetRepository {
	return &passwordResetRepository{pool: pool}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *PasswordResetToken) error {
	const query = `
        INSERT INTO password_reset_tokens (staff_id, token, expires_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		token.StaffID,
		token.Token,
		token.ExpiresAt,
	).Scan(&token.ID, &token.CreatedAt)
}

func (r *passwordResetRepository) GetByToken(ctx context.Context, tokenStr string) (*PasswordResetToken, error) {
	const query = `
        SELECT id, staff_id, token, expires_at, used_at, created_at
        FROM password_reset_tokens WHERE token=$1`
	var token PasswordResetToken
	if err := r.pool.QueryRow(ctx, query, tokenStr).Scan(
		&token.ID,
		&token.StaffID,
		&token.Token,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &token, nil
}

// Redeem atomically consumes the token and returns the owning staff id. When
// the conditional update misses, a follow-up read classifies the failure as
// missing, expired, or already used.
func (r *passwordResetRepository) Redeem(ctx context.Context, tokenStr string) (string, error) {
	const redeem = `
        UPDATE password_reset_tokens SET used_at=NOW()
        WHERE token=$1 AND used_at IS NULL AND expires_at > NOW()
        RETURNING staff_id`
	var staffID string
	err := r.pool.QueryRow(ctx, redeem, tokenStr).Scan(&staffID)
	if err == nil {
		return staffID, nil
	}
	if err != pgx.ErrNoRows {
		return "", err
	}

	token, err := r.GetByToken(ctx, tokenStr)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", apperrors.NewNotFound("reset token", nil)
		}
		return "", err
	}
	if token.UsedAt != nil {
		return "", apperrors.NewAlreadyUsed("reset token")
	}
	return "", apperrors.NewExpired("reset token")
}

func (r *passwordResetRepository) InvalidateAllForStaff(ctx context.Context, staffID string) error {
	const query = `
        UPDATE password_reset_tokens SET used_at=NOW()
        WHERE staff_id=$1 AND used_at IS NULL`
	_, err := r.pool.Exec(ctx, query, staffID)
	return err
}
