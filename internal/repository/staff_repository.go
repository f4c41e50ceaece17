package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kstack-dev/content-service/internal/domain"
)

// StaffRepository reads staff records owned by the external staff-management
// module. The content core never creates or removes staff; the only write it
// performs is the password hash update during reset.
type StaffRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (*domain.Staff, error)
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}

type staffRepository struct {
	pool *pgxpool.Pool
}

// NewStaffRepository instantiates the repository.
func NewStaffRepository(pool *pgxpool.Pool) StaffRepository {
	return &staffRepository{pool: pool}
}

func (r *staffRepository) GetByID(ctx context.Context, id string) (*domain.Staff, error) {
	const query = `
        SELECT id, name, email, password_hash, role, status, permissions, created_at, updated_at
        FROM staff WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	const query = `
        SELECT id, name, email, password_hash, role, status, permissions, created_at, updated_at
        FROM staff WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *staffRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Staff, error) {
	var staff domain.Staff
	var permissions []string
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&staff.ID,
		&staff.Name,
		&staff.Email,
		&staff.PasswordHash,
		&staff.Role,
		&staff.Status,
		&permissions,
		&staff.CreatedAt,
		&staff.UpdatedAt,
	); err != nil {
		return nil, err
	}
	staff.Permissions = make([]domain.Permission, len(permissions))
	for i, p := range permissions {
		staff.Permissions[i] = domain.Permission(p)
	}
	return &staff, nil
}

func (r *staffRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	const query = `
        UPDATE staff SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, hash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
