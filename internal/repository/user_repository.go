package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenslink/moderation-service/internal/domain"
)

// UserRepository defines persistence access for marketplace accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// UpdateRestriction writes the restricted flag, reason and timestamp only.
	UpdateRestriction(ctx context.Context, user *domain.User) error
	// ListRestricted returns restricted accounts, most recently restricted first.
	ListRestricted(ctx context.Context) ([]domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
	CountRestricted(ctx context.Context) (int64, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, full_name, email, role, restricted, restriction_reason, restricted_at, created_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) UpdateRestriction(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET restricted=$1, restriction_reason=$2, restricted_at=$3
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		user.Restricted,
		user.RestrictionReason,
		user.RestrictedAt,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) ListRestricted(ctx context.Context) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE restricted ORDER BY restricted_at DESC NULLS LAST, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, rows.Err()
}

func (r *userRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, role).Scan(&count)
	return count, err
}

func (r *userRepository) CountRestricted(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE restricted`).Scan(&count)
	return count, err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.Role,
		&user.Restricted,
		&user.RestrictionReason,
		&user.RestrictedAt,
		&user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
