package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenslink/moderation-service/internal/domain"
)

// ContentRepository reads the photographer-owned content an admin inspects
// before deciding on a report. Content CRUD lives in the marketplace service;
// the only write here is the delete cascade.
type ContentRepository interface {
	GetProfile(ctx context.Context, userID string) (*domain.PhotographerProfile, error)
	ListPortfolio(ctx context.Context, photographerID string) ([]domain.PortfolioItem, error)
	ListPackages(ctx context.Context, photographerID string) ([]domain.Package, error)
	ListReviews(ctx context.Context, photographerID string) ([]domain.Review, error)
	AccountRemover
}

// AccountRemover deletes a photographer account together with its profile,
// portfolio and packages. Reports are kept as history.
type AccountRemover interface {
	DeletePhotographer(ctx context.Context, userID string) error
}

type contentRepository struct {
	pool *pgxpool.Pool
}

// NewContentRepository builds repository.
func NewContentRepository(pool *pgxpool.Pool) ContentRepository {
	return &contentRepository{pool: pool}
}

func (r *contentRepository) GetProfile(ctx context.Context, userID string) (*domain.PhotographerProfile, error) {
	const query = `
        SELECT id, user_id, bio, specialties, experience_years, location, approval_status, created_at
        FROM photographer_profiles WHERE user_id=$1`

	var profile domain.PhotographerProfile
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.Bio,
		&profile.Specialties,
		&profile.ExperienceYears,
		&profile.Location,
		&profile.ApprovalStatus,
		&profile.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *contentRepository) ListPortfolio(ctx context.Context, photographerID string) ([]domain.PortfolioItem, error) {
	const query = `
        SELECT id, photographer_id, category, title, description, image_url, created_at
        FROM portfolio_items WHERE photographer_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, photographerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.PortfolioItem{}
	for rows.Next() {
		var item domain.PortfolioItem
		if err := rows.Scan(
			&item.ID,
			&item.PhotographerID,
			&item.Category,
			&item.Title,
			&item.Description,
			&item.ImageURL,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}

func (r *contentRepository) ListPackages(ctx context.Context, photographerID string) ([]domain.Package, error) {
	const query = `
        SELECT id, photographer_id, name, category, description, price, duration, deliverables, created_at
        FROM packages WHERE photographer_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, photographerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Package{}
	for rows.Next() {
		var pkg domain.Package
		if err := rows.Scan(
			&pkg.ID,
			&pkg.PhotographerID,
			&pkg.Name,
			&pkg.Category,
			&pkg.Description,
			&pkg.Price,
			&pkg.Duration,
			&pkg.Deliverables,
			&pkg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, pkg)
	}
	return result, rows.Err()
}

func (r *contentRepository) ListReviews(ctx context.Context, photographerID string) ([]domain.Review, error) {
	const query = `
        SELECT rv.id, rv.photographer_id, rv.user_id, rv.rating, rv.review_text, rv.created_at,
               u.id, u.full_name, u.email, u.role
        FROM reviews rv
        LEFT JOIN users u ON u.id = rv.user_id
        WHERE rv.photographer_id=$1
        ORDER BY rv.created_at DESC`
	rows, err := r.pool.Query(ctx, query, photographerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Review{}
	for rows.Next() {
		var (
			review   domain.Review
			id       *string
			fullName *string
			email    *string
			role     *domain.Role
		)
		if err := rows.Scan(
			&review.ID,
			&review.PhotographerID,
			&review.UserID,
			&review.Rating,
			&review.ReviewText,
			&review.CreatedAt,
			&id,
			&fullName,
			&email,
			&role,
		); err != nil {
			return nil, err
		}
		if id != nil {
			review.Reviewer = &domain.UserSummary{ID: *id, FullName: deref(fullName), Email: deref(email)}
			if role != nil {
				review.Reviewer.Role = *role
			}
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func (r *contentRepository) DeletePhotographer(ctx context.Context, userID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, stmt := range []string{
		`DELETE FROM portfolio_items WHERE photographer_id=$1`,
		`DELETE FROM packages WHERE photographer_id=$1`,
		`DELETE FROM photographer_profiles WHERE user_id=$1`,
	} {
		if _, err := tx.Exec(ctx, stmt, userID); err != nil {
			return fmt.Errorf("delete photographer content: %w", err)
		}
	}
	cmd, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1 AND role=$2`, userID, domain.RolePhotographer)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
