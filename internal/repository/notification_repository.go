package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenslink/moderation-service/internal/domain"
)

// NotificationRepository stores moderation outcomes for reporters and photographers.
type NotificationRepository interface {
	Create(ctx context.Context, notification *domain.Notification) error
	// ListForUser returns notifications where the user is reporter or photographer, newest first.
	ListForUser(ctx context.Context, userID string) ([]domain.Notification, error)
}

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository creates a repository.
func NewNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	const query = `
        INSERT INTO notifications (id, report_id, photographer_id, reporter_id, admin_action, message)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		notification.ID,
		notification.ReportID,
		notification.PhotographerID,
		notification.ReporterID,
		notification.Action,
		notification.Message,
	).Scan(&notification.CreatedAt)
}

func (r *notificationRepository) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	const query = `
        SELECT id, report_id, photographer_id, reporter_id, admin_action, message, created_at
        FROM notifications WHERE reporter_id=$1 OR photographer_id=$1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(
			&n.ID,
			&n.ReportID,
			&n.PhotographerID,
			&n.ReporterID,
			&n.Action,
			&n.Message,
			&n.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, n)
	}
	return result, rows.Err()
}
