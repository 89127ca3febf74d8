package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/lenslink/moderation-service/internal/domain"
)

// ErrReportNotPending is returned by Resolve when another decision already landed.
var ErrReportNotPending = errors.New("report not pending")

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	// ListPending returns pending reports oldest first.
	ListPending(ctx context.Context) ([]domain.Report, error)
	// ListByPhotographer returns every report against a photographer, newest first.
	ListByPhotographer(ctx context.Context, photographerID string) ([]domain.Report, error)
	// Resolve moves a pending report to next. It fails with ErrReportNotPending
	// when the report is no longer pending at the time of the write.
	Resolve(ctx context.Context, id string, next domain.ReportStatus, adminID string, at time.Time) (*domain.Report, error)
	CountPending(ctx context.Context) (int64, error)
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, reporter_id, photographer_id, reason, description, status, resolved_by, resolved_at, created_at`

func (r *reportRepository) Create(ctx context.Context, report *domain.Report) error {
	const query = `
        INSERT INTO reports (id, reporter_id, photographer_id, reason, description, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	return r.pool.QueryRow(ctx, query,
		report.ID,
		report.ReporterID,
		report.PhotographerID,
		report.Reason,
		report.Description,
		report.Status,
	).Scan(&report.CreatedAt)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	return scanReport(r.pool.QueryRow(ctx, query, id))
}

func (r *reportRepository) ListPending(ctx context.Context) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE status=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, domain.ReportStatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) ListByPhotographer(ctx context.Context, photographerID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE photographer_id=$1 ORDER BY created_at DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, photographerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) Resolve(ctx context.Context, id string, next domain.ReportStatus, adminID string, at time.Time) (*domain.Report, error) {
	query := `
        UPDATE reports SET status=$1, resolved_by=$2, resolved_at=$3
        WHERE id=$4 AND status=$5
        RETURNING ` + reportColumns
	report, err := scanReport(r.pool.QueryRow(ctx, query, next, adminID, at, id, domain.ReportStatusPending))
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	// Distinguish a missing report from one resolved by a concurrent decision.
	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrReportNotPending
}

func (r *reportRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reports WHERE status=$1`, domain.ReportStatusPending).Scan(&count)
	return count, err
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.ReporterID,
		&report.PhotographerID,
		&report.Reason,
		&report.Description,
		&report.Status,
		&report.ResolvedBy,
		&report.ResolvedAt,
		&report.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	result := []domain.Report{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *report)
	}
	return result, rows.Err()
}
