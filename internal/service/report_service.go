package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/events"
	"github.com/lenslink/moderation-service/internal/repository"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// ReportService handles report intake and the admin review projections.
type ReportService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	content    repository.ContentRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ReportDependencies bundles repositories for the report service.
type ReportDependencies struct {
	ReportRepo  repository.ReportRepository
	UserRepo    repository.UserRepository
	ContentRepo repository.ContentRepository
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
}

// SubmitReportInput describes a new complaint.
type SubmitReportInput struct {
	ReporterID     string
	PhotographerID string
	Reason         domain.ReportReason
	Description    *string
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		content:    deps.ContentRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// ListReasons returns the fixed report categories.
func (s *ReportService) ListReasons() []domain.ReportReason {
	return domain.ReportReasons()
}

// SubmitReport files a pending report. Repeated reports from the same
// reporter are accepted and tracked independently.
func (s *ReportService) SubmitReport(ctx context.Context, input SubmitReportInput) (*domain.Report, error) {
	reporterID := strings.TrimSpace(input.ReporterID)
	photographerID := strings.TrimSpace(input.PhotographerID)
	if reporterID == "" {
		return nil, apperrors.NewUnauthorized("active session required")
	}
	if photographerID == "" {
		return nil, apperrors.NewValidationError("photographer_id required", nil)
	}
	if reporterID == photographerID {
		return nil, apperrors.NewValidationError("cannot report yourself", nil)
	}
	if input.Reason == "" {
		return nil, apperrors.NewValidationError("reason required", nil)
	}
	if !input.Reason.Valid() {
		return nil, apperrors.NewValidationError("invalid reason", map[string]any{
			"reason":  input.Reason,
			"allowed": domain.ReportReasons(),
		})
	}

	target, err := s.users.GetByID(ctx, photographerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("photographer", map[string]any{"photographer_id": photographerID})
		}
		return nil, err
	}
	if target.Role != domain.RolePhotographer {
		return nil, apperrors.NewValidationError("reported user is not a photographer", map[string]any{"photographer_id": photographerID})
	}

	report := &domain.Report{
		ID:             uuid.NewString(),
		ReporterID:     reporterID,
		PhotographerID: photographerID,
		Reason:         input.Reason,
		Description:    normalizeDescription(input.Description),
		Status:         domain.ReportStatusPending,
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}

	s.logger.Info("report submitted",
		zap.String("report_id", report.ID),
		zap.String("photographer_id", report.PhotographerID),
		zap.String("reason", string(report.Reason)))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventReportSubmitted,
		SubjectID: report.ID,
		Actor:     events.Actor{UserID: reporterID, Role: domain.RoleUser},
		Timestamp: report.CreatedAt,
		Payload: events.ReportSubmittedPayload{
			ReporterID:     report.ReporterID,
			PhotographerID: report.PhotographerID,
			Reason:         report.Reason,
		},
	})
	return report, nil
}

// ListPendingReports returns pending reports oldest first, joined with
// reporter, photographer and profile. Missing parties stay nil.
func (s *ReportService) ListPendingReports(ctx context.Context) ([]domain.EnrichedReport, error) {
	reports, err := s.reports.ListPending(ctx)
	if err != nil {
		return nil, err
	}

	people := newSummaryLookup(s.users)
	profiles := map[string]*domain.PhotographerProfile{}
	result := make([]domain.EnrichedReport, 0, len(reports))
	for _, report := range reports {
		reporter, err := people.get(ctx, report.ReporterID)
		if err != nil {
			return nil, err
		}
		photographer, err := people.get(ctx, report.PhotographerID)
		if err != nil {
			return nil, err
		}
		profile, cached := profiles[report.PhotographerID]
		if !cached {
			profile, err = s.profile(ctx, report.PhotographerID)
			if err != nil {
				return nil, err
			}
			profiles[report.PhotographerID] = profile
		}
		result = append(result, domain.EnrichedReport{
			Report:              report,
			Reporter:            reporter,
			Photographer:        photographer,
			PhotographerProfile: profile,
		})
	}
	return result, nil
}

// PhotographerFullView gathers profile, content and report history for one
// photographer. A deleted account still yields its report history.
func (s *ReportService) PhotographerFullView(ctx context.Context, photographerID string) (*domain.PhotographerFullView, error) {
	people := newSummaryLookup(s.users)
	user, err := people.get(ctx, photographerID)
	if err != nil {
		return nil, err
	}

	reports, err := s.reports.ListByPhotographer(ctx, photographerID)
	if err != nil {
		return nil, err
	}
	if user == nil && len(reports) == 0 {
		return nil, apperrors.NewNotFound("photographer", map[string]any{"photographer_id": photographerID})
	}
	if user != nil && user.Role != domain.RolePhotographer {
		return nil, apperrors.NewNotFound("photographer", map[string]any{"photographer_id": photographerID})
	}

	view := &domain.PhotographerFullView{
		User:      user,
		Portfolio: []domain.PortfolioItem{},
		Packages:  []domain.Package{},
		Reviews:   []domain.Review{},
		Reports:   make([]domain.ReportWithReporter, 0, len(reports)),
	}
	if user != nil {
		if view.Profile, err = s.profile(ctx, photographerID); err != nil {
			return nil, err
		}
		if view.Portfolio, err = s.content.ListPortfolio(ctx, photographerID); err != nil {
			return nil, err
		}
		if view.Packages, err = s.content.ListPackages(ctx, photographerID); err != nil {
			return nil, err
		}
		if view.Reviews, err = s.content.ListReviews(ctx, photographerID); err != nil {
			return nil, err
		}
	}
	for _, report := range reports {
		reporter, err := people.get(ctx, report.ReporterID)
		if err != nil {
			return nil, err
		}
		view.Reports = append(view.Reports, domain.ReportWithReporter{Report: report, Reporter: reporter})
	}
	return view, nil
}

func (s *ReportService) profile(ctx context.Context, photographerID string) (*domain.PhotographerProfile, error) {
	profile, err := s.content.GetProfile(ctx, photographerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return profile, err
}

// summaryLookup memoizes user summaries for the duration of one projection.
type summaryLookup struct {
	users repository.UserRepository
	seen  map[string]*domain.UserSummary
}

func newSummaryLookup(users repository.UserRepository) *summaryLookup {
	return &summaryLookup{users: users, seen: map[string]*domain.UserSummary{}}
}

func (l *summaryLookup) get(ctx context.Context, id string) (*domain.UserSummary, error) {
	if summary, ok := l.seen[id]; ok {
		return summary, nil
	}
	user, err := l.users.GetByID(ctx, id)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	summary := user.Summary()
	l.seen[id] = summary
	return summary, nil
}

func normalizeDescription(description *string) *string {
	if description == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*description)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
