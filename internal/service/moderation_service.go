package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/cache"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/events"
	"github.com/lenslink/moderation-service/internal/moderation"
	"github.com/lenslink/moderation-service/internal/repository"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// ModerationService applies admin decisions to reports and accounts.
type ModerationService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	remover    repository.AccountRemover
	cache      cache.UserCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// ModerationDependencies bundles collaborators for the moderation service.
type ModerationDependencies struct {
	ReportRepo     repository.ReportRepository
	UserRepo       repository.UserRepository
	AccountRemover repository.AccountRemover
	UserCache      cache.UserCache
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          func() time.Time
}

// ResolutionResult is the outcome of a single adjudication.
type ResolutionResult struct {
	Report  *domain.Report
	Action  domain.ModerationAction
	Message string
	// Account is the photographer after a restrict; nil otherwise.
	Account *domain.User
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	svc := &ModerationService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		remover:    deps.AccountRemover,
		cache:      deps.UserCache,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        deps.Clock,
	}
	if svc.cache == nil {
		svc.cache = cache.NopUserCache{}
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// ResolveReport moves a pending report to its terminal state and applies the
// account effect. Only the first decision on a report succeeds; later ones
// fail with INVALID_STATE and leave the account alone.
func (s *ModerationService) ResolveReport(ctx context.Context, admin *domain.User, reportID, rawAction string) (*ResolutionResult, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	action, err := moderation.ParseAction(rawAction)
	if err != nil {
		return nil, err
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, notFoundAs(err, "report", map[string]any{"report_id": reportID})
	}
	next, err := moderation.Next(report.Status, action)
	if err != nil {
		return nil, err
	}

	var target *domain.User
	if moderation.TouchesAccount(action) {
		target, err = s.users.GetByID(ctx, report.PhotographerID)
		if err != nil {
			return nil, notFoundAs(err, "photographer", map[string]any{"photographer_id": report.PhotographerID})
		}
	}

	at := s.now().UTC()
	resolved, err := s.reports.Resolve(ctx, report.ID, next, admin.ID, at)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotPending) {
			return nil, apperrors.NewInvalidState("report already resolved", map[string]any{"report_id": report.ID})
		}
		return nil, notFoundAs(err, "report", map[string]any{"report_id": report.ID})
	}

	result := &ResolutionResult{
		Report:  resolved,
		Action:  action,
		Message: moderation.OutcomeMessage(action, report.Reason),
	}

	switch action {
	case domain.ActionRestrict:
		target.Restrict(string(report.Reason), at)
		if err := s.users.UpdateRestriction(ctx, target); err != nil {
			s.logger.Error("report resolved but restriction failed",
				zap.String("report_id", report.ID),
				zap.String("photographer_id", target.ID),
				zap.Error(err))
			return nil, notFoundAs(err, "photographer", map[string]any{"photographer_id": target.ID})
		}
		result.Account = target
	case domain.ActionDelete:
		if err := s.remover.DeletePhotographer(ctx, target.ID); err != nil {
			s.logger.Error("report resolved but account removal failed",
				zap.String("report_id", report.ID),
				zap.String("photographer_id", target.ID),
				zap.Error(err))
			return nil, notFoundAs(err, "photographer", map[string]any{"photographer_id": target.ID})
		}
	}
	if target != nil {
		s.cache.Invalidate(ctx, target.ID)
	}

	s.logger.Info("report resolved",
		zap.String("report_id", resolved.ID),
		zap.String("admin_id", admin.ID),
		zap.String("action", string(action)),
		zap.String("status", string(resolved.Status)))

	actor := actorOf(admin)
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventReportResolved,
		SubjectID: resolved.ID,
		Actor:     actor,
		Timestamp: at,
		Payload: events.ReportResolvedPayload{
			ReporterID:     resolved.ReporterID,
			PhotographerID: resolved.PhotographerID,
			Reason:         resolved.Reason,
			Action:         action,
			NewStatus:      resolved.Status,
			Message:        result.Message,
		},
	})
	if target != nil {
		eventType := events.EventUserRestricted
		if action == domain.ActionDelete {
			eventType = events.EventUserDeleted
		}
		reason := string(report.Reason)
		publishEvent(ctx, s.dispatcher, s.logger, events.Event{
			Type:      eventType,
			SubjectID: target.ID,
			Actor:     actor,
			Timestamp: at,
			Payload:   events.UserRestrictionPayload{Reason: &reason, ReportID: &resolved.ID},
		})
	}
	return result, nil
}

// Unrestrict clears the restriction on an account regardless of how it was set.
func (s *ModerationService) Unrestrict(ctx context.Context, admin *domain.User, userID string) (*domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, "user", map[string]any{"user_id": userID})
	}

	user.Unrestrict()
	if err := s.users.UpdateRestriction(ctx, user); err != nil {
		return nil, notFoundAs(err, "user", map[string]any{"user_id": userID})
	}
	s.cache.Invalidate(ctx, user.ID)

	s.logger.Info("user unrestricted", zap.String("user_id", user.ID), zap.String("admin_id", admin.ID))
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:      events.EventUserUnrestricted,
		SubjectID: user.ID,
		Actor:     actorOf(admin),
		Timestamp: s.now().UTC(),
		Payload:   events.UserRestrictionPayload{},
	})
	return user, nil
}

// ListRestrictedUsers returns restricted accounts, most recent first.
func (s *ModerationService) ListRestrictedUsers(ctx context.Context, admin *domain.User) ([]domain.User, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	return s.users.ListRestricted(ctx)
}

// Stats summarizes the moderation backlog.
func (s *ModerationService) Stats(ctx context.Context, admin *domain.User) (*domain.ModerationStats, error) {
	if err := requireAdmin(admin); err != nil {
		return nil, err
	}
	var (
		stats domain.ModerationStats
		err   error
	)
	if stats.PendingReports, err = s.reports.CountPending(ctx); err != nil {
		return nil, err
	}
	if stats.RestrictedUsers, err = s.users.CountRestricted(ctx); err != nil {
		return nil, err
	}
	if stats.TotalUsers, err = s.users.CountByRole(ctx, domain.RoleUser); err != nil {
		return nil, err
	}
	if stats.TotalPhotographers, err = s.users.CountByRole(ctx, domain.RolePhotographer); err != nil {
		return nil, err
	}
	return &stats, nil
}

func requireAdmin(user *domain.User) error {
	if user == nil {
		return apperrors.NewUnauthorized("active session required")
	}
	if user.Role != domain.RoleAdmin {
		return apperrors.NewForbidden("admin access required")
	}
	return nil
}

func notFoundAs(err error, resource string, details map[string]any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, details)
	}
	return err
}
