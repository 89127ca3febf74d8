package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/events"
	"github.com/lenslink/moderation-service/internal/repository"
)

// NotificationService records moderation outcomes for the reporter and the
// photographer involved.
type NotificationService struct {
	dispatcher    events.Dispatcher
	notifications repository.NotificationRepository
	logger        *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifications repository.NotificationRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher:    dispatcher,
		notifications: notifications,
		logger:        logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventReportResolved, n.handleReportResolved)
	n.dispatcher.Subscribe(events.EventReportSubmitted, n.logEvent)
	n.dispatcher.Subscribe(events.EventUserRestricted, n.logEvent)
	n.dispatcher.Subscribe(events.EventUserUnrestricted, n.logEvent)
	n.dispatcher.Subscribe(events.EventUserDeleted, n.logEvent)
}

// ListForUser returns notifications addressed to userID, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID string) ([]domain.Notification, error) {
	return n.notifications.ListForUser(ctx, userID)
}

func (n *NotificationService) handleReportResolved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportResolvedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	notification := &domain.Notification{
		ID:             uuid.NewString(),
		ReportID:       event.SubjectID,
		PhotographerID: payload.PhotographerID,
		ReporterID:     payload.ReporterID,
		Action:         payload.Action,
		Message:        payload.Message,
	}
	if err := n.notifications.Create(ctx, notification); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}
	n.logger.Info("ReportResolved",
		zap.String("report_id", event.SubjectID),
		zap.String("action", string(payload.Action)),
		zap.String("notification_id", notification.ID))
	return nil
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Debug(string(event.Type),
		zap.String("subject_id", event.SubjectID),
		zap.String("actor_id", event.Actor.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
