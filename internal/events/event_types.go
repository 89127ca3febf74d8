package events

import (
	"time"

	"github.com/lenslink/moderation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportSubmitted  EventType = "report.submitted"
	EventReportResolved   EventType = "report.resolved"
	EventUserRestricted   EventType = "user.restricted"
	EventUserUnrestricted EventType = "user.unrestricted"
	EventUserDeleted      EventType = "user.deleted"
)

// Actor identifies who caused an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportSubmittedPayload payload.
type ReportSubmittedPayload struct {
	ReporterID     string              `json:"reporter_id"`
	PhotographerID string              `json:"photographer_id"`
	Reason         domain.ReportReason `json:"reason"`
}

// ReportResolvedPayload payload.
type ReportResolvedPayload struct {
	ReporterID     string                  `json:"reporter_id"`
	PhotographerID string                  `json:"photographer_id"`
	Reason         domain.ReportReason     `json:"reason"`
	Action         domain.ModerationAction `json:"action"`
	NewStatus      domain.ReportStatus     `json:"new_status"`
	Message        string                  `json:"message"`
}

// UserRestrictionPayload payload for restriction changes and deletions.
type UserRestrictionPayload struct {
	Reason   *string `json:"reason,omitempty"`
	ReportID *string `json:"report_id,omitempty"`
}
