package dto

import (
	"time"

	"github.com/lenslink/moderation-service/internal/domain"
)

// SubmitReportRequest payload. The reporter is the authenticated caller;
// ReporterID is optional and must match it when present.
type SubmitReportRequest struct {
	ReporterID     string              `json:"reporter_id,omitempty"`
	PhotographerID string              `json:"photographer_id"`
	Reason         domain.ReportReason `json:"reason"`
	Description    *string             `json:"description"`
}

// ReportResponse is a report as stored.
type ReportResponse struct {
	ID             string              `json:"id"`
	ReporterID     string              `json:"reporter_id"`
	PhotographerID string              `json:"photographer_id"`
	Reason         domain.ReportReason `json:"reason"`
	Description    *string             `json:"description"`
	Status         domain.ReportStatus `json:"status"`
	ResolvedBy     *string             `json:"resolved_by"`
	ResolvedAt     *time.Time          `json:"resolved_at"`
	CreatedAt      time.Time           `json:"created_at"`
}

// PendingReportResponse is a queue entry joined with display context.
type PendingReportResponse struct {
	ReportResponse
	Reporter            *UserSummary     `json:"reporter"`
	Photographer        *UserSummary     `json:"photographer"`
	PhotographerProfile *ProfileResponse `json:"photographer_profile"`
}

// ReportHistoryEntry is one past report in the photographer full view.
type ReportHistoryEntry struct {
	ReportResponse
	Reporter *UserSummary `json:"reporter"`
}

// ResolutionResponse is returned by the moderate endpoint.
type ResolutionResponse struct {
	Report  ReportResponse          `json:"report"`
	Action  domain.ModerationAction `json:"action"`
	Message string                  `json:"message"`
	Account *UserResponse           `json:"account,omitempty"`
}

// ReasonsResponse lists the selectable report reasons.
type ReasonsResponse struct {
	Reasons []domain.ReportReason `json:"reasons"`
}
