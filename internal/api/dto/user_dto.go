package dto

import (
	"time"

	"github.com/lenslink/moderation-service/internal/domain"
)

// UserSummary is the public identity of an account.
type UserSummary struct {
	ID       string      `json:"id"`
	FullName string      `json:"full_name"`
	Email    string      `json:"email"`
	Role     domain.Role `json:"role"`
}

// UserResponse carries the moderation-relevant account state. It is also
// the snapshot modctl caches in its session file.
type UserResponse struct {
	ID                string      `json:"id"`
	FullName          string      `json:"full_name"`
	Email             string      `json:"email"`
	Role              domain.Role `json:"role"`
	Restricted        bool        `json:"restricted"`
	RestrictionReason *string     `json:"restriction_reason"`
	RestrictedAt      *time.Time  `json:"restricted_at"`
	CreatedAt         time.Time   `json:"created_at"`
}

// StatsResponse summarizes the moderation backlog.
type StatsResponse struct {
	PendingReports     int64 `json:"pending_reports"`
	RestrictedUsers    int64 `json:"restricted_users"`
	TotalUsers         int64 `json:"total_users"`
	TotalPhotographers int64 `json:"total_photographers"`
}

// NotificationResponse is a stored moderation outcome.
type NotificationResponse struct {
	ID             string                  `json:"id"`
	ReportID       string                  `json:"report_id"`
	PhotographerID string                  `json:"photographer_id"`
	ReporterID     string                  `json:"reporter_id"`
	Action         domain.ModerationAction `json:"admin_action"`
	Message        string                  `json:"message"`
	CreatedAt      time.Time               `json:"created_at"`
}

// Envelope wraps every successful response body.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// ErrorBody is the payload of a failed response.
type ErrorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorEnvelope wraps every failed response body.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}
