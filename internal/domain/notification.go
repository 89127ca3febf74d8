package domain

import "time"

// Notification records the outcome of a moderation decision for both parties.
type Notification struct {
	ID             string
	ReportID       string
	PhotographerID string
	ReporterID     string
	Action         ModerationAction
	Message        string
	CreatedAt      time.Time
}

// ModerationStats summarizes the moderation backlog for the admin dashboard.
type ModerationStats struct {
	PendingReports     int64
	RestrictedUsers    int64
	TotalUsers         int64
	TotalPhotographers int64
}
