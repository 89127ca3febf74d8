package domain

import "time"

// PhotographerProfile is the public profile summary shown next to reports.
type PhotographerProfile struct {
	ID              string
	UserID          string
	Bio             string
	Specialties     []string
	ExperienceYears int
	Location        string
	ApprovalStatus  string
	CreatedAt       time.Time
}

// PortfolioItem is a single portfolio entry owned by a photographer.
type PortfolioItem struct {
	ID             string
	PhotographerID string
	Category       string
	Title          string
	Description    string
	ImageURL       string
	CreatedAt      time.Time
}

// Package is a bookable offering owned by a photographer.
type Package struct {
	ID             string
	PhotographerID string
	Name           string
	Category       string
	Description    string
	Price          float64
	Duration       string
	Deliverables   []string
	CreatedAt      time.Time
}

// Review is a client rating of a photographer.
type Review struct {
	ID             string
	PhotographerID string
	UserID         string
	Rating         int
	ReviewText     *string
	Reviewer       *UserSummary
	CreatedAt      time.Time
}

// PhotographerFullView aggregates everything an admin needs to adjudicate.
// User and Profile are nil once the account has been deleted.
type PhotographerFullView struct {
	User      *UserSummary
	Profile   *PhotographerProfile
	Portfolio []PortfolioItem
	Packages  []Package
	Reviews   []Review
	Reports   []ReportWithReporter
}
