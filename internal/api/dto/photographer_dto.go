package dto

import "time"

// ProfileResponse is the public photographer profile.
type ProfileResponse struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Bio             string    `json:"bio"`
	Specialties     []string  `json:"specialties"`
	ExperienceYears int       `json:"experience_years"`
	Location        string    `json:"location"`
	ApprovalStatus  string    `json:"approval_status"`
	CreatedAt       time.Time `json:"created_at"`
}

// PortfolioItemResponse payload.
type PortfolioItemResponse struct {
	ID          string    `json:"id"`
	Category    string    `json:"category"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// PackageResponse payload.
type PackageResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Duration     string    `json:"duration"`
	Deliverables []string  `json:"deliverables"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReviewResponse payload.
type ReviewResponse struct {
	ID         string       `json:"id"`
	Rating     int          `json:"rating"`
	ReviewText *string      `json:"review_text"`
	Reviewer   *UserSummary `json:"reviewer"`
	CreatedAt  time.Time    `json:"created_at"`
}

// PhotographerFullViewResponse is everything an admin needs to adjudicate.
type PhotographerFullViewResponse struct {
	User      *UserSummary            `json:"user"`
	Profile   *ProfileResponse        `json:"profile"`
	Portfolio []PortfolioItemResponse `json:"portfolio"`
	Packages  []PackageResponse       `json:"packages"`
	Reviews   []ReviewResponse        `json:"reviews"`
	Reports   []ReportHistoryEntry    `json:"reports"`
}
