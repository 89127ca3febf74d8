// Package memory provides in-process repositories for tests and local runs
// without Postgres. Missing rows are reported as pgx.ErrNoRows so callers
// handle both backends the same way.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/repository"
)

// Store holds every collection behind one lock so the delete cascade is atomic.
type Store struct {
	mu sync.RWMutex

	users         map[string]domain.User
	reports       map[string]domain.Report
	profiles      map[string]domain.PhotographerProfile
	portfolio     map[string][]domain.PortfolioItem
	packages      map[string][]domain.Package
	reviews       map[string][]domain.Review
	notifications []domain.Notification
	clock         func() time.Time
	sequence      int64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		users:     map[string]domain.User{},
		reports:   map[string]domain.Report{},
		profiles:  map[string]domain.PhotographerProfile{},
		portfolio: map[string][]domain.PortfolioItem{},
		packages:  map[string][]domain.Package{},
		reviews:   map[string][]domain.Review{},
		clock:     time.Now,
	}
}

// SetClock overrides the timestamp source used for created_at values.
func (s *Store) SetClock(clock func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clock = clock
}

// PutUser inserts or replaces an account.
func (s *Store) PutUser(user domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now()
	}
	s.users[user.ID] = user
}

// PutProfile inserts or replaces a photographer profile.
func (s *Store) PutProfile(profile domain.PhotographerProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[profile.UserID] = profile
}

// AddPortfolioItem appends a portfolio entry.
func (s *Store) AddPortfolioItem(item domain.PortfolioItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.portfolio[item.PhotographerID] = append(s.portfolio[item.PhotographerID], item)
}

// AddPackage appends a package.
func (s *Store) AddPackage(pkg domain.Package) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.packages[pkg.PhotographerID] = append(s.packages[pkg.PhotographerID], pkg)
}

// AddReview appends a review.
func (s *Store) AddReview(review domain.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[review.PhotographerID] = append(s.reviews[review.PhotographerID], review)
}

// Reports exposes the store as a ReportRepository.
func (s *Store) Reports() repository.ReportRepository { return reportRepo{s} }

// Users exposes the store as a UserRepository.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Content exposes the store as a ContentRepository.
func (s *Store) Content() repository.ContentRepository { return contentRepo{s} }

// Notifications exposes the store as a NotificationRepository.
func (s *Store) Notifications() repository.NotificationRepository { return notificationRepo{s} }

// now must be called with the lock held. The sequence keeps created_at
// strictly increasing so ordering is stable under a frozen clock.
func (s *Store) now() time.Time {
	s.sequence++
	return s.clock().Add(time.Duration(s.sequence) * time.Microsecond)
}

type reportRepo struct{ s *Store }

func (r reportRepo) Create(_ context.Context, report *domain.Report) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report.CreatedAt = r.s.now()
	r.s.reports[report.ID] = cloneReport(*report)
	return nil
}

func (r reportRepo) GetByID(_ context.Context, id string) (*domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	report, ok := r.s.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneReport(report)
	return &out, nil
}

func (r reportRepo) ListPending(_ context.Context) ([]domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Report{}
	for _, report := range r.s.reports {
		if report.Status == domain.ReportStatusPending {
			result = append(result, cloneReport(report))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r reportRepo) ListByPhotographer(_ context.Context, photographerID string) ([]domain.Report, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Report{}
	for _, report := range r.s.reports {
		if report.PhotographerID == photographerID {
			result = append(result, cloneReport(report))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r reportRepo) Resolve(_ context.Context, id string, next domain.ReportStatus, adminID string, at time.Time) (*domain.Report, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	report, ok := r.s.reports[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	if report.Status != domain.ReportStatusPending {
		return nil, repository.ErrReportNotPending
	}
	report.Status = next
	report.ResolvedBy = &adminID
	report.ResolvedAt = &at
	r.s.reports[id] = report
	out := cloneReport(report)
	return &out, nil
}

func (r reportRepo) CountPending(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, report := range r.s.reports {
		if report.Status == domain.ReportStatusPending {
			count++
		}
	}
	return count, nil
}

type userRepo struct{ s *Store }

func (r userRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	user, ok := r.s.users[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := cloneUser(user)
	return &out, nil
}

func (r userRepo) UpdateRestriction(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	current, ok := r.s.users[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	updated := cloneUser(*user)
	current.Restricted = updated.Restricted
	current.RestrictionReason = updated.RestrictionReason
	current.RestrictedAt = updated.RestrictedAt
	r.s.users[user.ID] = current
	return nil
}

func (r userRepo) ListRestricted(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.User{}
	for _, user := range r.s.users {
		if user.Restricted {
			result = append(result, cloneUser(user))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].RestrictedAt, result[j].RestrictedAt
		switch {
		case a == nil && b == nil:
			return result[i].ID < result[j].ID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return result[i].ID < result[j].ID
		}
		return a.After(*b)
	})
	return result, nil
}

func (r userRepo) CountByRole(_ context.Context, role domain.Role) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, user := range r.s.users {
		if user.Role == role {
			count++
		}
	}
	return count, nil
}

func (r userRepo) CountRestricted(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var count int64
	for _, user := range r.s.users {
		if user.Restricted {
			count++
		}
	}
	return count, nil
}

type contentRepo struct{ s *Store }

func (r contentRepo) GetProfile(_ context.Context, userID string) (*domain.PhotographerProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	profile, ok := r.s.profiles[userID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &profile, nil
}

func (r contentRepo) ListPortfolio(_ context.Context, photographerID string) ([]domain.PortfolioItem, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.PortfolioItem{}, r.s.portfolio[photographerID]...), nil
}

func (r contentRepo) ListPackages(_ context.Context, photographerID string) ([]domain.Package, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]domain.Package{}, r.s.packages[photographerID]...), nil
}

func (r contentRepo) ListReviews(_ context.Context, photographerID string) ([]domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := make([]domain.Review, 0, len(r.s.reviews[photographerID]))
	for _, review := range r.s.reviews[photographerID] {
		if reviewer, ok := r.s.users[review.UserID]; ok {
			review.Reviewer = reviewer.Summary()
		}
		result = append(result, review)
	}
	return result, nil
}

func (r contentRepo) DeletePhotographer(_ context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user, ok := r.s.users[userID]
	if !ok || user.Role != domain.RolePhotographer {
		return pgx.ErrNoRows
	}
	delete(r.s.users, userID)
	delete(r.s.profiles, userID)
	delete(r.s.portfolio, userID)
	delete(r.s.packages, userID)
	return nil
}

type notificationRepo struct{ s *Store }

func (r notificationRepo) Create(_ context.Context, notification *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	notification.CreatedAt = r.s.now()
	r.s.notifications = append(r.s.notifications, *notification)
	return nil
}

func (r notificationRepo) ListForUser(_ context.Context, userID string) ([]domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result := []domain.Notification{}
	for i := len(r.s.notifications) - 1; i >= 0; i-- {
		n := r.s.notifications[i]
		if n.ReporterID == userID || n.PhotographerID == userID {
			result = append(result, n)
		}
	}
	return result, nil
}

func cloneReport(report domain.Report) domain.Report {
	if report.Description != nil {
		d := *report.Description
		report.Description = &d
	}
	if report.ResolvedBy != nil {
		b := *report.ResolvedBy
		report.ResolvedBy = &b
	}
	if report.ResolvedAt != nil {
		a := *report.ResolvedAt
		report.ResolvedAt = &a
	}
	return report
}

func cloneUser(user domain.User) domain.User {
	if user.RestrictionReason != nil {
		r := *user.RestrictionReason
		user.RestrictionReason = &r
	}
	if user.RestrictedAt != nil {
		a := *user.RestrictedAt
		user.RestrictedAt = &a
	}
	return user
}
