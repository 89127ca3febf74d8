package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/events"
	"github.com/lenslink/moderation-service/internal/repository/memory"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

type fixture struct {
	store         *memory.Store
	reports       *ReportService
	moderation    *ModerationService
	notifications *NotificationService
	cache         *recordingCache
	clock         *fakeClock
	admin         *domain.User
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
}

func (c *recordingCache) Get(context.Context, string) (*domain.User, bool) { return nil, false }

func (c *recordingCache) Set(context.Context, *domain.User) {}

func (c *recordingCache) Invalidate(_ context.Context, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := memory.NewStore()
	store.SetClock(clock.Now)

	admin := domain.User{ID: "A1", FullName: "Ada Admin", Email: "a1@example.com", Role: domain.RoleAdmin}
	store.PutUser(admin)
	store.PutUser(domain.User{ID: "U1", FullName: "Uma User", Email: "u1@example.com", Role: domain.RoleUser})
	store.PutUser(domain.User{ID: "U2", FullName: "Ugo User", Email: "u2@example.com", Role: domain.RoleUser})
	store.PutUser(domain.User{ID: "P1", FullName: "Pia Photo", Email: "p1@example.com", Role: domain.RolePhotographer})
	store.PutProfile(domain.PhotographerProfile{ID: "prof-1", UserID: "P1", Bio: "weddings", Location: "Lisbon"})

	dispatcher := events.NewInMemoryDispatcher()
	notifications := NewNotificationService(dispatcher, store.Notifications(), nil)
	notifications.RegisterHandlers()

	userCache := &recordingCache{}
	return &fixture{
		store: store,
		reports: NewReportService(ReportDependencies{
			ReportRepo:  store.Reports(),
			UserRepo:    store.Users(),
			ContentRepo: store.Content(),
			Dispatcher:  dispatcher,
		}),
		moderation: NewModerationService(ModerationDependencies{
			ReportRepo:     store.Reports(),
			UserRepo:       store.Users(),
			AccountRemover: store.Content(),
			UserCache:      userCache,
			Dispatcher:     dispatcher,
			Clock:          clock.Now,
		}),
		notifications: notifications,
		cache:         userCache,
		clock:         clock,
		admin:         &admin,
	}
}

func (f *fixture) submit(t *testing.T, reporter string, reason domain.ReportReason) *domain.Report {
	t.Helper()
	report, err := f.reports.SubmitReport(context.Background(), SubmitReportInput{
		ReporterID:     reporter,
		PhotographerID: "P1",
		Reason:         reason,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	return report
}

func (f *fixture) user(t *testing.T, id string) *domain.User {
	t.Helper()
	user, err := f.store.Users().GetByID(context.Background(), id)
	if err != nil {
		t.Fatalf("get user %s: %v", id, err)
	}
	return user
}

func TestModerationScenarios(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// A: one pending report appears in the queue.
	r1 := f.submit(t, "U1", domain.ReasonFakeProfile)
	queue, err := f.reports.ListPendingReports(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(queue) != 1 || queue[0].Status != domain.ReportStatusPending || queue[0].Reason != domain.ReasonFakeProfile {
		t.Fatalf("unexpected queue %+v", queue)
	}
	if queue[0].Reporter == nil || queue[0].Reporter.ID != "U1" || queue[0].PhotographerProfile == nil {
		t.Fatalf("queue entry not enriched: %+v", queue[0])
	}

	// B: restrict.
	result, err := f.moderation.ResolveReport(ctx, f.admin, r1.ID, "restrict")
	if err != nil {
		t.Fatalf("restrict: %v", err)
	}
	if result.Report.Status != domain.ReportStatusResolvedRestricted {
		t.Fatalf("unexpected status %s", result.Report.Status)
	}
	p1 := f.user(t, "P1")
	if !p1.Restricted || p1.RestrictionReason == nil || *p1.RestrictionReason != "Fake Profile" {
		t.Fatalf("P1 not restricted as expected: %+v", p1)
	}

	// C: a later report stays pending.
	f.clock.Advance(time.Minute)
	r2 := f.submit(t, "U2", domain.ReasonSpamOrScam)
	queue, err = f.reports.ListPendingReports(ctx)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(queue) != 1 || queue[0].ID != r2.ID || queue[0].Status != domain.ReportStatusPending {
		t.Fatalf("expected only R2 pending, got %+v", queue)
	}

	// D: dismiss leaves the restriction in place.
	before := f.user(t, "P1")
	result, err = f.moderation.ResolveReport(ctx, f.admin, r2.ID, "dismiss")
	if err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if result.Report.Status != domain.ReportStatusResolvedDismissed {
		t.Fatalf("unexpected status %s", result.Report.Status)
	}
	if after := f.user(t, "P1"); !reflect.DeepEqual(before, after) {
		t.Fatalf("dismiss changed account: before %+v after %+v", before, after)
	}

	// E: unrestrict clears everything.
	cleared, err := f.moderation.Unrestrict(ctx, f.admin, "P1")
	if err != nil {
		t.Fatalf("unrestrict: %v", err)
	}
	if cleared.Restricted || cleared.RestrictionReason != nil || cleared.RestrictedAt != nil {
		t.Fatalf("restriction not cleared: %+v", cleared)
	}
	if p1 := f.user(t, "P1"); p1.Restricted || p1.RestrictionReason != nil || p1.RestrictedAt != nil {
		t.Fatalf("stored account still restricted: %+v", p1)
	}
}

func TestResolveReportTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	report := f.submit(t, "U1", domain.ReasonHarassment)

	if _, err := f.moderation.ResolveReport(ctx, f.admin, report.ID, "restrict"); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	first := f.user(t, "P1")

	f.clock.Advance(time.Hour)
	for _, action := range []string{"restrict", "dismiss", "delete"} {
		_, err := f.moderation.ResolveReport(ctx, f.admin, report.ID, action)
		if !errors.Is(err, apperrors.ErrInvalidState) {
			t.Fatalf("%s: expected invalid state, got %v", action, err)
		}
	}

	stored, err := f.store.Reports().GetByID(ctx, report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if stored.Status != domain.ReportStatusResolvedRestricted {
		t.Fatalf("status changed to %s", stored.Status)
	}
	if second := f.user(t, "P1"); !reflect.DeepEqual(first, second) {
		t.Fatalf("account changed on replay: %+v vs %+v", first, second)
	}
}

func TestConcurrentResolutionHasSingleWinner(t *testing.T) {
	f := newFixture(t)
	report := f.submit(t, "U1", domain.ReasonViolence)

	const admins = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		wins     int
		conflict int
	)
	for i := 0; i < admins; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.moderation.ResolveReport(context.Background(), f.admin, report.ID, "dismiss")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, apperrors.ErrInvalidState):
				conflict++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if wins != 1 || conflict != admins-1 {
		t.Fatalf("expected 1 winner, got %d wins and %d conflicts", wins, conflict)
	}
}

func TestRestrictingRestrictedAccountOverwrites(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	r1 := f.submit(t, "U1", domain.ReasonFakeProfile)
	r2 := f.submit(t, "U2", domain.ReasonSpamOrScam)

	if _, err := f.moderation.ResolveReport(ctx, f.admin, r1.ID, "restrict"); err != nil {
		t.Fatalf("first restrict: %v", err)
	}
	f.clock.Advance(time.Hour)
	result, err := f.moderation.ResolveReport(ctx, f.admin, r2.ID, "restrict")
	if err != nil {
		t.Fatalf("second restrict: %v", err)
	}
	if result.Report.Status != domain.ReportStatusResolvedRestricted {
		t.Fatalf("unexpected status %s", result.Report.Status)
	}

	p1 := f.user(t, "P1")
	if *p1.RestrictionReason != "Spam or Scam" {
		t.Fatalf("reason not overwritten: %s", *p1.RestrictionReason)
	}
	if !p1.RestrictedAt.Equal(f.clock.Now()) {
		t.Fatalf("timestamp not overwritten: %v", p1.RestrictedAt)
	}
}

func TestDeleteRemovesAccountAndKeepsHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddPortfolioItem(domain.PortfolioItem{ID: "pf-1", PhotographerID: "P1", Title: "Dunes"})
	report := f.submit(t, "U1", domain.ReasonIllegalContent)
	pending := f.submit(t, "U2", domain.ReasonOther)

	result, err := f.moderation.ResolveReport(ctx, f.admin, report.ID, "delete")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if result.Report.Status != domain.ReportStatusResolvedDeleted || result.Account != nil {
		t.Fatalf("unexpected result %+v", result)
	}
	if _, err := f.store.Users().GetByID(ctx, "P1"); err == nil {
		t.Fatalf("expected P1 removed")
	}

	view, err := f.reports.PhotographerFullView(ctx, "P1")
	if err != nil {
		t.Fatalf("full view after delete: %v", err)
	}
	if view.User != nil || view.Profile != nil || len(view.Portfolio) != 0 || len(view.Reports) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}

	// The account is gone, so the remaining report cannot restrict it.
	_, err = f.moderation.ResolveReport(ctx, f.admin, pending.ID, "restrict")
	if !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	stored, _ := f.store.Reports().GetByID(ctx, pending.ID)
	if stored.Status != domain.ReportStatusPending {
		t.Fatalf("failed restrict must leave report pending, got %s", stored.Status)
	}
	// Dismissing needs no account.
	if _, err := f.moderation.ResolveReport(ctx, f.admin, pending.ID, "dismiss"); err != nil {
		t.Fatalf("dismiss after delete: %v", err)
	}
}

func TestResolveReportGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	report := f.submit(t, "U1", domain.ReasonNudity)

	cases := []struct {
		name   string
		actor  *domain.User
		id     string
		action string
		want   error
	}{
		{"no session", nil, report.ID, "dismiss", apperrors.ErrUnauthorized},
		{"non admin", f.user(t, "U1"), report.ID, "dismiss", apperrors.ErrForbidden},
		{"bad action", f.admin, report.ID, "ban", apperrors.ErrValidation},
		{"unknown report", f.admin, "missing", "dismiss", apperrors.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.moderation.ResolveReport(ctx, tc.actor, tc.id, tc.action)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResolutionNotifiesAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	report := f.submit(t, "U1", domain.ReasonCopyright)

	if _, err := f.moderation.ResolveReport(ctx, f.admin, report.ID, "restrict"); err != nil {
		t.Fatalf("restrict: %v", err)
	}

	for _, id := range []string{"U1", "P1"} {
		list, err := f.notifications.ListForUser(ctx, id)
		if err != nil {
			t.Fatalf("notifications: %v", err)
		}
		if len(list) != 1 || list[0].Message != "Photographer temporarily restricted due to: Copyright Violation" {
			t.Fatalf("unexpected notifications for %s: %+v", id, list)
		}
	}
	if len(f.cache.invalidated) != 1 || f.cache.invalidated[0] != "P1" {
		t.Fatalf("expected P1 invalidated, got %v", f.cache.invalidated)
	}
}

func TestUnrestrictAndStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.moderation.Unrestrict(ctx, f.admin, "ghost"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	// Clearing an unrestricted account is allowed.
	if _, err := f.moderation.Unrestrict(ctx, f.admin, "U1"); err != nil {
		t.Fatalf("unrestrict clean account: %v", err)
	}

	report := f.submit(t, "U1", domain.ReasonHateSpeech)
	f.submit(t, "U2", domain.ReasonHateSpeech)
	if _, err := f.moderation.ResolveReport(ctx, f.admin, report.ID, "restrict"); err != nil {
		t.Fatalf("restrict: %v", err)
	}

	restricted, err := f.moderation.ListRestrictedUsers(ctx, f.admin)
	if err != nil {
		t.Fatalf("list restricted: %v", err)
	}
	if len(restricted) != 1 || restricted[0].ID != "P1" {
		t.Fatalf("unexpected restricted list %+v", restricted)
	}

	stats, err := f.moderation.Stats(ctx, f.admin)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := domain.ModerationStats{PendingReports: 1, RestrictedUsers: 1, TotalUsers: 2, TotalPhotographers: 1}
	if *stats != want {
		t.Fatalf("stats = %+v, want %+v", *stats, want)
	}
}
