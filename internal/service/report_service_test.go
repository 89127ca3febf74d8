package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lenslink/moderation-service/internal/domain"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

func TestSubmitReportValidation(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		name  string
		input SubmitReportInput
		want  error
	}{
		{"no reporter", SubmitReportInput{PhotographerID: "P1", Reason: domain.ReasonOther}, apperrors.ErrUnauthorized},
		{"no target", SubmitReportInput{ReporterID: "U1", Reason: domain.ReasonOther}, apperrors.ErrValidation},
		{"self report", SubmitReportInput{ReporterID: "P1", PhotographerID: "P1", Reason: domain.ReasonOther}, apperrors.ErrValidation},
		{"missing reason", SubmitReportInput{ReporterID: "U1", PhotographerID: "P1"}, apperrors.ErrValidation},
		{"unknown reason", SubmitReportInput{ReporterID: "U1", PhotographerID: "P1", Reason: "Bad Vibes"}, apperrors.ErrValidation},
		{"unknown target", SubmitReportInput{ReporterID: "U1", PhotographerID: "P404", Reason: domain.ReasonOther}, apperrors.ErrNotFound},
		{"target not photographer", SubmitReportInput{ReporterID: "U1", PhotographerID: "U2", Reason: domain.ReasonOther}, apperrors.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.reports.SubmitReport(context.Background(), tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestSubmitReportAllowsDuplicates(t *testing.T) {
	f := newFixture(t)
	blank := "   "
	first := f.submit(t, "U1", domain.ReasonFakeProfile)
	second, err := f.reports.SubmitReport(context.Background(), SubmitReportInput{
		ReporterID:     "U1",
		PhotographerID: "P1",
		Reason:         domain.ReasonFakeProfile,
		Description:    &blank,
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if first.ID == second.ID {
		t.Fatalf("expected distinct report ids")
	}
	if second.Description != nil {
		t.Fatalf("blank description should be dropped")
	}

	queue, err := f.reports.ListPendingReports(context.Background())
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(queue) != 2 || queue[0].ID != first.ID || queue[1].ID != second.ID {
		t.Fatalf("expected oldest first, got %+v", queue)
	}
}

func TestPhotographerFullView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	text := "lovely"
	f.store.AddPackage(domain.Package{ID: "pkg-1", PhotographerID: "P1", Name: "Half day", Price: 300})
	f.store.AddReview(domain.Review{ID: "rv-1", PhotographerID: "P1", UserID: "U2", Rating: 5, ReviewText: &text})
	older := f.submit(t, "U1", domain.ReasonMisleading)
	newer := f.submit(t, "U2", domain.ReasonOther)

	view, err := f.reports.PhotographerFullView(ctx, "P1")
	if err != nil {
		t.Fatalf("full view: %v", err)
	}
	if view.User == nil || view.User.ID != "P1" || view.Profile == nil || view.Profile.Location != "Lisbon" {
		t.Fatalf("missing identity or profile: %+v", view)
	}
	if len(view.Packages) != 1 || len(view.Reviews) != 1 || view.Reviews[0].Reviewer == nil {
		t.Fatalf("unexpected content: %+v", view)
	}
	if len(view.Reports) != 2 || view.Reports[0].ID != newer.ID || view.Reports[1].ID != older.ID {
		t.Fatalf("history should be newest first: %+v", view.Reports)
	}
	if view.Reports[1].Reporter == nil || view.Reports[1].Reporter.FullName != "Uma User" {
		t.Fatalf("reporter not attached: %+v", view.Reports[1])
	}

	if _, err := f.reports.PhotographerFullView(ctx, "U1"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("non photographer: expected not found, got %v", err)
	}
	if _, err := f.reports.PhotographerFullView(ctx, "nobody"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("unknown id: expected not found, got %v", err)
	}
}

func TestListReasons(t *testing.T) {
	f := newFixture(t)
	reasons := f.reports.ListReasons()
	if len(reasons) != 15 || reasons[len(reasons)-1] != domain.ReasonOther {
		t.Fatalf("unexpected reasons %v", reasons)
	}
}
