package handlers

import (
	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/service"
)

func userSummary(summary *domain.UserSummary) *dto.UserSummary {
	if summary == nil {
		return nil
	}
	return &dto.UserSummary{
		ID:       summary.ID,
		FullName: summary.FullName,
		Email:    summary.Email,
		Role:     summary.Role,
	}
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:                user.ID,
		FullName:          user.FullName,
		Email:             user.Email,
		Role:              user.Role,
		Restricted:        user.Restricted,
		RestrictionReason: user.RestrictionReason,
		RestrictedAt:      user.RestrictedAt,
		CreatedAt:         user.CreatedAt,
	}
}

func reportResponse(report *domain.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:             report.ID,
		ReporterID:     report.ReporterID,
		PhotographerID: report.PhotographerID,
		Reason:         report.Reason,
		Description:    report.Description,
		Status:         report.Status,
		ResolvedBy:     report.ResolvedBy,
		ResolvedAt:     report.ResolvedAt,
		CreatedAt:      report.CreatedAt,
	}
}

func profileResponse(profile *domain.PhotographerProfile) *dto.ProfileResponse {
	if profile == nil {
		return nil
	}
	specialties := profile.Specialties
	if specialties == nil {
		specialties = []string{}
	}
	return &dto.ProfileResponse{
		ID:              profile.ID,
		UserID:          profile.UserID,
		Bio:             profile.Bio,
		Specialties:     specialties,
		ExperienceYears: profile.ExperienceYears,
		Location:        profile.Location,
		ApprovalStatus:  profile.ApprovalStatus,
		CreatedAt:       profile.CreatedAt,
	}
}

func pendingReportResponse(report *domain.EnrichedReport) dto.PendingReportResponse {
	return dto.PendingReportResponse{
		ReportResponse:      reportResponse(&report.Report),
		Reporter:            userSummary(report.Reporter),
		Photographer:        userSummary(report.Photographer),
		PhotographerProfile: profileResponse(report.PhotographerProfile),
	}
}

func fullViewResponse(view *domain.PhotographerFullView) dto.PhotographerFullViewResponse {
	resp := dto.PhotographerFullViewResponse{
		User:      userSummary(view.User),
		Profile:   profileResponse(view.Profile),
		Portfolio: make([]dto.PortfolioItemResponse, 0, len(view.Portfolio)),
		Packages:  make([]dto.PackageResponse, 0, len(view.Packages)),
		Reviews:   make([]dto.ReviewResponse, 0, len(view.Reviews)),
		Reports:   make([]dto.ReportHistoryEntry, 0, len(view.Reports)),
	}
	for _, item := range view.Portfolio {
		resp.Portfolio = append(resp.Portfolio, dto.PortfolioItemResponse{
			ID:          item.ID,
			Category:    item.Category,
			Title:       item.Title,
			Description: item.Description,
			ImageURL:    item.ImageURL,
			CreatedAt:   item.CreatedAt,
		})
	}
	for _, pkg := range view.Packages {
		deliverables := pkg.Deliverables
		if deliverables == nil {
			deliverables = []string{}
		}
		resp.Packages = append(resp.Packages, dto.PackageResponse{
			ID:           pkg.ID,
			Name:         pkg.Name,
			Category:     pkg.Category,
			Description:  pkg.Description,
			Price:        pkg.Price,
			Duration:     pkg.Duration,
			Deliverables: deliverables,
			CreatedAt:    pkg.CreatedAt,
		})
	}
	for _, review := range view.Reviews {
		resp.Reviews = append(resp.Reviews, dto.ReviewResponse{
			ID:         review.ID,
			Rating:     review.Rating,
			ReviewText: review.ReviewText,
			Reviewer:   userSummary(review.Reviewer),
			CreatedAt:  review.CreatedAt,
		})
	}
	for i := range view.Reports {
		resp.Reports = append(resp.Reports, dto.ReportHistoryEntry{
			ReportResponse: reportResponse(&view.Reports[i].Report),
			Reporter:       userSummary(view.Reports[i].Reporter),
		})
	}
	return resp
}

func resolutionResponse(result *service.ResolutionResult) dto.ResolutionResponse {
	resp := dto.ResolutionResponse{
		Report:  reportResponse(result.Report),
		Action:  result.Action,
		Message: result.Message,
	}
	if result.Account != nil {
		account := userResponse(result.Account)
		resp.Account = &account
	}
	return resp
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:             n.ID,
		ReportID:       n.ReportID,
		PhotographerID: n.PhotographerID,
		ReporterID:     n.ReporterID,
		Action:         n.Action,
		Message:        n.Message,
		CreatedAt:      n.CreatedAt,
	}
}
