package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/auth"
	"github.com/lenslink/moderation-service/internal/domain"
	"github.com/lenslink/moderation-service/internal/service"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// AdminHandler exposes the moderation queue and decisions.
type AdminHandler struct {
	reports    *service.ReportService
	moderation *service.ModerationService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(reports *service.ReportService, moderation *service.ModerationService) *AdminHandler {
	return &AdminHandler{reports: reports, moderation: moderation}
}

// PendingReports GET /api/admin/reports/pending.
func (h *AdminHandler) PendingReports(c *fiber.Ctx) error {
	reports, err := h.reports.ListPendingReports(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.PendingReportResponse, 0, len(reports))
	for i := range reports {
		items = append(items, pendingReportResponse(&reports[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PhotographerFull GET /api/admin/photographers/:id/full.
func (h *AdminHandler) PhotographerFull(c *fiber.Ctx) error {
	view, err := h.reports.PhotographerFullView(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fullViewResponse(view)})
}

// Moderate PUT /api/admin/reports/:id/moderate?action=.
func (h *AdminHandler) Moderate(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	action := strings.TrimSpace(c.Query("action"))
	if action == "" {
		return apperrors.NewValidationError("action required", map[string]any{
			"allowed": []domain.ModerationAction{domain.ActionRestrict, domain.ActionDelete, domain.ActionDismiss},
		})
	}
	result, err := h.moderation.ResolveReport(c.UserContext(), admin, c.Params("id"), action)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": resolutionResponse(result)})
}

// RestrictedUsers GET /api/admin/restricted-users.
func (h *AdminHandler) RestrictedUsers(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	users, err := h.moderation.ListRestrictedUsers(c.UserContext(), admin)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Unrestrict PUT /api/admin/unrestrict/:id.
func (h *AdminHandler) Unrestrict(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	user, err := h.moderation.Unrestrict(c.UserContext(), admin, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Stats GET /api/admin/stats.
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	admin, err := currentUser(c)
	if err != nil {
		return err
	}
	stats, err := h.moderation.Stats(c.UserContext(), admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StatsResponse{
		PendingReports:     stats.PendingReports,
		RestrictedUsers:    stats.RestrictedUsers,
		TotalUsers:         stats.TotalUsers,
		TotalPhotographers: stats.TotalPhotographers,
	}})
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}
