package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/auth"
	"github.com/lenslink/moderation-service/internal/service"
	apperrors "github.com/lenslink/moderation-service/pkg/util"
)

// ReportsHandler serves report intake for clients.
type ReportsHandler struct {
	service *service.ReportService
}

// NewReportsHandler constructs handler.
func NewReportsHandler(reportService *service.ReportService) *ReportsHandler {
	return &ReportsHandler{service: reportService}
}

// Reasons GET /api/reports/reasons.
func (h *ReportsHandler) Reasons(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": dto.ReasonsResponse{Reasons: h.service.ListReasons()}})
}

// Submit POST /api/reports.
func (h *ReportsHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.SubmitReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ReporterID != "" && req.ReporterID != principal.User.ID {
		return apperrors.NewForbidden("cannot report on behalf of another user")
	}

	report, err := h.service.SubmitReport(c.UserContext(), service.SubmitReportInput{
		ReporterID:     principal.User.ID,
		PhotographerID: req.PhotographerID,
		Reason:         req.Reason,
		Description:    req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": reportResponse(report)})
}
