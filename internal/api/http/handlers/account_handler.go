package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lenslink/moderation-service/internal/api/dto"
	"github.com/lenslink/moderation-service/internal/service"
)

// AccountHandler serves the caller's own state.
type AccountHandler struct {
	notifications *service.NotificationService
}

// NewAccountHandler constructs handler.
func NewAccountHandler(notifications *service.NotificationService) *AccountHandler {
	return &AccountHandler{notifications: notifications}
}

// Me GET /api/me. Restricted callers get their snapshot too, so clients can
// refresh a stale session.
func (h *AccountHandler) Me(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// Notifications GET /api/notifications.
func (h *AccountHandler) Notifications(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	list, err := h.notifications.ListForUser(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(list))
	for i := range list {
		items = append(items, notificationResponse(&list[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
