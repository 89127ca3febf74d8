package worker

import (
	"github.com/lenslink/moderation-service/internal/service"
)

// StartNotificationWorker subscribes the notification handlers to the
// dispatcher. Delivery is synchronous with the publishing request.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
