package worker

import (
	"github.com/spec-kit/order-service/internal/service"
)

// StartEventHandlers registers all event subscribers. The handler registry
// is fixed after this call.
func StartEventHandlers(notifications *service.NotificationService, audit *service.AuditService) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if audit != nil {
		audit.RegisterHandlers()
	}
}
