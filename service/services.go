// service/services.go
package service

import (
	"github.com/dev-rajatverma/doorward/audit"
	"github.com/dev-rajatverma/doorward/util"
)

type Services struct {
	Access IAccessService
}

func InitializeServices(
	orchestrator AccessOrchestrator,
	auditService audit.Service,
	validationUtil *util.ValidationUtil,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) (*Services, error) {
	services := &Services{
		Access: NewAccessService(orchestrator, validationUtil, auditService, notificationSvc, eventBus),
	}

	return services, nil
}
