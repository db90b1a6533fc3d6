// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

type NotificationService struct {
	// You might want to add dependencies here, such as a message queue client
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyAccessChange(ctx context.Context, changeType string, result model.OperationResult) error {
	switch changeType {
	case "granted", "blocked", "revoked", "enrolled":
		logger.Info("NOTIFICATION: Access state changed",
			zap.String("changeType", changeType),
			zap.String("operationID", result.OperationID),
			zap.Bool("success", result.Success),
			zap.Int("doorsConfigured", result.DoorsConfigured))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	// Here you would implement the actual notification logic
	// This could involve sending messages to a queue, calling an external API, etc.

	return nil
}

// NotifyFallbackUsed tells operators the control plane was bypassed; rows
// written through the datastore path wait on a manual or scheduled device
// sync.
func (n *NotificationService) NotifyFallbackUsed(ctx context.Context, subjectID string, terminals []int64) error {
	logger.Warn("NOTIFICATION: Datastore fallback used",
		zap.String("subjectID", subjectID),
		zap.Int64s("terminals", terminals))
	return nil
}

func (n *NotificationService) NotifyAdmins(ctx context.Context, message string) error {
	// Logic to notify all system administrators
	logger.Info("Notifying admins", zap.String("message", message))
	return nil
}
