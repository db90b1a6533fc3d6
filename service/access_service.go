// service/access_service.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/audit"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
	"github.com/dev-rajatverma/doorward/util"
	helper_util "github.com/dev-rajatverma/doorward/util/helper"
)

// IAccessService is the surface the controllers (and the chat layer
// behind them) program against.
type IAccessService interface {
	Grant(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error)
	Block(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error)
	Revoke(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error)
	EnrollAuthMethod(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error)
	EnrollBiometric(ctx context.Context, req model.BiometricEnrollRequest, actorID string) (*model.OperationResult, error)
	SubjectAccess(ctx context.Context, subjectID string) ([]int64, error)
	AuditTrail(ctx context.Context, subjectID string, from, to time.Time) ([]audit.AccessChangeLog, error)
}

// AccessOrchestrator is the engine entry point the service drives.
type AccessOrchestrator interface {
	Execute(ctx context.Context, intent model.Intent) (*model.OperationResult, error)
	SubjectAccess(ctx context.Context, externalID string) ([]int64, error)
}

// AccessService handles business logic around the reconciliation engine:
// request-to-intent translation, validation, audit, notifications and
// events. The hard work of making the external system converge lives in
// the engine.
type AccessService struct {
	orchestrator    AccessOrchestrator
	validationUtil  *util.ValidationUtil
	auditService    audit.Service
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

// NewAccessService creates a new instance of AccessService
func NewAccessService(orchestrator AccessOrchestrator, validationUtil *util.ValidationUtil, auditService audit.Service, notificationSvc *util.NotificationService, eventBus *util.EventBus) *AccessService {
	service := &AccessService{
		orchestrator:    orchestrator,
		validationUtil:  validationUtil,
		auditService:    auditService,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}

	// Set up event subscriptions
	eventBus.Subscribe("access.fallback_used", service.handleFallbackUsed)

	return service
}

func (s *AccessService) handleFallbackUsed(ctx context.Context, event util.Event) error {
	payload, ok := event.Payload.(map[string]any)
	if !ok {
		return nil
	}
	subjectID, _ := payload["subject"].(string)
	terminals, _ := payload["terminals"].([]int64)
	return s.notificationSvc.NotifyFallbackUsed(ctx, subjectID, terminals)
}

func (s *AccessService) Grant(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error) {
	return s.execute(ctx, model.IntentGrant, req, actorID, "granted")
}

func (s *AccessService) Block(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error) {
	return s.execute(ctx, model.IntentBlock, req, actorID, "blocked")
}

func (s *AccessService) Revoke(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error) {
	return s.execute(ctx, model.IntentRevoke, req, actorID, "revoked")
}

func (s *AccessService) EnrollAuthMethod(ctx context.Context, req model.AccessRequest, actorID string) (*model.OperationResult, error) {
	return s.execute(ctx, model.IntentEnrollAuth, req, actorID, "enrolled")
}

func (s *AccessService) EnrollBiometric(ctx context.Context, req model.BiometricEnrollRequest, actorID string) (*model.OperationResult, error) {
	intent, err := s.buildIntent(model.IntentEnrollBiometric, req.AccessRequest)
	if err != nil {
		return nil, err
	}
	intent.Modality = model.BiometricModality(req.Modality)
	intent.CaptureDevice = req.Device

	if err := s.validationUtil.ValidateIntent(intent); err != nil {
		logger.Warn("Invalid biometric enrollment intent", zap.Error(err))
		return nil, doorward_errors.ErrInvalidIntentData
	}

	result, err := s.orchestrator.Execute(ctx, intent)
	if err != nil {
		return nil, err
	}
	s.afterOperation(ctx, intent, result, actorID, "enrolled")
	return result, nil
}

func (s *AccessService) SubjectAccess(ctx context.Context, subjectID string) ([]int64, error) {
	return s.orchestrator.SubjectAccess(ctx, subjectID)
}

func (s *AccessService) AuditTrail(ctx context.Context, subjectID string, from, to time.Time) ([]audit.AccessChangeLog, error) {
	return s.auditService.QueryChanges(ctx, from, to, subjectID)
}

func (s *AccessService) execute(ctx context.Context, intentType model.IntentType, req model.AccessRequest, actorID, changeType string) (*model.OperationResult, error) {
	intent, err := s.buildIntent(intentType, req)
	if err != nil {
		return nil, err
	}

	if err := s.validationUtil.ValidateIntent(intent); err != nil {
		logger.Warn("Invalid intent", zap.String("type", string(intentType)), zap.Error(err))
		return nil, doorward_errors.ErrInvalidIntentData
	}

	result, err := s.orchestrator.Execute(ctx, intent)
	if err != nil {
		return nil, err
	}
	s.afterOperation(ctx, intent, result, actorID, changeType)
	return result, nil
}

func (s *AccessService) buildIntent(intentType model.IntentType, req model.AccessRequest) (model.Intent, error) {
	intent := model.Intent{
		Type:          intentType,
		Subject:       model.Subject{ExternalID: req.SubjectID},
		Targets:       req.Terminals,
		TerminalGroup: req.Zone,
		AuthMethod:    model.AuthMethod(req.AuthMethod),
		Schedule:      model.Schedule{ScheduleID: req.ScheduleID},
		Reason:        req.Reason,
	}
	if intent.AuthMethod == 0 {
		intent.AuthMethod = model.AuthMethodCard
	}
	if intent.Schedule.ScheduleID == 0 {
		intent.Schedule.ScheduleID = 1 // vendor code for "always"
	}

	if req.Start != "" {
		start, err := helper_util.ParseTime(req.Start)
		if err != nil {
			return model.Intent{}, doorward_errors.ErrInvalidIntentData
		}
		intent.Schedule.Start = start
	}
	if req.End != "" {
		end, err := helper_util.ParseTime(req.End)
		if err != nil {
			return model.Intent{}, doorward_errors.ErrInvalidIntentData
		}
		intent.Schedule.End = end
	}
	return intent, nil
}

// resolvedSubjectKey recovers the internal key for the audit entry. The
// engine resolves the subject on its own copy of the intent, so the key
// only reaches the service through the result's details.
func resolvedSubjectKey(intent model.Intent, result *model.OperationResult) int64 {
	if intent.Subject.ResolvedKey > 0 {
		return intent.Subject.ResolvedKey
	}
	switch v := result.Details["subject_key"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

// afterOperation fans the finished result out to audit, notifications and
// the event bus. None of this affects the result the caller gets.
func (s *AccessService) afterOperation(ctx context.Context, intent model.Intent, result *model.OperationResult, actorID, changeType string) {
	strategyUsed := string(model.StrategyNone)
	fallbackTargets := []int64{}
	verified := len(result.Targets) > 0
	for _, t := range result.Targets {
		if t.StrategyUsed == model.StrategyDatastore {
			fallbackTargets = append(fallbackTargets, t.Terminal)
		}
		if t.StrategyUsed != model.StrategyNone {
			strategyUsed = string(t.StrategyUsed)
		}
		if !t.Verified {
			verified = false
		}
	}

	entry := audit.AccessChangeLog{
		Timestamp:    time.Now(),
		OperationID:  result.OperationID,
		ActorID:      actorID,
		Action:       string(intent.Type),
		SubjectID:    intent.Subject.ExternalID,
		SubjectKey:   resolvedSubjectKey(intent, result),
		Targets:      intent.Targets,
		StrategyUsed: strategyUsed,
		Verified:     verified,
		Success:      result.Success,
		Message:      result.Message,
	}
	if err := s.auditService.LogChange(ctx, entry); err != nil {
		logger.Error("Failed to write audit log",
			zap.String("operationID", result.OperationID),
			zap.Error(err))
	}

	if err := s.notificationSvc.NotifyAccessChange(ctx, changeType, *result); err != nil {
		logger.Warn("Failed to send access change notification",
			zap.String("operationID", result.OperationID),
			zap.Error(err))
	}

	s.eventBus.Publish(ctx, "access."+changeType, *result)
	if len(fallbackTargets) > 0 {
		s.eventBus.Publish(ctx, "access.fallback_used", map[string]any{
			"subject":   intent.Subject.ExternalID,
			"terminals": fallbackTargets,
		})
	}
}
