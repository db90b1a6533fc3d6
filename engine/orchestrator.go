// engine/orchestrator.go
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/controlplane"
	doorward_errors "github.com/dev-rajatverma/doorward/errors"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// Options are the engine knobs, injected at construction. No package-level
// defaults, no global client.
type Options struct {
	VerifyAttempts    int
	VerifyDelay       time.Duration
	CaptureAttempts   int
	CaptureDelay      time.Duration
	OperationDeadline time.Duration
	SubjectLeaseTTL   time.Duration
}

// Orchestrator is the engine's entry point. For each intent it composes
// resolution, the strategy chain, the best-effort device sync and
// convergence verification into one uniform OperationResult.
type Orchestrator struct {
	api       controlplane.API
	resolver  *Resolver
	chain     *Chain
	verifier  *Verifier
	sync      *SyncTrigger
	biometric *BiometricEnroller
	directory Directory
	leaser    Leaser
	opts      Options
}

// NewOrchestrator wires the engine from its collaborators. leaser may be
// nil, in which case per-subject serialization is in-process only.
func NewOrchestrator(api controlplane.API, subjects SubjectStore, relations RelationStore, reader StateReader, directory Directory, sender CommandSender, leaser Leaser, opts Options) *Orchestrator {
	if opts.VerifyAttempts == 0 {
		opts.VerifyAttempts = 5
	}
	if opts.CaptureAttempts == 0 {
		opts.CaptureAttempts = 5
	}
	if opts.OperationDeadline == 0 {
		opts.OperationDeadline = 3 * time.Minute
	}
	if opts.SubjectLeaseTTL == 0 {
		opts.SubjectLeaseTTL = 5 * time.Minute
	}
	if leaser == nil {
		leaser = NewLocalLeaser()
	}

	chain := NewChain(NewControlPlaneStrategy(api), NewDatastoreStrategy(relations))
	verifier := NewVerifier(reader, opts.VerifyAttempts, opts.VerifyDelay)
	syncTrigger := NewSyncTrigger(directory, sender)

	return &Orchestrator{
		api:       api,
		resolver:  NewResolver(api, subjects),
		chain:     chain,
		verifier:  verifier,
		sync:      syncTrigger,
		biometric: NewBiometricEnroller(api, directory, verifier, chain, syncTrigger, opts.CaptureAttempts, opts.CaptureDelay),
		directory: directory,
		leaser:    leaser,
		opts:      opts,
	}
}

// Execute runs one intent end to end. Only a resolution failure, a busy
// subject, or an operation-wide precondition produce an error; everything
// downstream is absorbed into the result's per-target breakdown and
// qualifiers.
func (o *Orchestrator) Execute(ctx context.Context, intent model.Intent) (*model.OperationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.OperationDeadline)
	defer cancel()

	operationID := uuid.New().String()
	result := &model.OperationResult{
		OperationID: operationID,
		Details:     map[string]any{"intent": string(intent.Type)},
	}

	acquired, err := o.leaser.Acquire(ctx, intent.Subject.ExternalID, o.opts.SubjectLeaseTTL)
	if err != nil {
		logger.Warn("Subject lease acquisition errored, proceeding unserialized",
			zap.String("subject", intent.Subject.ExternalID),
			zap.Error(err))
	} else if !acquired {
		return nil, doorward_errors.ErrSubjectBusy
	} else {
		// Release must outlive the operation deadline, or an expired ctx
		// leaves the subject locked until the lease TTL runs out.
		defer o.leaser.Release(context.WithoutCancel(ctx), intent.Subject.ExternalID)
	}

	// Resolution failure aborts before any mutation begins.
	key, err := o.resolver.Resolve(ctx, intent.Subject.ExternalID)
	if err != nil {
		return nil, err
	}
	intent.Subject.ResolvedKey = key
	result.Details["subject_key"] = key

	targets, groupCall, err := o.expandTargets(ctx, intent)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, doorward_errors.ErrInvalidIntentData
	}

	start := time.Now()
	logger.Info("Executing access operation",
		zap.String("operationID", operationID),
		zap.String("intent", string(intent.Type)),
		zap.String("subject", intent.Subject.ExternalID),
		zap.Int64s("targets", targets))

	switch intent.Type {
	case model.IntentEnrollBiometric:
		o.executeBiometric(ctx, intent, targets, result)
	case model.IntentEnrollAuth:
		if groupCall {
			o.executeGroupEnroll(ctx, intent, targets, result)
		} else {
			o.executePerTarget(ctx, intent, targets, result)
		}
	default:
		o.executePerTarget(ctx, intent, targets, result)
	}

	o.finishResult(intent, result)
	logger.Info("Access operation finished",
		zap.String("operationID", operationID),
		zap.Bool("success", result.Success),
		zap.Int("doorsConfigured", result.DoorsConfigured),
		zap.Int64s("failedTargets", result.FailedTargets),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// SubjectAccess resolves the subject and returns the terminals on which
// it currently holds an authentication relation, straight from the
// authoritative listing.
func (o *Orchestrator) SubjectAccess(ctx context.Context, externalID string) ([]int64, error) {
	key, err := o.resolver.Resolve(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return o.verifier.reader.TerminalAuthList(ctx, key)
}

// expandTargets turns the intent's target set into concrete terminals. A
// terminal group is expanded through the directory; for EnrollAuth the
// group is additionally eligible for a single covering control-plane call.
func (o *Orchestrator) expandTargets(ctx context.Context, intent model.Intent) ([]int64, bool, error) {
	if intent.TerminalGroup != 0 {
		members, err := o.directory.ZoneTerminals(ctx, intent.TerminalGroup)
		if err != nil {
			return nil, false, doorward_errors.ErrZoneNotFound
		}
		return members, intent.Type == model.IntentEnrollAuth, nil
	}
	return intent.Targets, false, nil
}

// executePerTarget iterates targets one at a time. A failed target is
// recorded and does not abort the remaining targets.
func (o *Orchestrator) executePerTarget(ctx context.Context, intent model.Intent, targets []int64, result *model.OperationResult) {
	expectPresent := intent.Type == model.IntentGrant || intent.Type == model.IntentEnrollAuth
	for _, target := range targets {
		result.AddTarget(o.applyToTarget(ctx, intent, target, expectPresent))
	}
}

// executeGroupEnroll issues one control-plane call covering the whole
// terminal group, then verifies each member individually. If the group
// call fails outright, members are processed per-target so the datastore
// fallback still gets its chance.
func (o *Orchestrator) executeGroupEnroll(ctx context.Context, intent model.Intent, targets []int64, result *model.OperationResult) {
	strat := NewControlPlaneStrategy(o.api)
	raw, err := strat.Apply(ctx, intent, 0)
	if err != nil || Classify(raw) == model.ClassFailure {
		logger.Warn("Group enrollment call failed, processing members individually",
			zap.Int64("group", intent.TerminalGroup),
			zap.Error(err))
		o.executePerTarget(ctx, intent, targets, result)
		return
	}

	class := Classify(raw)
	for _, target := range targets {
		outcome := model.TargetOutcome{Terminal: target, StrategyUsed: model.StrategyControlPlane}
		o.sync.Sync(ctx, intent.Subject, target)
		record, verified := o.verifier.VerifyTerminal(ctx, intent.Subject.ResolvedKey, target, true)
		outcome.Verified = verified
		switch {
		case verified:
			outcome.Succeeded = true
		case class == model.ClassSuccess:
			outcome.Succeeded = true
			outcome.Detail = fmt.Sprintf("group call accepted but member not yet visible after %d attempts", record.Attempts)
			result.PendingSync = true
		default:
			outcome.Detail = fmt.Sprintf("ambiguous group outcome not corroborated after %d attempts", record.Attempts)
		}
		result.AddTarget(outcome)
	}
}

// applyToTarget runs the strategy chain for one terminal, then the
// best-effort sync, then verification, and folds the three into one
// per-target outcome.
func (o *Orchestrator) applyToTarget(ctx context.Context, intent model.Intent, target int64, expectPresent bool) model.TargetOutcome {
	class, raw, strat := o.chain.Execute(ctx, intent, target)
	outcome := model.TargetOutcome{Terminal: target, StrategyUsed: strat}

	if class == model.ClassFailure {
		outcome.Detail = fmt.Sprintf("%v, last outcome: %v", doorward_errors.ErrStrategyExhausted, raw)
		return outcome
	}

	// Propagation is best-effort and never blocks verification, which
	// reads the relation record rather than device-side state.
	o.sync.Sync(ctx, intent.Subject, target)

	record, verified := o.verifier.VerifyTerminal(ctx, intent.Subject.ResolvedKey, target, expectPresent)
	outcome.Verified = verified

	switch {
	case verified:
		outcome.Succeeded = true
	case class == model.ClassSuccess:
		// The mutating call claimed success but convergence never showed.
		// Downgrade to a qualified success rather than raising.
		outcome.Succeeded = true
		outcome.Detail = fmt.Sprintf("accepted but not observed after %d attempts", record.Attempts)
	default:
		// Ambiguous and uncorroborated: not a success.
		outcome.Detail = fmt.Sprintf("ambiguous outcome not corroborated after %d attempts", record.Attempts)
	}
	return outcome
}

func (o *Orchestrator) executeBiometric(ctx context.Context, intent model.Intent, targets []int64, result *model.OperationResult) {
	capture, err := o.biometric.Enroll(ctx, intent, intent.CaptureDevice, targets)
	if err != nil {
		result.Details["capture_error"] = err.Error()
		for _, target := range targets {
			result.AddTarget(model.TargetOutcome{Terminal: target, StrategyUsed: model.StrategyNone, Detail: "biometric capture could not start"})
		}
		return
	}

	result.Details["capture_state"] = string(capture.State)
	result.Details["capture_device"] = capture.Device.ID
	result.BiometricCaptured = capture.State != StateCaptureTimedOut && capture.State != StateIdle

	if capture.State == StateCaptureTimedOut {
		result.Details["capture_error"] = doorward_errors.ErrCaptureTimeout.Error()
		for _, target := range targets {
			result.AddTarget(model.TargetOutcome{Terminal: target, StrategyUsed: model.StrategyNone, Detail: "biometric was not captured"})
		}
		return
	}
	for _, outcome := range capture.Targets {
		result.AddTarget(outcome)
	}
}

// finishResult derives the overall flag and human-readable message from
// the per-target breakdown.
func (o *Orchestrator) finishResult(intent model.Intent, result *model.OperationResult) {
	result.Success = result.DoorsConfigured > 0

	unverified := 0
	for _, t := range result.Targets {
		if t.Succeeded && !t.Verified {
			unverified++
			result.PendingSync = true
		}
	}

	switch {
	case intent.Type == model.IntentEnrollBiometric && !result.BiometricCaptured:
		result.Success = false
		result.Message = "biometric was not captured: no template appeared within the retry budget"
	case !result.Success:
		result.Message = fmt.Sprintf("%s failed for all %d target(s)", intent.Type, len(result.Targets))
	case len(result.FailedTargets) > 0:
		result.Message = fmt.Sprintf("%s applied to %d of %d target(s)", intent.Type, result.DoorsConfigured, len(result.Targets))
	case unverified > 0:
		result.Message = fmt.Sprintf("%s applied to %d target(s); %d not yet converged on the device", intent.Type, result.DoorsConfigured, unverified)
	default:
		result.Message = fmt.Sprintf("%s applied to %d target(s)", intent.Type, result.DoorsConfigured)
	}
}
