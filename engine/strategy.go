// engine/strategy.go
package engine

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/dev-rajatverma/doorward/controlplane"
	logger "github.com/dev-rajatverma/doorward/logging"
	"github.com/dev-rajatverma/doorward/model"
)

// RelationStore is the direct-datastore side of the fallback strategy.
type RelationStore interface {
	// FindRelation reports whether a relation row exists for the
	// (subject, terminal, auth method) key.
	FindRelation(ctx context.Context, subjectKey, terminal int64, method model.AuthMethod) (bool, error)
	// UpsertRelation updates the existing row for the relation's key or
	// inserts a new one, marking it pending device synchronization.
	UpsertRelation(ctx context.Context, rel model.Relation) error
	// DeleteRelation removes the row for the relation's key if present.
	DeleteRelation(ctx context.Context, subjectKey, terminal int64, method model.AuthMethod) error
}

// Strategy is one way of applying an intent to a single target terminal.
type Strategy interface {
	Name() model.StrategyName
	Apply(ctx context.Context, intent model.Intent, target int64) (model.RawOutcome, error)
}

// Chain runs an ordered list of strategies until one classifies as Success
// or Ambiguous, or the list is exhausted.
type Chain struct {
	strategies []Strategy
}

func NewChain(strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies}
}

// Execute applies the intent to one target. It stops at the first Success.
// An Ambiguous outcome also stops the chain: it is a tentative success that
// the caller must corroborate through verification, never a license to try
// the next strategy (the mutation may well have taken effect). Transport
// errors and classified Failures advance to the next strategy. An exhausted
// chain reports Failure under the last strategy attempted.
func (c *Chain) Execute(ctx context.Context, intent model.Intent, target int64) (model.Classification, model.RawOutcome, model.StrategyName) {
	var (
		lastRaw  model.RawOutcome
		lastName = model.StrategyNone
	)

	for _, strat := range c.strategies {
		raw, err := strat.Apply(ctx, intent, target)
		lastName = strat.Name()
		if err != nil {
			logger.Warn("Strategy transport error, advancing to next strategy",
				zap.String("strategy", string(strat.Name())),
				zap.String("intent", string(intent.Type)),
				zap.Int64("target", target),
				zap.Error(err))
			lastRaw = nil
			continue
		}

		lastRaw = raw
		switch class := Classify(raw); class {
		case model.ClassSuccess, model.ClassAmbiguous:
			return class, raw, strat.Name()
		case model.ClassFailure:
			logger.Warn("Strategy classified as failure, advancing to next strategy",
				zap.String("strategy", string(strat.Name())),
				zap.String("intent", string(intent.Type)),
				zap.Int64("target", target),
				zap.Any("raw", raw))
		}
	}

	return model.ClassFailure, lastRaw, lastName
}

// ControlPlaneStrategy is the primary path: one vendor API mutation with
// the full authentication/schedule payload.
type ControlPlaneStrategy struct {
	api controlplane.API
}

func NewControlPlaneStrategy(api controlplane.API) *ControlPlaneStrategy {
	return &ControlPlaneStrategy{api: api}
}

func (s *ControlPlaneStrategy) Name() model.StrategyName {
	return model.StrategyControlPlane
}

func (s *ControlPlaneStrategy) Apply(ctx context.Context, intent model.Intent, target int64) (model.RawOutcome, error) {
	payload := map[string]any{
		"user_id":     intent.Subject.ResolvedKey,
		"auth_mode":   int(intent.AuthMethod),
		"schedule_id": intent.Schedule.ScheduleID,
	}
	if !intent.Schedule.Start.IsZero() {
		payload["start_datetime"] = intent.Schedule.Start.Format(time.RFC3339)
	}
	if !intent.Schedule.End.IsZero() {
		payload["end_datetime"] = intent.Schedule.End.Format(time.RFC3339)
	}

	params := map[string]string{}
	if target != 0 {
		payload["terminal_id"] = target
	} else if intent.TerminalGroup != 0 {
		// A group call implicitly covers all member terminals.
		payload["terminal_group_id"] = intent.TerminalGroup
	}

	var (
		method   string
		endpoint string
	)
	switch intent.Type {
	case model.IntentGrant, model.IntentEnrollAuth, model.IntentEnrollBiometric:
		method, endpoint = http.MethodPost, "terminal_auth/add"
	case model.IntentBlock:
		payload["blocked"] = true
		payload["reason"] = intent.Reason
		method, endpoint = http.MethodPut, "terminal_auth/block"
	case model.IntentRevoke:
		method, endpoint = http.MethodPost, "terminal_auth/delete"
	default:
		return nil, fmt.Errorf("unsupported intent type: %s", intent.Type)
	}

	return s.api.Call(ctx, method, endpoint, params, payload)
}

// DatastoreStrategy is the secondary path: when the control plane fails
// outright, mutate the vendor's backing table directly. The end state must
// be equivalent, but the mechanics differ: insert-or-update keyed by
// (subject, terminal, auth method), and no automatic device sync, so rows
// are marked pending synchronization.
type DatastoreStrategy struct {
	store RelationStore
}

func NewDatastoreStrategy(store RelationStore) *DatastoreStrategy {
	return &DatastoreStrategy{store: store}
}

func (s *DatastoreStrategy) Name() model.StrategyName {
	return model.StrategyDatastore
}

func (s *DatastoreStrategy) Apply(ctx context.Context, intent model.Intent, target int64) (model.RawOutcome, error) {
	switch intent.Type {
	case model.IntentRevoke:
		if err := s.store.DeleteRelation(ctx, intent.Subject.ResolvedKey, target, intent.AuthMethod); err != nil {
			return nil, err
		}
		return true, nil
	case model.IntentGrant, model.IntentBlock, model.IntentEnrollAuth, model.IntentEnrollBiometric:
		status := model.RelationGranted
		if intent.Type == model.IntentBlock {
			status = model.RelationBlocked
		}
		exists, err := s.store.FindRelation(ctx, intent.Subject.ResolvedKey, target, intent.AuthMethod)
		if err != nil {
			return nil, err
		}
		rel := model.Relation{
			SubjectKey:  intent.Subject.ResolvedKey,
			Terminal:    target,
			AuthMethod:  intent.AuthMethod,
			ScheduleID:  intent.Schedule.ScheduleID,
			Start:       intent.Schedule.Start,
			End:         intent.Schedule.End,
			Status:      status,
			PendingSync: true,
		}
		if err := s.store.UpsertRelation(ctx, rel); err != nil {
			return nil, err
		}
		if exists {
			logger.Info("Datastore fallback updated existing relation",
				zap.Int64("subjectKey", rel.SubjectKey),
				zap.Int64("terminal", rel.Terminal),
				zap.Int("authMethod", int(rel.AuthMethod)))
		}
		return true, nil
	default:
		return nil, fmt.Errorf("unsupported intent type: %s", intent.Type)
	}
}
