// engine/strategy_test.go
package engine_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	tmock "github.com/stretchr/testify/mock"

	"github.com/dev-rajatverma/doorward/engine"
	"github.com/dev-rajatverma/doorward/model"
	"github.com/dev-rajatverma/doorward/test/mock"
)

func grantIntent() model.Intent {
	return model.Intent{
		Type:       model.IntentGrant,
		Subject:    model.Subject{ExternalID: "EMP-1042", ResolvedKey: 4012},
		AuthMethod: model.AuthMethodCard,
		Schedule:   model.Schedule{ScheduleID: 1},
	}
}

func TestChain_Execute(t *testing.T) {
	ctx := context.Background()

	t.Run("Primary success stops the chain", func(t *testing.T) {
		api := new(mock.MockAPI)
		relations := new(mock.MockRelationStore)
		api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return("Success", nil)

		chain := engine.NewChain(
			engine.NewControlPlaneStrategy(api),
			engine.NewDatastoreStrategy(relations),
		)
		class, _, used := chain.Execute(ctx, grantIntent(), 7)

		assert.Equal(t, model.ClassSuccess, class)
		assert.Equal(t, model.StrategyControlPlane, used)
		relations.AssertNotCalled(t, "UpsertRelation", tmock.Anything, tmock.Anything)
	})

	t.Run("Transport error falls back to the datastore", func(t *testing.T) {
		api := new(mock.MockAPI)
		relations := new(mock.MockRelationStore)
		api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return(nil, errors.New("connection refused"))
		relations.On("FindRelation", tmock.Anything, int64(4012), int64(7), model.AuthMethodCard).
			Return(false, nil)
		relations.On("UpsertRelation", tmock.Anything, tmock.MatchedBy(func(rel model.Relation) bool {
			return rel.SubjectKey == 4012 && rel.Terminal == 7 &&
				rel.Status == model.RelationGranted && rel.PendingSync
		})).Return(nil)

		chain := engine.NewChain(
			engine.NewControlPlaneStrategy(api),
			engine.NewDatastoreStrategy(relations),
		)
		class, _, used := chain.Execute(ctx, grantIntent(), 7)

		assert.Equal(t, model.ClassSuccess, class)
		assert.Equal(t, model.StrategyDatastore, used)
		relations.AssertExpectations(t)
	})

	t.Run("Classified failure falls back to the datastore", func(t *testing.T) {
		api := new(mock.MockAPI)
		relations := new(mock.MockRelationStore)
		api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return(map[string]any{"Ecode": float64(5)}, nil)
		relations.On("FindRelation", tmock.Anything, int64(4012), int64(7), model.AuthMethodCard).
			Return(true, nil)
		relations.On("UpsertRelation", tmock.Anything, tmock.Anything).Return(nil)

		chain := engine.NewChain(
			engine.NewControlPlaneStrategy(api),
			engine.NewDatastoreStrategy(relations),
		)
		class, _, used := chain.Execute(ctx, grantIntent(), 7)

		assert.Equal(t, model.ClassSuccess, class)
		assert.Equal(t, model.StrategyDatastore, used)
		// Existing row means an update, never a second insert.
		relations.AssertNumberOfCalls(t, "UpsertRelation", 1)
	})

	t.Run("Ambiguous outcome stops the chain for verification", func(t *testing.T) {
		api := new(mock.MockAPI)
		relations := new(mock.MockRelationStore)
		api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.Anything).Return(map[string]any{}, nil)

		chain := engine.NewChain(
			engine.NewControlPlaneStrategy(api),
			engine.NewDatastoreStrategy(relations),
		)
		class, _, used := chain.Execute(ctx, grantIntent(), 7)

		assert.Equal(t, model.ClassAmbiguous, class)
		assert.Equal(t, model.StrategyControlPlane, used)
		// The mutation may have taken effect, so the fallback must not fire.
		relations.AssertNotCalled(t, "FindRelation", tmock.Anything, tmock.Anything, tmock.Anything, tmock.Anything)
		relations.AssertNotCalled(t, "UpsertRelation", tmock.Anything, tmock.Anything)
	})

	t.Run("Exhausted chain reports failure under the last strategy", func(t *testing.T) {
		api := new(mock.MockAPI)
		relations := new(mock.MockRelationStore)
		api.On("Call", tmock.Anything, tmock.Anything, tmock.Anything,
			tmock.Anything, tmock.Anything).Return(nil, errors.New("connection refused"))
		relations.On("FindRelation", tmock.Anything, tmock.Anything, tmock.Anything, tmock.Anything).
			Return(false, errors.New("database unavailable"))

		chain := engine.NewChain(
			engine.NewControlPlaneStrategy(api),
			engine.NewDatastoreStrategy(relations),
		)
		class, _, used := chain.Execute(ctx, grantIntent(), 7)

		assert.Equal(t, model.ClassFailure, class)
		assert.Equal(t, model.StrategyDatastore, used)
	})
}

func TestControlPlaneStrategy_Payload(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	end := start.Add(8 * time.Hour)

	t.Run("Grant posts the full authentication payload", func(t *testing.T) {
		api := new(mock.MockAPI)
		intent := grantIntent()
		intent.Schedule.Start = start
		intent.Schedule.End = end
		api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.MatchedBy(func(body any) bool {
				payload, ok := body.(map[string]any)
				return ok &&
					payload["user_id"] == int64(4012) &&
					payload["auth_mode"] == int(model.AuthMethodCard) &&
					payload["terminal_id"] == int64(7) &&
					payload["start_datetime"] == start.Format(time.RFC3339) &&
					payload["end_datetime"] == end.Format(time.RFC3339)
			})).Return("Success", nil)

		_, err := engine.NewControlPlaneStrategy(api).Apply(ctx, intent, 7)

		assert.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("Block carries the reason on the block endpoint", func(t *testing.T) {
		api := new(mock.MockAPI)
		intent := grantIntent()
		intent.Type = model.IntentBlock
		intent.Reason = "badge reported stolen"
		api.On("Call", tmock.Anything, http.MethodPut, "terminal_auth/block",
			tmock.Anything, tmock.MatchedBy(func(body any) bool {
				payload, ok := body.(map[string]any)
				return ok && payload["blocked"] == true &&
					payload["reason"] == "badge reported stolen"
			})).Return("Success", nil)

		_, err := engine.NewControlPlaneStrategy(api).Apply(ctx, intent, 7)

		assert.NoError(t, err)
		api.AssertExpectations(t)
	})

	t.Run("Group enrollment addresses the terminal group", func(t *testing.T) {
		api := new(mock.MockAPI)
		intent := grantIntent()
		intent.Type = model.IntentEnrollAuth
		intent.TerminalGroup = 3
		api.On("Call", tmock.Anything, http.MethodPost, "terminal_auth/add",
			tmock.Anything, tmock.MatchedBy(func(body any) bool {
				payload, ok := body.(map[string]any)
				if !ok {
					return false
				}
				_, hasTerminal := payload["terminal_id"]
				return !hasTerminal && payload["terminal_group_id"] == int64(3)
			})).Return("Success", nil)

		_, err := engine.NewControlPlaneStrategy(api).Apply(ctx, intent, 0)

		assert.NoError(t, err)
		api.AssertExpectations(t)
	})
}

func TestDatastoreStrategy_Revoke(t *testing.T) {
	relations := new(mock.MockRelationStore)
	relations.On("DeleteRelation", tmock.Anything, int64(4012), int64(7), model.AuthMethodCard).
		Return(nil)

	intent := grantIntent()
	intent.Type = model.IntentRevoke
	raw, err := engine.NewDatastoreStrategy(relations).Apply(context.Background(), intent, 7)

	assert.NoError(t, err)
	assert.Equal(t, model.ClassSuccess, engine.Classify(raw))
	relations.AssertExpectations(t)
}
