// engine/classifier_test.go
package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dev-rajatverma/doorward/engine"
	"github.com/dev-rajatverma/doorward/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		raw  model.RawOutcome
		want model.Classification
	}{
		{"bool true", true, model.ClassSuccess},
		{"bool false", false, model.ClassFailure},
		{"positive int", 1, model.ClassSuccess},
		{"zero int", 0, model.ClassFailure},
		{"positive float", float64(4012), model.ClassSuccess},
		{"negative numeric string", "-1", model.ClassFailure},
		{"positive numeric string", "257", model.ClassSuccess},
		{"success prose", "Success", model.ClassSuccess},
		{"failed prose", "Failed", model.ClassFailure},
		{"error prose", "Internal error occurred", model.ClassFailure},
		{"exact false string", "false", model.ClassFailure},
		{"true string", "true", model.ClassSuccess},
		{"unrelated prose", "record processed", model.ClassAmbiguous},
		{"empty string", "", model.ClassAmbiguous},
		{"empty object", map[string]any{}, model.ClassAmbiguous},
		{"error code object", map[string]any{"Ecode": float64(5)}, model.ClassFailure},
		{"clean error code object", map[string]any{"Ecode": float64(0)}, model.ClassSuccess},
		{"success key object", map[string]any{"success": true}, model.ClassSuccess},
		{"failed success key object", map[string]any{"Success": false}, model.ClassFailure},
		{"message object", map[string]any{"msg": "update failed"}, model.ClassFailure},
		{"return message object", map[string]any{"return_message": "Success"}, model.ClassSuccess},
		{"identifier object", map[string]any{"record_id": float64(88)}, model.ClassSuccess},
		{"nil outcome", nil, model.ClassAmbiguous},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, engine.Classify(tc.raw))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	// Same input, same answer, no hidden state.
	raw := map[string]any{"msg": "Failed", "record_id": float64(12)}
	first := engine.Classify(raw)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, engine.Classify(raw))
	}
}
