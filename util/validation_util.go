// util/validation_util.go

package util

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/dev-rajatverma/doorward/model"
)

type ValidationUtil struct {
	validate *validator.Validate
}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{validate: validator.New()}
}

// ValidateStruct runs tag-based validation on a request struct.
func (v *ValidationUtil) ValidateStruct(s any) error {
	return v.validate.Struct(s)
}

func (v *ValidationUtil) ValidateIntent(intent model.Intent) error {
	if intent.Subject.ExternalID == "" {
		return fmt.Errorf("intent subject cannot be empty")
	}
	switch intent.Type {
	case model.IntentGrant, model.IntentBlock, model.IntentRevoke, model.IntentEnrollAuth, model.IntentEnrollBiometric:
	default:
		return fmt.Errorf("unknown intent type: %s", intent.Type)
	}
	if len(intent.Targets) == 0 && intent.TerminalGroup == 0 {
		return fmt.Errorf("intent must name at least one terminal or a terminal group")
	}
	for _, t := range intent.Targets {
		if t <= 0 {
			return fmt.Errorf("terminal identifier must be positive, got %d", t)
		}
	}
	if intent.Type == model.IntentEnrollBiometric && intent.Modality == "" {
		return fmt.Errorf("biometric enrollment requires a modality")
	}
	if !intent.Schedule.Start.IsZero() && !intent.Schedule.End.IsZero() && intent.Schedule.End.Before(intent.Schedule.Start) {
		return fmt.Errorf("schedule end cannot precede schedule start")
	}
	// Add more validation rules as needed
	return nil
}
