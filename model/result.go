// model/result.go
package model

// VerificationRecord captures one convergence check against the
// authoritative listing. It exists only for the duration of the operation
// that produced it.
type VerificationRecord struct {
	Target       int64 `json:"target"`
	Attempts     int   `json:"attempts"`
	Converged    bool  `json:"converged"`
	ExpectedSeen bool  `json:"expected_seen"`
}

// TargetOutcome is the per-terminal breakdown of an operation.
type TargetOutcome struct {
	Terminal     int64        `json:"terminal"`
	Succeeded    bool         `json:"succeeded"`
	Verified     bool         `json:"verified"`
	StrategyUsed StrategyName `json:"strategy_used"`
	Detail       string       `json:"detail,omitempty"`
}

// OperationResult is the single artifact returned to the caller. It is
// never partially applied: either the whole target set's outcome is
// reported, or the call failed before any mutation began. Details carries
// diagnostics for display and audit only, never control flow.
type OperationResult struct {
	OperationID      string          `json:"operation_id"`
	Success          bool            `json:"success"`
	Message          string          `json:"message"`
	Targets          []TargetOutcome `json:"targets"`
	DoorsConfigured  int             `json:"doors_configured"`
	FailedTargets    []int64         `json:"failed_targets,omitempty"`
	PendingSync      bool            `json:"pending_sync,omitempty"`
	BiometricCaptured bool           `json:"biometric_captured,omitempty"`
	Details          map[string]any  `json:"details,omitempty"`
}

// AddTarget folds a per-terminal outcome into the aggregate counters.
func (r *OperationResult) AddTarget(t TargetOutcome) {
	r.Targets = append(r.Targets, t)
	if t.Succeeded {
		r.DoorsConfigured++
	} else {
		r.FailedTargets = append(r.FailedTargets, t.Terminal)
	}
}
