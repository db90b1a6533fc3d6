// audit/model.go
package audit

import "time"

// AccessChangeLog is one audit document per orchestrated access-state
// operation (or per datastore fallback write). Audit data is for display
// and investigation only; nothing reads it back for control flow.
type AccessChangeLog struct {
	Timestamp    time.Time `json:"timestamp"`
	OperationID  string    `json:"operation_id,omitempty"`
	ActorID      string    `json:"actor_id,omitempty"`
	Action       string    `json:"action"`
	SubjectID    string    `json:"subject_id,omitempty"`
	SubjectKey   int64     `json:"subject_key,omitempty"`
	Targets      []int64   `json:"targets,omitempty"`
	StrategyUsed string    `json:"strategy_used,omitempty"`
	Verified     bool      `json:"verified"`
	Success      bool      `json:"success"`
	Message      string    `json:"message,omitempty"`
}
