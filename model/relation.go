// model/relation.go
package model

import "time"

// RelationStatus is the state of a subject-terminal access relation row.
type RelationStatus string

const (
	RelationGranted RelationStatus = "granted"
	RelationBlocked RelationStatus = "blocked"
)

// Relation is one row of the vendor's subject-terminal-authmethod table,
// as seen by the direct-datastore fallback strategy. Rows written by the
// fallback are marked PendingSync because the datastore path has no
// automatic device propagation.
type Relation struct {
	SubjectKey  int64          `json:"subject_key"`
	Terminal    int64          `json:"terminal"`
	AuthMethod  AuthMethod     `json:"auth_method"`
	ScheduleID  int            `json:"schedule_id"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	Status      RelationStatus `json:"status"`
	PendingSync bool           `json:"pending_sync"`
}
