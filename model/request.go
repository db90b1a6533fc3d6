// model/request.go
package model

// AccessRequest is the chat layer's payload for grant/block/revoke and
// card/auth-method enrollment. Start and End are RFC3339 strings; an empty
// End means open-ended.
type AccessRequest struct {
	SubjectID  string  `json:"subject_id" binding:"required"`
	Terminals  []int64 `json:"terminals,omitempty"`
	Zone       int64   `json:"zone,omitempty"`
	AuthMethod int     `json:"auth_method,omitempty"`
	ScheduleID int     `json:"schedule_id,omitempty"`
	Start      string  `json:"start,omitempty"`
	End        string  `json:"end,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// BiometricEnrollRequest is the chat layer's payload for biometric
// enrollment. Device selects the capture unit explicitly; when zero the
// engine picks one by capability.
type BiometricEnrollRequest struct {
	AccessRequest
	Modality string `json:"modality" binding:"required"`
	Device   int64  `json:"device,omitempty"`
}
