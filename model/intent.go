// model/intent.go
package model

import "time"

// IntentType identifies the high-level access operation requested by the
// chat layer.
type IntentType string

const (
	IntentGrant           IntentType = "grant"
	IntentBlock           IntentType = "block"
	IntentRevoke          IntentType = "revoke"
	IntentEnrollAuth      IntentType = "enroll_auth_method"
	IntentEnrollBiometric IntentType = "enroll_biometric"
)

// AuthMethod is the vendor's credential-type code (card, fingerprint, face,
// fused card+finger, etc). The codes are opaque integers defined by the
// control plane.
type AuthMethod int

const (
	AuthMethodCard        AuthMethod = 1
	AuthMethodFingerprint AuthMethod = 2
	AuthMethodFace        AuthMethod = 4
	AuthMethodCardFinger  AuthMethod = 3
)

// BiometricModality selects the capture hardware for biometric enrollment.
type BiometricModality string

const (
	ModalityFingerprint BiometricModality = "fingerprint"
	ModalityFace        BiometricModality = "face"
)

// Schedule is the vendor's access validity window. A zero End means
// open-ended.
type Schedule struct {
	ScheduleID int       `json:"schedule_id"` // vendor schedule code, 1 = always
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
}

// Subject is the person whose access is being changed. ExternalID is the
// identifier the chat layer knows (employee code, visitor pass, email
// prefix); ResolvedKey is the control plane's internal numeric key, zero
// until resolution succeeds. Resolution results live only as long as the
// request that produced them.
type Subject struct {
	ExternalID  string `json:"external_id"`
	ResolvedKey int64  `json:"resolved_key,omitempty"`
}

// Resolved reports whether the subject carries a usable internal key.
func (s Subject) Resolved() bool {
	return s.ResolvedKey > 0
}

// Intent is a single high-level access instruction. Targets holds one or
// more terminal identifiers; TerminalGroup, when set, addresses a whole
// zone and Targets is ignored by the control-plane path.
type Intent struct {
	Type          IntentType        `json:"type"`
	Subject       Subject           `json:"subject"`
	Targets       []int64           `json:"targets,omitempty"`
	TerminalGroup int64             `json:"terminal_group,omitempty"`
	AuthMethod    AuthMethod        `json:"auth_method"`
	Schedule      Schedule          `json:"schedule"`
	Modality      BiometricModality `json:"modality,omitempty"`
	CaptureDevice int64             `json:"capture_device,omitempty"`
	Reason        string            `json:"reason,omitempty"`
}
