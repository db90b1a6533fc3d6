// model/outcome.go
package model

// RawOutcome is whatever a single strategy invocation returned: the vendor
// answers with a bool, a number, a numeric string, prose, or a JSON object
// depending on the endpoint. It is consumed immediately by the classifier
// and never persisted.
type RawOutcome any

// Classification is the normalized meaning of a RawOutcome.
type Classification int

const (
	// ClassFailure is an explicit vendor failure signal.
	ClassFailure Classification = iota
	// ClassSuccess is an unambiguous success signal.
	ClassSuccess
	// ClassAmbiguous is a response that is neither an explicit failure nor
	// an explicit success. It is treated as tentative success and must be
	// corroborated by convergence verification before being reported.
	ClassAmbiguous
)

func (c Classification) String() string {
	switch c {
	case ClassSuccess:
		return "success"
	case ClassFailure:
		return "failure"
	case ClassAmbiguous:
		return "ambiguous"
	default:
		return "unknown"
	}
}

// StrategyName identifies which execution strategy produced an outcome.
type StrategyName string

const (
	StrategyControlPlane StrategyName = "control_plane"
	StrategyDatastore    StrategyName = "datastore"
	StrategyNone         StrategyName = "none"
)
