package domain

import "fmt"

// Decision classifies a draft after schema validation.
type Decision int

const (
	// DecisionAccept means every invariant holds as extracted.
	DecisionAccept Decision = iota
	// DecisionRepairable means the draft violated an invariant but a
	// uniquely-inferable repair was applied.
	DecisionRepairable
	// DecisionReject means the draft violated an invariant beyond repair.
	DecisionReject
)

// String returns a human-readable decision name.
func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionRepairable:
		return "repairable"
	case DecisionReject:
		return "reject"
	default:
		return fmt.Sprintf("decision(%d)", int(d))
	}
}

// Repair describes one validator-applied correction to a uniquely
// inferable missing value.
type Repair struct {
	// Candidate is the name of the candidate whose field was filled.
	Candidate string `json:"candidate"`
	// Field is the repaired field ("ranking" or "tasting_position").
	Field string `json:"field"`
	// Value is the inferred value that closed the permutation gap.
	Value int `json:"value"`
}

// String formats the repair for the quality-flag audit trail.
func (r Repair) String() string {
	return fmt.Sprintf("%s=%d for %q", r.Field, r.Value, r.Candidate)
}

// Verdict is the outcome of schema validation for one draft. On accept or
// repairable outcomes Draft holds the (possibly repaired) episode; on
// reject, Reasons carries the structured invariant failures.
type Verdict struct {
	Decision Decision
	Draft    EpisodeDraft
	Repairs  []Repair
	Reasons  []string
}

// Accepted reports whether the draft may continue to reconciliation.
func (v Verdict) Accepted() bool { return v.Decision != DecisionReject }
