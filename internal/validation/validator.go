// Package validation checks episode drafts against the record invariants:
// rankings and tasting positions must each form a permutation of 1..N, the
// winner and eliminated placements must be unique, and genders stay in the
// fixed two-valued domain with explicit absence. Broken permutations go
// through a pluggable repair policy before rejection.
package validation

import (
	"fmt"

	"github.com/mhagen/kitchendata/internal/domain"
)

const (
	fieldRanking         = "ranking"
	fieldTastingPosition = "tasting_position"
)

// SchemaValidator classifies drafts as accept, repairable, or reject.
// It is stateless apart from its policy and safe for concurrent use.
type SchemaValidator struct {
	policy RepairPolicy
}

// NewSchemaValidator builds a validator with the given repair policy.
// A nil policy selects UniqueGapPolicy.
func NewSchemaValidator(policy RepairPolicy) *SchemaValidator {
	if policy == nil {
		policy = UniqueGapPolicy{}
	}
	return &SchemaValidator{policy: policy}
}

// Validate checks the draft's invariants in order and returns a verdict.
// The input draft is never mutated; repairs apply to a clone. Candidate
// count mismatches against the metadata are deliberately not checked here,
// reconciliation owns that comparison.
func (sv *SchemaValidator) Validate(draft domain.EpisodeDraft) domain.Verdict {
	if len(draft.Candidates) == 0 {
		return domain.Verdict{
			Decision: domain.DecisionReject,
			Reasons:  []string{"draft has no candidates"},
		}
	}

	repaired := draft.Clone()
	var repairs []domain.Repair
	var reasons []string

	for _, field := range []string{fieldRanking, fieldTastingPosition} {
		planned, fieldReasons := sv.policy.Plan(field, fieldValues(repaired, field))
		if len(fieldReasons) > 0 {
			reasons = append(reasons, fieldReasons...)
			continue
		}
		for _, p := range planned {
			applyRepair(&repaired, field, p)
			repairs = append(repairs, domain.Repair{
				Candidate: repaired.Candidates[p.Candidate].Name,
				Field:     field,
				Value:     p.Value,
			})
		}
	}

	if len(reasons) == 0 {
		reasons = append(reasons, checkPlacements(repaired)...)
	}

	if len(reasons) > 0 {
		return domain.Verdict{Decision: domain.DecisionReject, Reasons: reasons}
	}
	if len(repairs) > 0 {
		return domain.Verdict{Decision: domain.DecisionRepairable, Draft: repaired, Repairs: repairs}
	}
	return domain.Verdict{Decision: domain.DecisionAccept, Draft: repaired}
}

// checkPlacements verifies the winner/eliminated invariant after any
// repairs: exactly one rank 1 and exactly one rank N when N > 1. With
// complete permutations this always holds; it still guards the case where
// a policy returns neither repairs nor reasons for an incomplete field.
func checkPlacements(draft domain.EpisodeDraft) []string {
	n := len(draft.Candidates)
	var winners, eliminated int
	for _, c := range draft.Candidates {
		if c.Ranking == nil {
			return []string{"candidate missing ranking after repair phase"}
		}
		if c.TastingPosition == nil {
			return []string{"candidate missing tasting_position after repair phase"}
		}
		switch *c.Ranking {
		case 1:
			winners++
		case n:
			eliminated++
		}
	}

	var reasons []string
	if winners != 1 {
		reasons = append(reasons, fmt.Sprintf("expected exactly one winner, found %d", winners))
	}
	if n > 1 && eliminated != 1 {
		reasons = append(reasons, fmt.Sprintf("expected exactly one eliminated candidate, found %d", eliminated))
	}
	return reasons
}

func fieldValues(draft domain.EpisodeDraft, field string) []*int {
	values := make([]*int, len(draft.Candidates))
	for i, c := range draft.Candidates {
		if field == fieldRanking {
			values[i] = c.Ranking
		} else {
			values[i] = c.TastingPosition
		}
	}
	return values
}

func applyRepair(draft *domain.EpisodeDraft, field string, p PlannedRepair) {
	value := p.Value
	if field == fieldRanking {
		draft.Candidates[p.Candidate].Ranking = &value
	} else {
		draft.Candidates[p.Candidate].TastingPosition = &value
	}
}
