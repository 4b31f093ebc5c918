package validation

import (
	"fmt"
	"sort"
)

// PlannedRepair is a policy's proposed fix: set candidate index Candidate's
// positional field to Value.
type PlannedRepair struct {
	Candidate int
	Value     int
}

// RepairPolicy decides whether a broken 1..N positional field (rankings or
// tasting positions) can be repaired. Separating the policy from the
// validator lets alternative repair rules swap in without touching the
// invariant checks.
type RepairPolicy interface {
	// Name identifies the policy in logs and flags.
	Name() string

	// Plan examines the field's values, one per candidate with nil for
	// missing, and returns either the repairs that complete the 1..N
	// permutation or the reasons none exist.
	Plan(field string, values []*int) ([]PlannedRepair, []string)
}

// UniqueGapPolicy repairs a positional field only when exactly one value is
// missing and the present values uniquely determine it: N candidates, N-1
// distinct in-range values covering all of 1..N but one. Anything else,
// including any duplicate, is unrepairable.
type UniqueGapPolicy struct{}

// Name implements RepairPolicy.
func (UniqueGapPolicy) Name() string { return "unique-gap" }

// Plan implements RepairPolicy.
func (UniqueGapPolicy) Plan(field string, values []*int) ([]PlannedRepair, []string) {
	n := len(values)
	seen := make(map[int][]int, n)
	var missing []int

	for i, v := range values {
		if v == nil {
			missing = append(missing, i)
			continue
		}
		seen[*v] = append(seen[*v], i)
	}

	var reasons []string
	for value, holders := range seen {
		if len(holders) > 1 {
			reasons = append(reasons, fmt.Sprintf("duplicate %s %d held by %d candidates", field, value, len(holders)))
		}
		if value < 1 || value > n {
			reasons = append(reasons, fmt.Sprintf("%s %d out of range 1..%d", field, value, n))
		}
	}
	sort.Strings(reasons)
	if len(reasons) > 0 {
		return nil, reasons
	}

	switch len(missing) {
	case 0:
		// A full set of distinct in-range values is a permutation;
		// nothing to plan.
		return nil, nil
	case 1:
		for want := 1; want <= n; want++ {
			if _, ok := seen[want]; !ok {
				return []PlannedRepair{{Candidate: missing[0], Value: want}}, nil
			}
		}
		return nil, []string{fmt.Sprintf("no gap found for missing %s", field)}
	default:
		return nil, []string{fmt.Sprintf("%d candidates missing %s, gap not uniquely inferable", len(missing), field)}
	}
}

// StrictPolicy never repairs. Every incomplete or duplicated field is a
// rejection.
type StrictPolicy struct{}

// Name implements RepairPolicy.
func (StrictPolicy) Name() string { return "strict" }

// Plan implements RepairPolicy.
func (StrictPolicy) Plan(field string, values []*int) ([]PlannedRepair, []string) {
	n := len(values)
	seen := make(map[int]int, n)
	var reasons []string

	for _, v := range values {
		if v == nil {
			reasons = append(reasons, fmt.Sprintf("missing %s", field))
			continue
		}
		seen[*v]++
		if *v < 1 || *v > n {
			reasons = append(reasons, fmt.Sprintf("%s %d out of range 1..%d", field, *v, n))
		}
	}
	for value, count := range seen {
		if count > 1 {
			reasons = append(reasons, fmt.Sprintf("duplicate %s %d held by %d candidates", field, value, count))
		}
	}
	sort.Strings(reasons)
	return nil, reasons
}
