// Copyright 2025 Certen Protocol
//
// Redundancy elision (SPEC_FULL.md section 4.3): a dry-run pass over the
// op list that drops any SET_BIT whose application leaves the candidate
// set unchanged, before the surviving ops are committed to the chained
// transcript. Testable property 6 requires that running with and without
// elision reach the same final post-set -- this pass is what lets the
// chain stay shorter without changing that final state.

package executor

import (
	"github.com/certen/semtrace/internal/trace"
	"github.com/certen/semtrace/internal/universe"
)

// elide returns the subset of ops that have an observable effect, plus the
// count of SET_BIT ops dropped as no-ops. It simulates the whole op list
// against a scratch State using the same state-transition function the
// committing run uses, so the two passes can never disagree about which
// ops are redundant.
func elide(ops []trace.Op, bounds universe.Bounds) ([]trace.Op, int, error) {
	var st State
	kept := make([]trace.Op, 0, len(ops))
	elided := 0

	for idx, op := range ops {
		if op.Name != trace.OpSetBit {
			if _, err := Apply(&st, op, bounds); err != nil {
				return nil, 0, err
			}
			kept = append(kept, op)
			continue
		}

		before := snapshotCandidates(st.Candidates)
		if _, err := Apply(&st, op, bounds); err != nil {
			return nil, 0, err
		}
		if candidatesEqual(before, st.Candidates) {
			elided++
			continue
		}
		kept = append(kept, op)
		_ = idx
	}
	return kept, elided, nil
}

func snapshotCandidates(elems []universe.Elem) []universe.Elem {
	out := make([]universe.Elem, len(elems))
	copy(out, elems)
	return out
}

func candidatesEqual(a, b []universe.Elem) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Cmp(b[i]) != 0 {
			return false
		}
	}
	return true
}
