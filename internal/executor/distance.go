// Copyright 2025 Certen Protocol
//
// WITNESS_NEAREST's cross-multiply distance (SPEC_FULL.md section 4.4):
// distance between target a/b and candidate c/d is the pair (|ad-bc|,
// bd), compared as a fraction A/B via cross-multiply so no float ever
// enters the comparison. Triangles are projected to a/c first.

package executor

import "github.com/certen/semtrace/internal/universe"

// fracDistance is a nonnegative distance expressed as an unreduced
// fraction A/B (B is always positive): a smaller A/B is nearer.
type fracDistance struct {
	A int64 // |ad - bc|
	B int64 // bd, always positive
}

func distanceOf(target, candidate universe.Frac) fracDistance {
	a := int64(target.Num)*int64(candidate.Den) - int64(candidate.Num)*int64(target.Den)
	if a < 0 {
		a = -a
	}
	b := int64(target.Den) * int64(candidate.Den)
	return fracDistance{A: a, B: b}
}

// less reports whether d is strictly nearer than o, comparing A/B via
// cross-multiply (both B values are positive, so sign is invariant).
func (d fracDistance) less(o fracDistance) bool {
	return d.A*o.B < o.A*d.B
}

func (d fracDistance) equal(o fracDistance) bool {
	return d.A*o.B == o.A*d.B
}

// nearestFrac returns the index into candidates of the element nearest
// target, breaking ties by (|numerator| ascending, denominator ascending,
// canonical order) per SPEC_FULL.md section 4.4. candidates must be
// non-empty.
func nearestFrac(target universe.Frac, candidates []universe.Frac) int {
	best := 0
	bestDist := distanceOf(target, candidates[0])
	for i := 1; i < len(candidates); i++ {
		d := distanceOf(target, candidates[i])
		switch {
		case d.less(bestDist):
			best, bestDist = i, d
		case d.equal(bestDist):
			if fracTieLess(candidates[i], candidates[best]) {
				best, bestDist = i, d
			}
		}
	}
	return best
}

func fracTieLess(f, g universe.Frac) bool {
	af, ag := absInt32(f.Num), absInt32(g.Num)
	if af != ag {
		return af < ag
	}
	if f.Den != g.Den {
		return f.Den < g.Den
	}
	return f.Cmp(g) < 0
}

func absInt32(x int32) int32 {
	if x < 0 {
		return -x
	}
	return x
}
