// Copyright 2025 Certen Protocol
//
// The executor: SPEC_FULL.md section 4.5's propose/execute pipeline.
// Grounded on pkg/commitment's step-by-step hash chaining, generalized
// from "one transaction, one digest" to "one op, one step_digest, chained
// into a rolling accumulator seeded with SHA256(\"\")".
package executor

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/certen/semtrace/internal/digest"
	"github.com/certen/semtrace/internal/sig"
	"github.com/certen/semtrace/internal/trace"
	"github.com/certen/semtrace/internal/universe"
)

// Executor runs a parsed op list into a chained transcript.
type Executor struct {
	Bounds universe.Bounds
}

// New returns an Executor using the given universe bounds override (the
// zero Bounds resolves to the defaults at build time).
func New(bounds universe.Bounds) *Executor {
	return &Executor{Bounds: bounds}
}

// Summary reports the run's headline numbers, independent of the
// transcript bytes themselves.
type Summary struct {
	FinalChainHex string
	ElidedSteps   int
	FinalCount    int
}

// Run elides redundant SET_BIT ops, then executes the surviving op list,
// producing one Record per step with a hash-chained step_digest. On a
// fatal error (parse/schema/empty-set), Run returns the records emitted
// before the failing op alongside the error; no record is emitted for the
// failing op itself.
func (ex *Executor) Run(ops []trace.Op) ([]trace.Record, Summary, error) {
	committed, elidedCount, err := elide(ops, ex.Bounds)
	if err != nil {
		// The dry run hit the same fatal condition the committing run
		// will hit; fall back to the untouched op list so the committing
		// pass below reports the identical partial transcript.
		committed = ops
		elidedCount = 0
	}

	var st State
	chain := digest.Hash(nil)
	records := make([]trace.Record, 0, len(committed))

	for step, op := range committed {
		pre := snapshotPre(step, &st, chain)

		changed, applyErr := Apply(&st, op, ex.Bounds)
		_ = changed
		if applyErr != nil {
			return records, Summary{}, fmt.Errorf("step %d (%s): %w", step, op.Name, applyErr)
		}

		postDigest := st.SetDigest()
		postDigestHex := hex.EncodeToString(postDigest[:])
		post := trace.StepPost{
			SetDigest: postDigestHex,
			Count:     len(st.Candidates),
			Witness:   st.witnessString(),
		}

		argsRaw, encErr := trace.EncodeArgs(op.Args)
		if encErr != nil {
			return records, Summary{}, fmt.Errorf("step %d (%s): encoding args: %w", step, op.Name, encErr)
		}

		preimage, preErr := trace.EncodeStepPreimage(hex.EncodeToString(chain[:]), op.Name, op.Args, postDigestHex)
		if preErr != nil {
			return records, Summary{}, fmt.Errorf("step %d (%s): encoding preimage: %w", step, op.Name, preErr)
		}
		stepDigest := digest.Hash(preimage)

		records = append(records, trace.Record{
			Step:       step,
			Op:         op.Name,
			Args:       argsRaw,
			Pre:        pre,
			Post:       post,
			StepDigest: hex.EncodeToString(stepDigest[:]),
		})

		chain = stepDigest
	}

	return records, Summary{
		FinalChainHex: hex.EncodeToString(chain[:]),
		ElidedSteps:   elidedCount,
		FinalCount:    len(st.Candidates),
	}, nil
}

// snapshotPre builds the pre-state for step i. Step 0's pre is the
// defined "no set yet" state (nil digest, count 0); every later step's
// pre is the previous step's post, verbatim.
func snapshotPre(step int, st *State, chain [digest.Size]byte) trace.StepPre {
	if step == 0 {
		return trace.StepPre{SetDigest: nil, Count: 0, ConstraintMask: 0, ConstraintValue: 0}
	}
	d := st.SetDigest()
	hexDigest := hex.EncodeToString(d[:])
	return trace.StepPre{
		SetDigest:       &hexDigest,
		Count:           len(st.Candidates),
		ConstraintMask:  st.Constraint.Mask,
		ConstraintValue: st.Constraint.Value,
	}
}

// Apply is the single state-transition function shared by the committing
// run, the elision dry run, and the independent verifier replay. changed
// reports whether the candidate set differs from before the call
// (meaningful for SET_BIT, which is the only op elision ever drops).
func Apply(st *State, op trace.Op, bounds universe.Bounds) (changed bool, err error) {
	switch op.Name {
	case trace.OpSelectUniverse:
		return applySelectUniverse(st, op.Args.(trace.ArgsSelectUniverse), bounds)
	case trace.OpStartElem:
		return applyStartElem(st, op.Args.(trace.ArgsStartElem), bounds)
	case trace.OpSetBit:
		return applySetBit(st, op.Args.(trace.ArgsSetBit))
	case trace.OpFilterWeight:
		return applyFilterWeight(st, op.Args.(trace.ArgsFilterWeight))
	case trace.OpTopK:
		return applyTopK(st, op.Args.(trace.ArgsTopK))
	case trace.OpWitnessNearest:
		return applyWitnessNearest(st, op.Args.(trace.ArgsWitnessNearest))
	case trace.OpReturnSet:
		return false, nil
	default:
		return false, fmt.Errorf("%w: unknown op %q", trace.ErrSchema, op.Name)
	}
}

func applySelectUniverse(st *State, a trace.ArgsSelectUniverse, bounds universe.Bounds) (bool, error) {
	kind, err := universe.ParseKind(a.Universe)
	if err != nil {
		return false, fmt.Errorf("%w: %w", trace.ErrSchema, err)
	}
	if kind == universe.BoolFunKind && a.N == 0 {
		return false, fmt.Errorf("%w: SELECT_UNIVERSE BOOLFUN requires n", trace.ErrSchema)
	}
	if err := st.selectUniverse(kind, a.N, bounds); err != nil {
		return false, err
	}
	return true, nil
}

// applyStartElem resolves the live universe (if not already selected) by
// the string's own format, per universe.InferKind, then parses elem
// against it, resets the constraint/candidate set, and records the
// parsed element as the witness (SPEC_FULL.md section 4.4).
func applyStartElem(st *State, a trace.ArgsStartElem, bounds universe.Bounds) (bool, error) {
	inferred := universe.InferKind(a.Elem)

	if !st.Selected {
		n := uint8(0)
		if inferred == universe.BoolFunKind {
			parsed, err := universe.ParseBoolFun(a.Elem)
			if err != nil {
				return false, err
			}
			n = parsed.N
		}
		if err := st.selectUniverse(inferred, n, bounds); err != nil {
			return false, err
		}
	} else if inferred != st.Kind {
		return false, fmt.Errorf("%w: element %q does not match the live universe %s", trace.ErrSchema, a.Elem, st.Kind)
	}

	elem, err := universe.ParseElem(st.Kind, st.N, a.Elem)
	if err != nil {
		return false, err
	}

	st.Constraint = sig.Constraint{}
	st.Candidates = st.Full
	st.Witness = &elem
	return true, nil
}

func applySetBit(st *State, a trace.ArgsSetBit) (bool, error) {
	if !st.Selected {
		return false, fmt.Errorf("%w: SET_BIT before any universe is selected", trace.ErrSchema)
	}
	if a.I > 6 {
		return false, fmt.Errorf("%w: SET_BIT bit index %d out of range [0,6]", trace.ErrSchema, a.I)
	}
	before := st.Candidates
	st.Constraint = st.Constraint.SetBit(a.I, a.B)
	st.refilter()
	if len(st.Candidates) == 0 {
		return false, fmt.Errorf("%w: SET_BIT i=%d b=%t produced an empty candidate set", trace.ErrEmptySet, a.I, a.B)
	}
	return !candidatesEqual(before, st.Candidates), nil
}

func applyFilterWeight(st *State, a trace.ArgsFilterWeight) (bool, error) {
	if !st.Selected || st.Kind != universe.BoolFunKind {
		return false, fmt.Errorf("%w: FILTER_WEIGHT requires a BOOLFUN universe", trace.ErrSchema)
	}
	before := st.Candidates
	out := make([]universe.Elem, 0, len(st.Candidates))
	for _, e := range st.Candidates {
		w := e.B.Weight()
		if w >= a.Min && w <= a.Max {
			out = append(out, e)
		}
	}
	st.Candidates = out
	st.Witness = nil
	return !candidatesEqual(before, st.Candidates), nil
}

func applyTopK(st *State, a trace.ArgsTopK) (bool, error) {
	if !st.Selected || st.Kind != universe.BoolFunKind {
		return false, fmt.Errorf("%w: TOPK requires a BOOLFUN universe", trace.ErrSchema)
	}
	target, err := universe.ParseBoolFun(a.TargetElem)
	if err != nil {
		return false, err
	}
	if target.N != st.N {
		return false, fmt.Errorf("%w: TOPK target arity %d disagrees with live arity %d", trace.ErrSchema, target.N, st.N)
	}

	type scored struct {
		elem universe.Elem
		dist uint32
	}
	scoredElems := make([]scored, len(st.Candidates))
	for i, e := range st.Candidates {
		d, ok := universe.HammingDistance(e.B, target)
		if !ok {
			return false, fmt.Errorf("%w: TOPK candidate arity disagrees with target arity", trace.ErrSchema)
		}
		scoredElems[i] = scored{elem: e, dist: d}
	}
	sort.SliceStable(scoredElems, func(i, j int) bool {
		if scoredElems[i].dist != scoredElems[j].dist {
			return scoredElems[i].dist < scoredElems[j].dist
		}
		return scoredElems[i].elem.Cmp(scoredElems[j].elem) < 0
	})

	k := a.K
	if k < 0 {
		k = 0
	}
	if k > len(scoredElems) {
		k = len(scoredElems)
	}
	if k == 0 {
		st.Witness = nil
		return false, nil
	}
	st.Witness = &scoredElems[0].elem
	return false, nil
}

func applyWitnessNearest(st *State, a trace.ArgsWitnessNearest) (bool, error) {
	if !st.Selected {
		return false, fmt.Errorf("%w: WITNESS_NEAREST before any universe is selected", trace.ErrSchema)
	}
	if a.Metric != trace.MetricAbsDiff {
		return false, fmt.Errorf("%w: WITNESS_NEAREST metric %q is not supported", trace.ErrSchema, a.Metric)
	}
	if len(st.Candidates) == 0 {
		return false, fmt.Errorf("%w: WITNESS_NEAREST over an empty candidate set", trace.ErrEmptySet)
	}

	switch st.Kind {
	case universe.Rational:
		target, err := universe.ParseFrac(a.TargetElem)
		if err != nil {
			return false, err
		}
		fracs := make([]universe.Frac, len(st.Candidates))
		for i, e := range st.Candidates {
			fracs[i] = e.F
		}
		idx := nearestFrac(target, fracs)
		st.Witness = &st.Candidates[idx]
		return false, nil

	case universe.Triangle:
		targetTri, err := universe.ParseTri(a.TargetElem)
		if err != nil {
			return false, err
		}
		target := targetTri.ProjectToFrac()
		fracs := make([]universe.Frac, len(st.Candidates))
		for i, e := range st.Candidates {
			fracs[i] = e.T.ProjectToFrac()
		}
		idx := nearestFrac(target, fracs)
		st.Witness = &st.Candidates[idx]
		return false, nil

	default:
		return false, fmt.Errorf("%w: WITNESS_NEAREST requires a RATIONAL or TRIANGLE universe; use TOPK for BOOLFUN", trace.ErrSchema)
	}
}
