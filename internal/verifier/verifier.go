// Copyright 2025 Certen Protocol
//
// The replay verifier: an independent consumer of a transcript that never
// trusts the recorded pre/post/step_digest fields, recomputing every one
// of them from the op list alone and flagging the first field that
// disagrees (SPEC_FULL.md section 4.6). Grounded on
// pkg/verification.UnifiedVerifier's shape: a pass that walks a sequence
// once and reports a structured pass/fail rather than panicking on the
// first mismatch.
package verifier

import (
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/certen/semtrace/internal/digest"
	"github.com/certen/semtrace/internal/executor"
	"github.com/certen/semtrace/internal/trace"
	"github.com/certen/semtrace/internal/universe"
)

// Result is the verifier's verdict.
type Result struct {
	Valid bool

	// The following are populated only when Valid is false.
	FailedStep int    // index into the transcript
	Field      string // "step", "pre", "post", "step_digest", or an error class: "parse", "schema", "empty_set", "replay"
	Want       string
	Got        string
}

func mismatch(step int, field, want, got string) Result {
	return Result{Valid: false, FailedStep: step, Field: field, Want: want, Got: got}
}

// taxonomyField classifies a DecodeArgs/Apply failure into the field name
// reported on an INVALID verdict. A malformed or semantically-impossible
// step is exactly as invalid as a tampered digest (SPEC_FULL.md section
// 6: "intermediate exceptions are treated as INVALID with a
// diagnostic; they never cause a success") -- it is never propagated as
// a Go error out of Verify.
func taxonomyField(err error) string {
	switch {
	case errors.Is(err, trace.ErrEmptySet):
		return "empty_set"
	case errors.Is(err, trace.ErrParse):
		return "parse"
	case errors.Is(err, trace.ErrSchema):
		return "schema"
	default:
		return "replay"
	}
}

// Verify replays records against bounds and reports whether the
// transcript is internally consistent: every pre matches the prior
// post, every post matches what Apply actually produces for that op, and
// every step_digest matches the chain computed from scratch.
//
// Verify does not re-run redundancy elision: a transcript is the
// post-elision op list by construction (SPEC_FULL.md section 4.3), so the
// verifier replays records.Args directly, one record per step, with no
// collapsing of its own.
func Verify(records []trace.Record, bounds universe.Bounds) (Result, error) {
	var st executor.State
	chain := digest.Hash(nil)

	for step, rec := range records {
		if rec.Step != step {
			return mismatch(step, "step", fmt.Sprintf("%d", step), fmt.Sprintf("%d", rec.Step)), nil
		}

		wantPre := expectedPre(step, &st)
		if !preEqual(wantPre, rec.Pre) {
			return mismatch(step, "pre", formatPre(wantPre), formatPre(rec.Pre)), nil
		}

		args, err := trace.DecodeArgs(rec.Op, rec.Args)
		if err != nil {
			return mismatch(step, taxonomyField(err), "ok", err.Error()), nil
		}
		op := trace.Op{Name: rec.Op, Args: args}

		if _, err := executor.Apply(&st, op, bounds); err != nil {
			return mismatch(step, taxonomyField(err), "ok", err.Error()), nil
		}

		postDigest := st.SetDigest()
		postDigestHex := hex.EncodeToString(postDigest[:])
		wantPost := trace.StepPost{
			SetDigest: postDigestHex,
			Count:     len(st.Candidates),
			Witness:   witnessString(&st),
		}
		if !postEqual(wantPost, rec.Post) {
			return mismatch(step, "post", formatPost(wantPost), formatPost(rec.Post)), nil
		}

		preimage, err := trace.EncodeStepPreimage(hex.EncodeToString(chain[:]), rec.Op, args, postDigestHex)
		if err != nil {
			return Result{}, fmt.Errorf("step %d: %w", step, err)
		}
		stepDigest := digest.Hash(preimage)
		stepDigestHex := hex.EncodeToString(stepDigest[:])
		if stepDigestHex != rec.StepDigest {
			return mismatch(step, "step_digest", stepDigestHex, rec.StepDigest), nil
		}

		chain = stepDigest
	}

	return Result{Valid: true, FailedStep: -1}, nil
}

func expectedPre(step int, st *executor.State) trace.StepPre {
	if step == 0 {
		return trace.StepPre{SetDigest: nil, Count: 0}
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

func witnessString(st *executor.State) *string {
	if st.Witness == nil {
		return nil
	}
	w := st.Witness.String()
	return &w
}

func preEqual(a, b trace.StepPre) bool {
	if (a.SetDigest == nil) != (b.SetDigest == nil) {
		return false
	}
	if a.SetDigest != nil && *a.SetDigest != *b.SetDigest {
		return false
	}
	return a.Count == b.Count && a.ConstraintMask == b.ConstraintMask && a.ConstraintValue == b.ConstraintValue
}

func postEqual(a, b trace.StepPost) bool {
	if a.SetDigest != b.SetDigest || a.Count != b.Count {
		return false
	}
	if (a.Witness == nil) != (b.Witness == nil) {
		return false
	}
	if a.Witness != nil && *a.Witness != *b.Witness {
		return false
	}
	return true
}

func formatPre(p trace.StepPre) string {
	digestStr := "null"
	if p.SetDigest != nil {
		digestStr = *p.SetDigest
	}
	return fmt.Sprintf("{set_digest:%s count:%d mask:%d value:%d}", digestStr, p.Count, p.ConstraintMask, p.ConstraintValue)
}

func formatPost(p trace.StepPost) string {
	witnessStr := "null"
	if p.Witness != nil {
		witnessStr = *p.Witness
	}
	return fmt.Sprintf("{set_digest:%s count:%d witness:%s}", p.SetDigest, p.Count, witnessStr)
}
