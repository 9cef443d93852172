// Copyright 2025 Certen Protocol
//
// Error taxonomy per SPEC_FULL.md section 7, in the teacher's
// pkg/database/errors.go idiom: package-level sentinels, wrapped with
// fmt.Errorf("...: %w", ...) at call sites, inspected with errors.Is.

package trace

import "errors"

var (
	// ErrParse: malformed op, malformed element, or bad argument keys/values.
	ErrParse = errors.New("trace: parse error")

	// ErrSchema: unsupported metric, unknown universe, arity mismatch,
	// unknown op.
	ErrSchema = errors.New("trace: schema error")

	// ErrEmptySet: SET_BIT produced an empty candidate set.
	ErrEmptySet = errors.New("trace: empty set")

	// ErrReplayMismatch: a verifier field disagreement.
	ErrReplayMismatch = errors.New("trace: replay mismatch")

	// ErrIO: transcript read/write failure.
	ErrIO = errors.New("trace: io error")
)
