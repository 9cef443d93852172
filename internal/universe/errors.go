// Copyright 2025 Certen Protocol

package universe

import "errors"

// Sentinel errors, wrapped with context at call sites and inspected with
// errors.Is, per the teacher's pkg/database/errors.go idiom.
var (
	// ErrParse covers malformed element strings (ParseError in the error
	// taxonomy of SPEC_FULL.md section 7).
	ErrParse = errors.New("universe: parse error")

	// ErrInvalidElement covers well-formed but out-of-domain elements: a
	// zero denominator, a degenerate triangle, an arity out of range.
	ErrInvalidElement = errors.New("universe: invalid element")

	// ErrUnknownUniverse covers an unrecognized universe name (SchemaError).
	ErrUnknownUniverse = errors.New("universe: unknown universe")
)
