// Copyright 2025 Certen Protocol
//
// Executor state: SPEC_FULL.md section 3 ("State"). The live universe is
// built once per universe switch and never mutated; the candidate set and
// witness are mutated per op.

package executor

import (
	"github.com/certen/semtrace/internal/digest"
	"github.com/certen/semtrace/internal/sig"
	"github.com/certen/semtrace/internal/universe"
)

// State is the executor's (and the verifier's shadow) live state.
type State struct {
	Selected   bool
	Kind       universe.Kind
	N          uint8
	Full       []universe.Elem // the full live universe, canonical order
	Candidates []universe.Elem // current candidate set, canonical order
	Constraint sig.Constraint
	Witness    *universe.Elem
}

// leafHashes projects elements to Merkle leaves in order.
func leafHashes(elems []universe.Elem) [][digest.Size]byte {
	out := make([][digest.Size]byte, len(elems))
	for i, e := range elems {
		out[i] = digest.Hash(e.Encode())
	}
	return out
}

// SetDigest returns the Merkle root of the current candidate set.
func (s *State) SetDigest() [digest.Size]byte {
	return digest.MerkleRoot(leafHashes(s.Candidates))
}

// selectUniverse rebuilds Full/Candidates for kind k (arity n for
// BoolFun), resets the constraint, and clears the witness.
func (s *State) selectUniverse(k universe.Kind, n uint8, bounds universe.Bounds) error {
	full, err := universe.Build(k, n, bounds)
	if err != nil {
		return err
	}
	s.Selected = true
	s.Kind = k
	s.N = n
	s.Full = full
	s.Candidates = full
	s.Constraint = sig.Constraint{}
	s.Witness = nil
	return nil
}

// refilter recomputes Candidates as filter(Full, Constraint), per
// testable property 1.
func (s *State) refilter() {
	s.Candidates = sig.Filter(s.Full, s.Constraint)
}

// witnessString renders the current witness in canonical form, or nil if
// absent.
func (s *State) witnessString() *string {
	if s.Witness == nil {
		return nil
	}
	str := s.Witness.String()
	return &str
}
