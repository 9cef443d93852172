// Copyright 2025 Certen Protocol
//
// Run identifiers: a thin wrapper over google/uuid, grounded on the
// teacher's use of that package for validator/attestation/batch IDs
// throughout pkg/database and pkg/batch. SPEC_FULL.md section 3.1: the
// run ID is metadata alongside the transcript, never an input to any
// digest.
package runid

import "github.com/google/uuid"

// New returns a fresh run identifier in canonical UUID string form.
func New() string {
	return uuid.New().String()
}
