// Copyright 2025 Certen Protocol

package verifier

import (
	"testing"

	"github.com/certen/semtrace/internal/executor"
	"github.com/certen/semtrace/internal/trace"
	"github.com/certen/semtrace/internal/universe"
)

func sampleOps() []trace.Op {
	return []trace.Op{
		{Name: trace.OpSelectUniverse, Args: trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}},
		{Name: trace.OpSetBit, Args: trace.ArgsSetBit{I: 1, B: true}},
		{Name: trace.OpTopK, Args: trace.ArgsTopK{TargetElem: "bin:00000000", K: 2}},
	}
}

func TestVerify_ValidTranscriptRoundTrips(t *testing.T) {
	bounds := universe.DefaultBounds()
	ex := executor.New(bounds)
	records, _, err := ex.Run(sampleOps())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Valid {
		t.Fatalf("expected Valid, got %+v", result)
	}
}

func TestVerify_TamperedPostCountIsDetected(t *testing.T) {
	bounds := universe.DefaultBounds()
	ex := executor.New(bounds)
	records, _, err := ex.Run(sampleOps())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	records[1].Post.Count += 1

	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an INVALID verdict for a tampered post.count")
	}
	if result.FailedStep != 1 {
		t.Fatalf("FailedStep = %d, want 1", result.FailedStep)
	}
	if result.Field != "post" {
		t.Fatalf("Field = %q, want \"post\"", result.Field)
	}
}

func TestVerify_TamperedStepDigestIsDetected(t *testing.T) {
	bounds := universe.DefaultBounds()
	ex := executor.New(bounds)
	records, _, err := ex.Run(sampleOps())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	records[0].StepDigest = "0000000000000000000000000000000000000000000000000000000000000000"

	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an INVALID verdict for a tampered step_digest")
	}
	if result.FailedStep != 0 || result.Field != "step_digest" {
		t.Fatalf("got step=%d field=%q, want step=0 field=\"step_digest\"", result.FailedStep, result.Field)
	}
}

func TestVerify_TamperedArgsAreDetectedAtTheirStep(t *testing.T) {
	bounds := universe.DefaultBounds()
	ex := executor.New(bounds)
	records, _, err := ex.Run(sampleOps())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	tampered, err := trace.EncodeArgs(trace.ArgsSetBit{I: 1, B: false})
	if err != nil {
		t.Fatalf("EncodeArgs: %v", err)
	}
	records[1].Args = tampered

	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an INVALID verdict for tampered args")
	}
	if result.FailedStep != 1 {
		t.Fatalf("FailedStep = %d, want 1", result.FailedStep)
	}
}

func TestVerify_UnknownOpIsInvalidNotError(t *testing.T) {
	bounds := universe.DefaultBounds()
	ex := executor.New(bounds)
	records, _, err := ex.Run(sampleOps())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	records[1].Op = "BOGUS_OP"

	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify returned an error instead of an INVALID verdict: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an INVALID verdict for an unknown op")
	}
	if result.FailedStep != 1 || result.Field != "schema" {
		t.Fatalf("got step=%d field=%q, want step=1 field=\"schema\"", result.FailedStep, result.Field)
	}
}

func TestVerify_MalformedArgsIsInvalidNotError(t *testing.T) {
	bounds := universe.DefaultBounds()
	ex := executor.New(bounds)
	records, _, err := ex.Run(sampleOps())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	records[1].Args = []byte(`{not valid json`)

	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify returned an error instead of an INVALID verdict: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an INVALID verdict for malformed args")
	}
	if result.FailedStep != 1 || result.Field != "parse" {
		t.Fatalf("got step=%d field=%q, want step=1 field=\"parse\"", result.FailedStep, result.Field)
	}
}

func TestVerify_EmptySetDuringReplayIsInvalidNotError(t *testing.T) {
	bounds := universe.DefaultBounds()
	ops := []trace.Op{
		{Name: trace.OpSelectUniverse, Args: trace.ArgsSelectUniverse{Universe: "RATIONAL"}},
		{Name: trace.OpSetBit, Args: trace.ArgsSetBit{I: 0, B: true}}, // numerator > 0
		{Name: trace.OpSetBit, Args: trace.ArgsSetBit{I: 2, B: true}}, // denominator <= 6
	}
	ex := executor.New(bounds)
	records, _, err := ex.Run(ops)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// Bit 1 of the rational signature is a constant placeholder, always
	// 1 -- requiring it false is unsatisfiable by any element, so this
	// reliably reproduces an EMPTY_SET during replay regardless of the
	// preceding constraint state.
	tampered, err := trace.EncodeArgs(trace.ArgsSetBit{I: 1, B: false})
	if err != nil {
		t.Fatalf("EncodeArgs: %v", err)
	}
	records[2].Args = tampered

	result, err := Verify(records, bounds)
	if err != nil {
		t.Fatalf("Verify returned an error instead of an INVALID verdict: %v", err)
	}
	if result.Valid {
		t.Fatal("expected an INVALID verdict for an EMPTY_SET during replay")
	}
	if result.FailedStep != 2 || result.Field != "empty_set" {
		t.Fatalf("got step=%d field=%q, want step=2 field=\"empty_set\"", result.FailedStep, result.Field)
	}
}

func TestVerify_EmptyTranscriptIsValid(t *testing.T) {
	result, err := Verify(nil, universe.DefaultBounds())
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Valid {
		t.Fatal("an empty transcript has nothing to disagree about, expected Valid")
	}
}
