// Copyright 2025 Certen Protocol

package executor

import (
	"testing"

	"github.com/certen/semtrace/internal/trace"
	"github.com/certen/semtrace/internal/universe"
)

func op(name string, args interface{}) trace.Op {
	return trace.Op{Name: name, Args: args}
}

func TestRun_SelectUniverseThenFilterWeight(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 4}),
		op(trace.OpFilterWeight, trace.ArgsFilterWeight{Min: 1, Max: 3}),
	}
	ex := New(universe.DefaultBounds())
	records, summary, err := ex.Run(ops)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	want := 0
	funs, _ := universe.BuildBoolFuns(4)
	for _, f := range funs {
		w := f.Weight()
		if w >= 1 && w <= 3 {
			want++
		}
	}
	if records[1].Post.Count != want {
		t.Fatalf("post count after FILTER_WEIGHT = %d, want %d", records[1].Post.Count, want)
	}
	if summary.FinalCount != want {
		t.Fatalf("summary.FinalCount = %d, want %d", summary.FinalCount, want)
	}
}

func TestRun_FirstStepPreIsNull(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "RATIONAL"}),
	}
	ex := New(universe.DefaultBounds())
	records, _, err := ex.Run(ops)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if records[0].Pre.SetDigest != nil {
		t.Fatal("step 0's pre.set_digest should be nil")
	}
}

func TestRun_SetBitEmptySetAborts(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "TRIANGLE"}),
		// Every triangle in the default bound fails to be both equilateral
		// (bit 2) and right (bit 4) at once.
		op(trace.OpSetBit, trace.ArgsSetBit{I: 2, B: true}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 4, B: true}),
	}
	ex := New(universe.DefaultBounds())
	records, _, err := ex.Run(ops)
	if err == nil {
		t.Fatal("expected an EMPTY_SET error")
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 committed records before the abort, got %d", len(records))
	}
}

func TestRun_ChainDependsOnConstraintValue(t *testing.T) {
	opsA := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: true}),
	}
	opsB := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: false}),
	}
	ex := New(universe.DefaultBounds())
	_, sa, err := ex.Run(opsA)
	if err != nil {
		t.Fatalf("Run A: %v", err)
	}
	_, sb, err := ex.Run(opsB)
	if err != nil {
		t.Fatalf("Run B: %v", err)
	}
	if sa.FinalChainHex == sb.FinalChainHex {
		t.Fatal("different constraints should produce different final chains")
	}
}

func TestRun_RedundantSetBitIsElided(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: true}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: true}), // no-op: already true
	}
	ex := New(universe.DefaultBounds())
	records, summary, err := ex.Run(ops)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.ElidedSteps != 1 {
		t.Fatalf("ElidedSteps = %d, want 1", summary.ElidedSteps)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (SELECT_UNIVERSE + one SET_BIT)", len(records))
	}
}

func TestRun_ElisionDoesNotChangeFinalPostSet(t *testing.T) {
	withRedundant := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: true}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: true}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 0, B: false}),
	}
	without := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 1, B: true}),
		op(trace.OpSetBit, trace.ArgsSetBit{I: 0, B: false}),
	}
	ex := New(universe.DefaultBounds())
	_, sw, err := ex.Run(withRedundant)
	if err != nil {
		t.Fatalf("Run with redundant op: %v", err)
	}
	_, so, err := ex.Run(without)
	if err != nil {
		t.Fatalf("Run without redundant op: %v", err)
	}
	if sw.FinalCount != so.FinalCount {
		t.Fatalf("final counts diverge: %d vs %d", sw.FinalCount, so.FinalCount)
	}
}

func TestRun_WitnessNearestRational(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "RATIONAL"}),
		op(trace.OpWitnessNearest, trace.ArgsWitnessNearest{TargetElem: "1/3", Metric: trace.MetricAbsDiff}),
	}
	ex := New(universe.DefaultBounds())
	records, _, err := ex.Run(ops)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	w := records[1].Post.Witness
	if w == nil {
		t.Fatal("expected a witness")
	}
	// 1/3 is itself in the default box, so it should be its own nearest.
	f, err := universe.ParseFrac(*w)
	if err != nil {
		t.Fatalf("ParseFrac(%q): %v", *w, err)
	}
	want, _ := universe.NewFrac(1, 3)
	if !f.Equal(want) {
		t.Fatalf("witness %v, want 1/3", f)
	}
}

func TestRun_TopKSetsWitnessWithoutChangingSet(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "BOOLFUN", N: 3}),
		op(trace.OpTopK, trace.ArgsTopK{TargetElem: "bin:00000000", K: 3}),
	}
	ex := New(universe.DefaultBounds())
	records, _, err := ex.Run(ops)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if records[1].Post.Count != records[0].Post.Count {
		t.Fatalf("TOPK should not change the candidate count: %d vs %d", records[1].Post.Count, records[0].Post.Count)
	}
	if records[1].Post.Witness == nil {
		t.Fatal("expected a witness after TOPK")
	}
}

func TestRun_UnknownUniverseIsFatal(t *testing.T) {
	ops := []trace.Op{
		op(trace.OpSelectUniverse, trace.ArgsSelectUniverse{Universe: "NONSENSE"}),
	}
	ex := New(universe.DefaultBounds())
	if _, _, err := ex.Run(ops); err == nil {
		t.Fatal("expected a schema error for an unknown universe name")
	}
}
