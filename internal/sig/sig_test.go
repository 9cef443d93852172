// Copyright 2025 Certen Protocol

package sig

import (
	"testing"

	"github.com/certen/semtrace/internal/universe"
)

func TestConstraint_SetBitWidensMaskAndWritesValue(t *testing.T) {
	var c Constraint
	c = c.SetBit(2, true)
	if c.Mask != 0b100 || c.Value != 0b100 {
		t.Fatalf("SetBit(2,true) = %+v", c)
	}
	c = c.SetBit(5, false)
	if c.Mask != 0b100100 || c.Value != 0b100 {
		t.Fatalf("SetBit(5,false) = %+v", c)
	}
}

func TestConstraint_SetBitOverwritesSameBit(t *testing.T) {
	var c Constraint
	c = c.SetBit(0, true)
	c = c.SetBit(0, false)
	if c.Mask != 0b1 || c.Value != 0 {
		t.Fatalf("re-setting bit 0 = %+v, want mask=1 value=0", c)
	}
}

func TestConstraint_Matches(t *testing.T) {
	c := Constraint{Mask: 0b101, Value: 0b001}
	if !c.Matches(0b11001) {
		t.Fatal("0b11001 should match mask=101 value=001 (bits 0,2 matter)")
	}
	if c.Matches(0b00100) {
		t.Fatal("0b00100 should not match (bit 0 differs)")
	}
}

func TestFilter_PreservesOrderAndDrops(t *testing.T) {
	a, _ := universe.NewFrac(1, 1)  // num>0
	b, _ := universe.NewFrac(-1, 1) // num<0
	elems := []universe.Elem{universe.FromFrac(a), universe.FromFrac(b)}

	c := Constraint{}.SetBit(0, true) // bit 0: numerator > 0
	out := Filter(elems, c)
	if len(out) != 1 || out[0].F != a {
		t.Fatalf("Filter kept %+v, want only %v", out, a)
	}
}

func TestSig7BoolFun_ConstantZeroIsMonotoneAndSelfDualFalse(t *testing.T) {
	f, _ := universe.NewBoolFun(2, 0)
	s := sig7BoolFun(f)
	if s&(1<<3) == 0 {
		t.Fatal("the all-zero function should be monotone")
	}
	if s&(1<<2) != 0 {
		t.Fatal("the all-zero function is not self-dual (f(~x) != ~f(x))")
	}
}

func TestSig7BoolFun_Palindromic(t *testing.T) {
	// n=2, table 0b0110 reversed over width 4 is itself.
	f, _ := universe.NewBoolFun(2, 0b0110)
	s := sig7BoolFun(f)
	if s&(1<<6) == 0 {
		t.Fatal("0b0110 should be palindromic over width 4")
	}
}

func TestSig7Triangle_RightTriangleBits(t *testing.T) {
	tr, _ := universe.NewTri(3, 4, 5)
	s := sig7Triangle(tr)
	if s&(1<<4) == 0 {
		t.Fatal("3,4,5 should have the right-triangle bit set")
	}
	if s&(1<<5) != 0 || s&(1<<6) != 0 {
		t.Fatal("3,4,5 should not have the acute or obtuse bits set")
	}
}
