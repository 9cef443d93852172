// Copyright 2025 Certen Protocol
//
// Predicate signatures and the constraint filter. Grounded on the
// per-universe bit legends of SPEC_FULL.md section 3, generalized with a
// third legend for the Boolean-function universe (the distilled spec
// only names rational and triangle legends; SET_BIT needs something to
// narrow on in BoolFun too, so this package adds a 7-bit legend there in
// the same spirit: cheap, orthogonal, total-domain predicates).
package sig

import (
	"github.com/certen/semtrace/internal/universe"
)

// Constraint is a (mask, value) pair over the 7-bit signature space. The
// invariant value &^ mask == 0 is maintained by SetBit and never violated
// by direct construction from this package.
type Constraint struct {
	Mask  uint8
	Value uint8
}

// SetBit widens mask to include bit i and writes b into that position of
// value. Mask only ever grows; re-setting an already-masked bit with a
// different value is permitted (and changes the filtered set), per
// SPEC_FULL.md section 4.3.
func (c Constraint) SetBit(i uint, b bool) Constraint {
	bit := uint8(1) << i
	out := Constraint{Mask: c.Mask | bit, Value: c.Value &^ bit}
	if b {
		out.Value |= bit
	}
	return out
}

// Matches reports whether signature s satisfies the constraint.
func (c Constraint) Matches(s uint8) bool {
	return s&c.Mask == c.Value&c.Mask
}

// Sig7 computes the 7-bit predicate signature for an element, per its
// universe's fixed legend.
func Sig7(e universe.Elem) uint8 {
	switch e.Kind {
	case universe.Rational:
		return sig7Rational(e.F)
	case universe.Triangle:
		return sig7Triangle(e.T)
	case universe.BoolFunKind:
		return sig7BoolFun(e.B)
	default:
		panic("sig: invalid element kind")
	}
}

// Rational bit legend (SPEC_FULL.md section 3):
//
//	0: numerator > 0
//	1: always 1 (reserved/placeholder -- see the "rat_int" open question
//	   in SPEC_FULL.md section 9; kept constant for wire compatibility)
//	2: denominator <= 6
//	3: numerator even
//	4: denominator divisible by 3
//	5: proper (|num| < den)
//	6: |num| <= 5
func sig7Rational(f universe.Frac) uint8 {
	var s uint8
	if f.Num > 0 {
		s |= 1 << 0
	}
	s |= 1 << 1 // bit 1 is the constant placeholder; never redefine it.
	if f.Den <= 6 {
		s |= 1 << 2
	}
	if f.Num%2 == 0 {
		s |= 1 << 3
	}
	if f.Den%3 == 0 {
		s |= 1 << 4
	}
	absNum := int64(f.Num)
	if absNum < 0 {
		absNum = -absNum
	}
	if absNum < int64(f.Den) {
		s |= 1 << 5
	}
	if absNum <= 5 {
		s |= 1 << 6
	}
	return s
}

// Triangle bit legend (SPEC_FULL.md section 3):
//
//	0: perimeter <= 20
//	1: isosceles
//	2: equilateral
//	3: primitive (gcd == 1)
//	4: right (a^2+b^2 == c^2)
//	5: acute (a^2+b^2 > c^2)
//	6: obtuse (a^2+b^2 < c^2)
func sig7Triangle(t universe.Tri) uint8 {
	var s uint8
	if t.Perimeter() <= 20 {
		s |= 1 << 0
	}
	if t.IsIsosceles() {
		s |= 1 << 1
	}
	if t.IsEquilateral() {
		s |= 1 << 2
	}
	if t.IsPrimitive() {
		s |= 1 << 3
	}
	if t.IsRight() {
		s |= 1 << 4
	}
	if t.IsAcute() {
		s |= 1 << 5
	}
	if t.IsObtuse() {
		s |= 1 << 6
	}
	return s
}

// BoolFun bit legend (ADDED, SPEC_FULL.md section 3):
//
//	0: weight <= half of live width (2^(n-1))
//	1: weight is odd
//	2: self-dual under input negation: f(~x) == ~f(x) on live bits
//	3: monotone: f(x) <= f(y) whenever x's live input bits are a subset of y's
//	4: balanced: weight == 2^(n-1) exactly
//	5: depends on bit 0 of the input (even/odd-indexed output halves differ)
//	6: palindromic table (table reversed over live width equals table)
func sig7BoolFun(b universe.BoolFun) uint8 {
	var s uint8
	width := uint64(1) << b.N
	mask := b.LiveMask()
	weight := b.Weight()

	if uint64(weight)*2 <= width {
		s |= 1 << 0
	}
	if weight%2 == 1 {
		s |= 1 << 1
	}
	if isSelfDual(b, mask, width) {
		s |= 1 << 2
	}
	if isMonotone(b, width) {
		s |= 1 << 3
	}
	if uint64(weight)*2 == width {
		s |= 1 << 4
	}
	if dependsOnBit0(b, width) {
		s |= 1 << 5
	}
	if isPalindromic(b, mask, width) {
		s |= 1 << 6
	}
	return s
}

func bitAt(table uint64, i uint64) uint64 {
	return (table >> i) & 1
}

// isSelfDual reports f(~x) == ~f(x) for every live input x.
func isSelfDual(b universe.BoolFun, mask, width uint64) bool {
	for x := uint64(0); x < width; x++ {
		negX := (^x) & (width - 1)
		if bitAt(b.Table, x) == bitAt(b.Table, negX) {
			return false
		}
	}
	_ = mask
	return true
}

// isMonotone reports f(x) <= f(y) whenever x's live input bits are a
// (bitwise) subset of y's, checked over every comparable pair.
func isMonotone(b universe.BoolFun, width uint64) bool {
	for x := uint64(0); x < width; x++ {
		for y := uint64(0); y < width; y++ {
			if x&y == x { // x subset of y
				if bitAt(b.Table, x) > bitAt(b.Table, y) {
					return false
				}
			}
		}
	}
	return true
}

// dependsOnBit0 reports whether the even-indexed and odd-indexed halves
// of the table differ, i.e. the function's value changes with input 0.
func dependsOnBit0(b universe.BoolFun, width uint64) bool {
	for x := uint64(0); x+1 < width; x += 2 {
		if bitAt(b.Table, x) != bitAt(b.Table, x+1) {
			return true
		}
	}
	return false
}

// isPalindromic reports whether the live-width table, read as a bit
// string, equals its own reversal.
func isPalindromic(b universe.BoolFun, mask, width uint64) bool {
	for i := uint64(0); i < width; i++ {
		j := width - 1 - i
		if bitAt(b.Table, i) != bitAt(b.Table, j) {
			return false
		}
	}
	_ = mask
	return true
}

// Filter returns the elements of universe whose signature matches c, in
// the order given (callers pass elements already in canonical order, so
// the result stays in canonical order with no duplicates, per
// SPEC_FULL.md section 4.3 / testable property 1).
func Filter(elems []universe.Elem, c Constraint) []universe.Elem {
	out := make([]universe.Elem, 0, len(elems))
	for _, e := range elems {
		if c.Matches(Sig7(e)) {
			out = append(out, e)
		}
	}
	return out
}
