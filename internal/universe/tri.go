// Copyright 2025 Certen Protocol

package universe

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Tri is a triangle element: three positive integer sides stored sorted
// a <= b <= c, satisfying the strict triangle inequality a+b > c.
type Tri struct {
	A, B, C int32
}

// NewTri sorts the three sides and validates the strict triangle
// inequality.
func NewTri(a, b, c int64) (Tri, error) {
	if a <= 0 || b <= 0 || c <= 0 {
		return Tri{}, fmt.Errorf("%w: triangle sides must be positive", ErrInvalidElement)
	}
	s := []int64{a, b, c}
	sort.Slice(s, func(i, j int) bool { return s[i] < s[j] })
	if s[0]+s[1] <= s[2] {
		return Tri{}, fmt.Errorf("%w: sides %d,%d,%d fail the strict triangle inequality", ErrInvalidElement, a, b, c)
	}
	for _, v := range s {
		if v > maxInt32 {
			return Tri{}, fmt.Errorf("%w: side %d overflows 32-bit encoding", ErrInvalidElement, v)
		}
	}
	return Tri{A: int32(s[0]), B: int32(s[1]), C: int32(s[2])}, nil
}

// Perimeter returns a+b+c widened to 64-bit.
func (t Tri) Perimeter() int64 {
	return int64(t.A) + int64(t.B) + int64(t.C)
}

// Cmp implements the canonical order: perimeter ascending, then a, b, c
// lexicographically.
func (t Tri) Cmp(u Tri) int {
	if d := cmpInt64(t.Perimeter(), u.Perimeter()); d != 0 {
		return d
	}
	if d := cmpInt64(int64(t.A), int64(u.A)); d != 0 {
		return d
	}
	if d := cmpInt64(int64(t.B), int64(u.B)); d != 0 {
		return d
	}
	return cmpInt64(int64(t.C), int64(u.C))
}

// Encode produces the canonical 12-byte form: a,b,c each big-endian
// 32-bit signed.
func (t Tri) Encode() [12]byte {
	var out [12]byte
	binary.BigEndian.PutUint32(out[0:4], uint32(t.A))
	binary.BigEndian.PutUint32(out[4:8], uint32(t.B))
	binary.BigEndian.PutUint32(out[8:12], uint32(t.C))
	return out
}

// DecodeTri reverses Encode.
func DecodeTri(b [12]byte) Tri {
	return Tri{
		A: int32(binary.BigEndian.Uint32(b[0:4])),
		B: int32(binary.BigEndian.Uint32(b[4:8])),
		C: int32(binary.BigEndian.Uint32(b[8:12])),
	}
}

// String renders the canonical "a,b,c" form.
func (t Tri) String() string {
	return strconv.FormatInt(int64(t.A), 10) + "," + strconv.FormatInt(int64(t.B), 10) + "," + strconv.FormatInt(int64(t.C), 10)
}

// ParseTri parses the "a,b,c" form.
func ParseTri(s string) (Tri, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Tri{}, fmt.Errorf("%w: triangle %q must have exactly 3 comma-separated sides", ErrParse, s)
	}
	vals := make([]int64, 3)
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return Tri{}, fmt.Errorf("%w: triangle side %q: %v", ErrParse, p, err)
		}
		vals[i] = v
	}
	t, err := NewTri(vals[0], vals[1], vals[2])
	if err != nil {
		return Tri{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return t, nil
}

// DefaultTriangleBound is the universe bound B from SPEC_FULL.md section 4.2.
const DefaultTriangleBound int32 = 20

// BuildTriangles materializes every triangle with sides in [1, bound]
// satisfying the strict triangle inequality, sorted canonically.
func BuildTriangles(bound int32) []Tri {
	out := make([]Tri, 0, 1024)
	for a := int32(1); a <= bound; a++ {
		for b := a; b <= bound; b++ {
			for c := b; c <= bound; c++ {
				if a+b > c {
					out = append(out, Tri{A: a, B: b, C: c})
				}
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}

// IsRight reports whether a^2 + b^2 == c^2 exactly.
func (t Tri) IsRight() bool {
	return int64(t.A)*int64(t.A)+int64(t.B)*int64(t.B) == int64(t.C)*int64(t.C)
}

// IsAcute reports whether a^2 + b^2 > c^2 (the largest angle is acute).
func (t Tri) IsAcute() bool {
	return int64(t.A)*int64(t.A)+int64(t.B)*int64(t.B) > int64(t.C)*int64(t.C)
}

// IsObtuse reports whether a^2 + b^2 < c^2 (the largest angle is obtuse).
func (t Tri) IsObtuse() bool {
	return int64(t.A)*int64(t.A)+int64(t.B)*int64(t.B) < int64(t.C)*int64(t.C)
}

// IsIsosceles reports whether at least two sides are equal.
func (t Tri) IsIsosceles() bool {
	return t.A == t.B || t.B == t.C || t.A == t.C
}

// IsEquilateral reports whether all three sides are equal.
func (t Tri) IsEquilateral() bool {
	return t.A == t.B && t.B == t.C
}

// IsPrimitive reports whether gcd(a,b,c) == 1.
func (t Tri) IsPrimitive() bool {
	g := gcd64(int64(t.A), int64(t.B))
	g = gcd64(g, int64(t.C))
	return g == 1
}

// ProjectToFrac projects the triangle to the rational a/c, used by
// WITNESS_NEAREST's triangle metric (SPEC_FULL.md section 4.4).
func (t Tri) ProjectToFrac() Frac {
	f, err := NewFrac(int64(t.A), int64(t.C))
	if err != nil {
		// a, c are both positive and within 32-bit range by construction;
		// NewFrac can only fail on these inputs if that invariant breaks.
		panic(fmt.Sprintf("unreachable: triangle projection %d/%d: %v", t.A, t.C, err))
	}
	return f
}
