// Copyright 2025 Certen Protocol

package universe

import (
	"encoding/binary"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Frac is a reduced rational element: Den is always positive, Num and Den
// share no common factor greater than one (zero is canonically 0/1).
type Frac struct {
	Num int32
	Den int32
}

// NewFrac reduces num/den to lowest terms with a positive denominator.
func NewFrac(num, den int64) (Frac, error) {
	if den == 0 {
		return Frac{}, fmt.Errorf("%w: rational with zero denominator", ErrInvalidElement)
	}
	if num == 0 {
		return Frac{Num: 0, Den: 1}, nil
	}
	if den < 0 {
		num, den = -num, -den
	}
	g := gcd64(abs64(num), den)
	num /= g
	den /= g
	if num > maxInt32 || num < minInt32 || den > maxInt32 {
		return Frac{}, fmt.Errorf("%w: rational %d/%d overflows 32-bit encoding", ErrInvalidElement, num, den)
	}
	return Frac{Num: int32(num), Den: int32(den)}, nil
}

const (
	maxInt32 = int64(1)<<31 - 1
	minInt32 = -(int64(1) << 31)
)

func gcd64(a, b int64) int64 {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func abs32(x int32) int64 {
	return abs64(int64(x))
}

// Equal reports value equality by cross-multiplication (never float).
func (f Frac) Equal(g Frac) bool {
	return int64(f.Num)*int64(g.Den) == int64(g.Num)*int64(f.Den)
}

// Cmp implements the canonical total order: (1) numeric value by
// cross-multiply, (2) |numerator| ascending, (3) denominator ascending,
// (4) signed numerator ascending (negative before positive).
func (f Frac) Cmp(g Frac) int {
	lhs := int64(f.Num) * int64(g.Den)
	rhs := int64(g.Num) * int64(f.Den)
	if lhs != rhs {
		if lhs < rhs {
			return -1
		}
		return 1
	}
	if d := cmpInt64(abs32(f.Num), abs32(g.Num)); d != 0 {
		return d
	}
	if d := cmpInt64(int64(f.Den), int64(g.Den)); d != 0 {
		return d
	}
	return cmpInt64(int64(f.Num), int64(g.Num))
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Encode produces the canonical 8-byte form: numerator then denominator,
// each big-endian 32-bit signed.
func (f Frac) Encode() [8]byte {
	var out [8]byte
	binary.BigEndian.PutUint32(out[0:4], uint32(f.Num))
	binary.BigEndian.PutUint32(out[4:8], uint32(f.Den))
	return out
}

// DecodeFrac reverses Encode.
func DecodeFrac(b [8]byte) Frac {
	return Frac{
		Num: int32(binary.BigEndian.Uint32(b[0:4])),
		Den: int32(binary.BigEndian.Uint32(b[4:8])),
	}
}

// String renders the canonical "n/d" form used for witness reporting.
func (f Frac) String() string {
	return strconv.FormatInt(int64(f.Num), 10) + "/" + strconv.FormatInt(int64(f.Den), 10)
}

// ParseFrac parses the "a/b" form. Does not require lowest terms on input;
// the result is always reduced.
func ParseFrac(s string) (Frac, error) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return Frac{}, fmt.Errorf("%w: rational %q missing '/'", ErrParse, s)
	}
	num, err := strconv.ParseInt(strings.TrimSpace(parts[0]), 10, 64)
	if err != nil {
		return Frac{}, fmt.Errorf("%w: rational numerator %q: %v", ErrParse, parts[0], err)
	}
	den, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil {
		return Frac{}, fmt.Errorf("%w: rational denominator %q: %v", ErrParse, parts[1], err)
	}
	f, err := NewFrac(num, den)
	if err != nil {
		return Frac{}, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return f, nil
}

// RationalBox bounds the rational universe: denominator in [1, DenMax],
// numerator in [-NumAbsMax, NumAbsMax].
type RationalBox struct {
	DenMax    int32
	NumAbsMax int32
}

// DefaultRationalBox is the universe bound from SPEC_FULL.md section 4.2.
var DefaultRationalBox = RationalBox{DenMax: 200, NumAbsMax: 200}

// BuildRationals materializes every reduced fraction in the box, deduped by
// (num, den) after sign normalization, sorted in canonical order.
func BuildRationals(box RationalBox) []Frac {
	seen := make(map[Frac]struct{}, 49000)
	out := make([]Frac, 0, 49000)
	for den := int32(1); den <= box.DenMax; den++ {
		for num := -box.NumAbsMax; num <= box.NumAbsMax; num++ {
			f, err := NewFrac(int64(num), int64(den))
			if err != nil {
				continue
			}
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cmp(out[j]) < 0 })
	return out
}
