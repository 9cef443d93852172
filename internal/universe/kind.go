// Copyright 2025 Certen Protocol
//
// The live universe is a three-way tagged variant (SPEC_FULL.md section 9,
// design note "universe names as tagged variants"): a single Kind value
// drives which builder, signature legend, digest-leaf encoding, and
// witness-distance function applies, rather than a string compared at
// every op.

package universe

import (
	"fmt"
	"strings"
)

// Kind tags which of the three certified universes is live.
type Kind int

const (
	Rational Kind = iota
	Triangle
	BoolFunKind
)

// String renders the canonical universe name used in trace input/output.
func (k Kind) String() string {
	switch k {
	case Rational:
		return "RATIONAL"
	case Triangle:
		return "TRIANGLE"
	case BoolFunKind:
		return "BOOLFUN"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind parses a universe name. Unknown names are a SchemaError
// (SPEC_FULL.md section 7), fatal to the executor.
func ParseKind(s string) (Kind, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "RATIONAL", "RAT":
		return Rational, nil
	case "TRIANGLE", "TRI":
		return Triangle, nil
	case "BOOLFUN", "BOOL", "BOOLEAN":
		return BoolFunKind, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUniverse, s)
	}
}

// Elem is the tagged union of the three element types. Exactly one field
// is meaningful, selected by Kind.
type Elem struct {
	Kind Kind
	F    Frac
	T    Tri
	B    BoolFun
}

// String renders the element in the witness form appropriate to its kind.
func (e Elem) String() string {
	switch e.Kind {
	case Rational:
		return e.F.String()
	case Triangle:
		return e.T.String()
	case BoolFunKind:
		return e.B.String()
	default:
		return fmt.Sprintf("<invalid kind %d>", int(e.Kind))
	}
}

// Cmp compares two elements of the same kind under that kind's canonical
// order. Comparing elements of different kinds is a programmer error; it
// panics rather than silently returning a meaningless ordering, since the
// executor and verifier never hold a mixed-kind candidate set.
func (e Elem) Cmp(o Elem) int {
	if e.Kind != o.Kind {
		panic(fmt.Sprintf("universe: cannot compare elements of kind %s and %s", e.Kind, o.Kind))
	}
	switch e.Kind {
	case Rational:
		return e.F.Cmp(o.F)
	case Triangle:
		return e.T.Cmp(o.T)
	case BoolFunKind:
		return e.B.Cmp(o.B)
	default:
		panic(fmt.Sprintf("universe: invalid kind %d", int(e.Kind)))
	}
}

// Encode produces the per-kind canonical encoding used as a Merkle leaf's
// preimage.
func (e Elem) Encode() []byte {
	switch e.Kind {
	case Rational:
		b := e.F.Encode()
		return b[:]
	case Triangle:
		b := e.T.Encode()
		return b[:]
	case BoolFunKind:
		b := e.B.Encode()
		return b[:]
	default:
		panic(fmt.Sprintf("universe: invalid kind %d", int(e.Kind)))
	}
}

// FromFrac, FromTri, FromBoolFun wrap a concrete element into the tagged
// union.
func FromFrac(f Frac) Elem     { return Elem{Kind: Rational, F: f} }
func FromTri(t Tri) Elem       { return Elem{Kind: Triangle, T: t} }
func FromBoolFun(b BoolFun) Elem { return Elem{Kind: BoolFunKind, B: b} }

// Bounds overrides the default universe bounds (SPEC_FULL.md section
// 4.2.1). The zero value means "use defaults".
type Bounds struct {
	RationalBox    RationalBox
	TriangleBound  int32
}

// DefaultBounds returns the bounds named in SPEC_FULL.md section 4.2.
func DefaultBounds() Bounds {
	return Bounds{
		RationalBox:   DefaultRationalBox,
		TriangleBound: DefaultTriangleBound,
	}
}

// resolve fills zero fields with defaults.
func (b Bounds) resolve() Bounds {
	out := b
	if out.RationalBox.DenMax == 0 {
		out.RationalBox.DenMax = DefaultRationalBox.DenMax
	}
	if out.RationalBox.NumAbsMax == 0 {
		out.RationalBox.NumAbsMax = DefaultRationalBox.NumAbsMax
	}
	if out.TriangleBound == 0 {
		out.TriangleBound = DefaultTriangleBound
	}
	return out
}

// Build materializes the full universe for kind k (n is required for
// BoolFunKind, ignored otherwise), in canonical order.
func Build(k Kind, n uint8, bounds Bounds) ([]Elem, error) {
	bounds = bounds.resolve()
	switch k {
	case Rational:
		fracs := BuildRationals(bounds.RationalBox)
		out := make([]Elem, len(fracs))
		for i, f := range fracs {
			out[i] = FromFrac(f)
		}
		return out, nil
	case Triangle:
		tris := BuildTriangles(bounds.TriangleBound)
		out := make([]Elem, len(tris))
		for i, t := range tris {
			out[i] = FromTri(t)
		}
		return out, nil
	case BoolFunKind:
		funs, err := BuildBoolFuns(n)
		if err != nil {
			return nil, err
		}
		out := make([]Elem, len(funs))
		for i, f := range funs {
			out[i] = FromBoolFun(f)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnknownUniverse, int(k))
	}
}

// ParseElem parses a string into an element of kind k, which the caller
// supplies; no kind is inferred here (START_ELEM's inference rule from
// SPEC_FULL.md section 4.4 lives in InferKind). For BoolFunKind a
// nonzero n must equal the parsed arity.
func ParseElem(k Kind, n uint8, s string) (Elem, error) {
	switch k {
	case Rational:
		f, err := ParseFrac(s)
		if err != nil {
			return Elem{}, err
		}
		return FromFrac(f), nil
	case Triangle:
		t, err := ParseTri(s)
		if err != nil {
			return Elem{}, err
		}
		return FromTri(t), nil
	case BoolFunKind:
		b, err := ParseBoolFun(s)
		if err != nil {
			return Elem{}, err
		}
		if n != 0 && b.N != n {
			return Elem{}, fmt.Errorf("%w: parsed arity %d disagrees with live arity %d", ErrInvalidElement, b.N, n)
		}
		return FromBoolFun(b), nil
	default:
		return Elem{}, fmt.Errorf("%w: kind %d", ErrUnknownUniverse, int(k))
	}
}

// InferKind implements START_ELEM's dispatch rule: rational if the string
// contains '/' and no ',', triangle if it contains ',', else boolfun.
func InferKind(s string) Kind {
	hasSlash := strings.Contains(s, "/")
	hasComma := strings.Contains(s, ",")
	switch {
	case hasComma:
		return Triangle
	case hasSlash:
		return Rational
	default:
		return BoolFunKind
	}
}
