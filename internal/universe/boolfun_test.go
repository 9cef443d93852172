// Copyright 2025 Certen Protocol

package universe

import "testing"

func TestNewBoolFun_MasksToLiveBits(t *testing.T) {
	f, err := NewBoolFun(2, 0xFF)
	if err != nil {
		t.Fatalf("NewBoolFun: %v", err)
	}
	if f.Table != 0x0F {
		t.Fatalf("NewBoolFun(2, 0xFF).Table = %#x, want 0x0F", f.Table)
	}
}

func TestNewBoolFun_RejectsOutOfRangeArity(t *testing.T) {
	if _, err := NewBoolFun(7, 0); err == nil {
		t.Fatal("expected an error for arity 7")
	}
	if _, err := NewBoolFun(0, 0); err == nil {
		t.Fatal("expected an error for arity 0")
	}
}

func TestBoolFun_Weight(t *testing.T) {
	f, _ := NewBoolFun(2, 0b1011)
	if f.Weight() != 3 {
		t.Fatalf("Weight(0b1011) = %d, want 3", f.Weight())
	}
}

func TestBoolFun_EncodeDecodeRoundTrip(t *testing.T) {
	f, _ := NewBoolFun(4, 0xCAFE)
	got := DecodeBoolFun(f.Encode())
	if got != f {
		t.Fatalf("round trip: got %v, want %v", got, f)
	}
}

func TestBoolFun_StringArity4IsHex(t *testing.T) {
	f, _ := NewBoolFun(4, 0x00FF)
	if f.String() != "0x00FF" {
		t.Fatalf("String() = %q, want 0x00FF", f.String())
	}
}

func TestParseBoolFun_Hex(t *testing.T) {
	f, err := ParseBoolFun("0x1234")
	if err != nil {
		t.Fatalf("ParseBoolFun: %v", err)
	}
	if f.N != 4 || f.Table != 0x1234 {
		t.Fatalf("ParseBoolFun(0x1234) = %+v", f)
	}
}

func TestParseBoolFun_U16(t *testing.T) {
	f, err := ParseBoolFun("u16:4660")
	if err != nil {
		t.Fatalf("ParseBoolFun: %v", err)
	}
	if f.N != 4 || f.Table != 0x1234 {
		t.Fatalf("ParseBoolFun(u16:4660) = %+v, want n=4 table=0x1234", f)
	}
}

func TestParseBoolFun_BinMSBFirst(t *testing.T) {
	// bin:1000 -> length 4 -> n=2, bit 0 of the string (MSB) is table bit 3.
	f, err := ParseBoolFun("bin:1000")
	if err != nil {
		t.Fatalf("ParseBoolFun: %v", err)
	}
	if f.N != 2 || f.Table != 0b1000 {
		t.Fatalf("ParseBoolFun(bin:1000) = %+v, want n=2 table=0b1000", f)
	}
}

func TestParseBoolFun_BinRejectsNonPowerOfTwoLength(t *testing.T) {
	if _, err := ParseBoolFun("bin:101"); err == nil {
		t.Fatal("expected an error for a length-3 bin string")
	}
}

func TestHammingDistance_SameArity(t *testing.T) {
	a, _ := NewBoolFun(3, 0b10101010)
	b, _ := NewBoolFun(3, 0b11101010)
	d, ok := HammingDistance(a, b)
	if !ok {
		t.Fatal("expected ok=true for equal arities")
	}
	if d != 1 {
		t.Fatalf("HammingDistance = %d, want 1", d)
	}
}

func TestHammingDistance_DifferentArityNotOK(t *testing.T) {
	a, _ := NewBoolFun(2, 0)
	b, _ := NewBoolFun(3, 0)
	if _, ok := HammingDistance(a, b); ok {
		t.Fatal("expected ok=false for differing arities")
	}
}

func TestBuildBoolFuns_CountIsTwoToTheTwoToTheN(t *testing.T) {
	out, err := BuildBoolFuns(3)
	if err != nil {
		t.Fatalf("BuildBoolFuns(3): %v", err)
	}
	if len(out) != 256 { // 2^(2^3) = 2^8
		t.Fatalf("BuildBoolFuns(3) has %d elements, want 256", len(out))
	}
}

func TestBuildBoolFuns_RejectsUnenumerableArity(t *testing.T) {
	if _, err := BuildBoolFuns(5); err == nil {
		t.Fatal("expected an error for arity 5 (beyond MaxEnumerableArity)")
	}
}

func TestBuildBoolFuns_SortedAscendingTable(t *testing.T) {
	out, _ := BuildBoolFuns(2)
	for i := 1; i < len(out); i++ {
		if out[i-1].Cmp(out[i]) >= 0 {
			t.Fatalf("not strictly increasing at index %d", i)
		}
	}
}
