package adsb

import "testing"

func TestDecodeAltitudeFeet_Trivial(t *testing.T) {
	feet, ok := decodeAltitudeFeet(16) // Q bit (bit4) set, all other bits zero
	if !ok {
		t.Fatal("expected trivial decode to succeed")
	}
	if feet != -1000 {
		t.Errorf("feet = %v, want -1000", feet)
	}
}

func TestDecodeAltitudeFeet_Gillham(t *testing.T) {
	feet, ok := decodeAltitudeFeet(128) // Q bit clear, realigns to a defined Gillham code (lsb=1, msb=0)
	if !ok {
		t.Fatal("expected Gillham decode to succeed")
	}
	if feet != -1200 {
		t.Errorf("feet = %v, want -1200", feet)
	}
}

func TestDecodeAltitudeFeet_Gillham_RejectsUndefinedLSB(t *testing.T) {
	// Q bit clear; realigns to an LSB of 0, one of the three undefined
	// 3-bit Gray codes (spec boundary case, LSB in {0,5,6}).
	_, ok := decodeAltitudeFeet(4)
	if ok {
		t.Fatal("expected an undefined LSB Gillham code to be rejected")
	}
}

func TestDecodeAltitudeFeet_UndefinedCode(t *testing.T) {
	_, ok := decodeAltitudeFeet(0)
	if ok {
		t.Fatal("expected the all-zero Gillham code to be rejected")
	}
}

func TestGrayDecode(t *testing.T) {
	cases := []struct {
		value, size int
		want        uint32
	}{
		{0, 3, 0},
		{2, 3, 3},
		{1, 3, 1},
	}
	for _, c := range cases {
		if got := grayDecode(uint32(c.value), c.size); got != c.want {
			t.Errorf("grayDecode(%d, %d) = %d, want %d", c.value, c.size, got, c.want)
		}
	}
}
