package bitfield

import "testing"

func TestExtractUInt(t *testing.T) {
	var value uint64 = 0b1011_0101
	if got := ExtractUInt(value, 0, 4); got != 0b0101 {
		t.Errorf("ExtractUInt low nibble = %b, want 0101", got)
	}
	if got := ExtractUInt(value, 4, 4); got != 0b1011 {
		t.Errorf("ExtractUInt high nibble = %b, want 1011", got)
	}
	if got := ExtractUInt(value, 0, 8); uint64(got) != value {
		t.Errorf("ExtractUInt full width = %b, want %b", got, value)
	}
}

func TestExtractUInt_PanicsOnInvalidSize(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for size 0")
		}
	}()
	ExtractUInt(0, 0, 0)
}

func TestExtractUInt_PanicsOnOutOfBoundsRange(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-bounds range")
		}
	}()
	ExtractUInt(0, 60, 8)
}

func TestTestBit(t *testing.T) {
	var value uint64 = 0b0100
	if !TestBit(value, 2) {
		t.Error("expected bit 2 to be set")
	}
	if TestBit(value, 0) {
		t.Error("expected bit 0 to be clear")
	}
}

func TestTestBit_PanicsOnOutOfBounds(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-bounds bit index")
		}
	}()
	TestBit(0, 64)
}
