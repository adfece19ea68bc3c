package bitfield

import "testing"

func TestByteString_ByteAtAndBytesInRange(t *testing.T) {
	b := NewByteString([]byte{0x01, 0x02, 0x03, 0x04})
	if b.Size() != 4 {
		t.Fatalf("Size() = %d, want 4", b.Size())
	}
	if b.ByteAt(1) != 0x02 {
		t.Errorf("ByteAt(1) = %#x, want 0x02", b.ByteAt(1))
	}
	if got := b.BytesInRange(1, 3); got != 0x0203 {
		t.Errorf("BytesInRange(1,3) = %#x, want 0x0203", got)
	}
}

func TestByteString_FromHex(t *testing.T) {
	b, err := FromHex("8D4B17E5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b.Size() != 4 || b.ByteAt(0) != 0x8D {
		t.Fatalf("unexpected decode: %v", b)
	}
}

func TestByteString_FromHex_Invalid(t *testing.T) {
	if _, err := FromHex("not hex"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}

func TestByteString_Equal(t *testing.T) {
	a := NewByteString([]byte{1, 2, 3})
	b := NewByteString([]byte{1, 2, 3})
	c := NewByteString([]byte{1, 2, 4})
	if !a.Equal(b) {
		t.Error("expected equal contents to compare equal")
	}
	if a.Equal(c) {
		t.Error("expected differing contents to compare unequal")
	}
}

func TestByteString_Bytes_IsDefensiveCopy(t *testing.T) {
	b := NewByteString([]byte{1, 2, 3})
	cp := b.Bytes()
	cp[0] = 99
	if b.ByteAt(0) != 1 {
		t.Error("mutating the returned slice affected the ByteString")
	}
}

func TestByteString_ByteAt_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-bounds index")
		}
	}()
	NewByteString([]byte{1}).ByteAt(5)
}
