package adsb

import (
	"go1090/internal/bitfield"
	"testing"
)

func TestDecodeSixBitChar(t *testing.T) {
	cases := []struct {
		n    uint32
		want byte
		ok   bool
	}{
		{1, 'A', true},
		{26, 'Z', true},
		{32, ' ', true},
		{48, '0', true},
		{57, '9', true},
		{0, 0, false},
		{27, 0, false},
		{58, 0, false},
	}
	for _, c := range cases {
		got, ok := decodeSixBitChar(c.n)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("decodeSixBitChar(%d) = (%q, %v), want (%q, %v)", c.n, got, ok, c.want, c.ok)
		}
	}
}

// frameWithPayload builds an unvalidated RawMessage directly from a 7-byte
// ME payload, bypassing the CRC check NewRawMessage performs.
func frameWithPayload(icaoBytes [3]byte, payload [7]byte) RawMessage {
	var data [FrameLength]byte
	data[0] = 0x8D
	data[1], data[2], data[3] = icaoBytes[0], icaoBytes[1], icaoBytes[2]
	copy(data[4:11], payload[:])
	return RawMessage{TimestampNs: 0, bytes: bitfield.NewByteString(data[:])}
}

func TestParseIdentification(t *testing.T) {
	raw := frameWithPayload([3]byte{0x3D, 0x01, 0x23}, [7]byte{0x08, 0x04, 0x20, 0xF1, 0xCB, 0x38, 0x20})

	msg, ok := ParseIdentification(raw)
	if !ok {
		t.Fatal("expected identification message to decode")
	}
	if msg.ICAO() != "3D0123" {
		t.Errorf("ICAO() = %q, want 3D0123", msg.ICAO())
	}
	if msg.CallSign != "ABC123" {
		t.Errorf("CallSign = %q, want ABC123", msg.CallSign)
	}
	if msg.Category != 208 {
		t.Errorf("Category = %d, want 208", msg.Category)
	}
}
