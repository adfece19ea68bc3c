package adsb

import (
	"fmt"

	"go1090/internal/bitfield"
)

// RawMessage is a validated 14-byte Mode S extended squitter frame paired
// with the timestamp, in nanoseconds, at which it was captured.
type RawMessage struct {
	TimestampNs int64
	bytes       bitfield.ByteString
}

// NewRawMessage validates bytes (must be exactly FrameLength long, and its
// CRC24 residue must be zero) and returns a RawMessage. It returns false
// as its second result, with no error, when the CRC check fails: that is
// a soft frame rejection, not a programmer error.
func NewRawMessage(timestampNs int64, data []byte) (RawMessage, bool, error) {
	if timestampNs < 0 {
		return RawMessage{}, false, fmt.Errorf("adsb: negative timestamp %d", timestampNs)
	}
	if len(data) != FrameLength {
		return RawMessage{}, false, fmt.Errorf("adsb: raw message must be %d bytes, got %d", FrameLength, len(data))
	}
	if CRC24(data) != 0 {
		return RawMessage{}, false, nil
	}
	return RawMessage{TimestampNs: timestampNs, bytes: bitfield.NewByteString(data)}, true, nil
}

// FrameSize returns FrameLength if byte0's downlink format is the extended
// squitter format (17), else 0 — used by the demodulator to short-circuit
// decoding of frames it already knows it will discard.
func FrameSize(byte0 byte) int {
	if bitfield.ExtractUInt(uint64(byte0), 3, 5) == ExtendedSquitterDF {
		return FrameLength
	}
	return 0
}

// DownlinkFormat returns the 5-bit downlink format field of byte 0.
func (m RawMessage) DownlinkFormat() uint32 {
	return bitfield.ExtractUInt(uint64(m.bytes.ByteAt(0)), 3, 5)
}

// ICAOAddress returns the 24-bit ICAO address as a six-character uppercase
// hex string.
func (m RawMessage) ICAOAddress() string {
	return fmt.Sprintf("%06X", m.bytes.BytesInRange(1, 4))
}

// Payload returns the 56-bit ME payload field.
func (m RawMessage) Payload() uint64 {
	return m.bytes.BytesInRange(4, 11)
}

// TypeCode returns the 5-bit type code, the top 5 bits of the payload.
func (m RawMessage) TypeCode() uint32 {
	return TypeCodeOf(m.Payload())
}

// TypeCodeOf extracts the type code from a raw 56-bit payload value.
func TypeCodeOf(payload uint64) uint32 {
	return bitfield.ExtractUInt(payload, 51, 5)
}

// Bytes returns a defensive copy of the frame's 14 bytes.
func (m RawMessage) Bytes() []byte {
	return m.bytes.Bytes()
}
