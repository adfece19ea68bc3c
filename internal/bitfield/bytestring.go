package bitfield

import (
	"encoding/hex"
	"fmt"
)

// ByteString is an immutable sequence of bytes with big-endian range
// extraction, used to model raw ADS-B frames and capture-file records.
type ByteString struct {
	data []byte
}

// NewByteString makes a defensive copy of b and wraps it.
func NewByteString(b []byte) ByteString {
	cp := make([]byte, len(b))
	copy(cp, b)
	return ByteString{data: cp}
}

// FromHex decodes a hexadecimal string into a ByteString.
func FromHex(s string) (ByteString, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return ByteString{}, fmt.Errorf("bitfield: invalid hex string: %w", err)
	}
	return ByteString{data: b}, nil
}

// Size returns the number of bytes.
func (b ByteString) Size() int { return len(b.data) }

// ByteAt returns the unsigned byte at index.
func (b ByteString) ByteAt(index int) byte {
	if index < 0 || index >= len(b.data) {
		panic(fmt.Sprintf("bitfield: byte index %d out of bounds (size %d)", index, len(b.data)))
	}
	return b.data[index]
}

// BytesInRange returns the big-endian unsigned integer encoded by bytes
// [from, to). The span must be strictly less than 8 bytes.
func (b ByteString) BytesInRange(from, to int) uint64 {
	if to-from >= 8 || to-from <= 0 {
		panic(fmt.Sprintf("bitfield: invalid byte range [%d,%d)", from, to))
	}
	if from < 0 || to > len(b.data) {
		panic(fmt.Sprintf("bitfield: byte range [%d,%d) out of bounds (size %d)", from, to, len(b.data)))
	}
	var v uint64
	for i := from; i < to; i++ {
		v = (v << 8) | uint64(b.data[i])
	}
	return v
}

// Bytes returns a defensive copy of the underlying bytes.
func (b ByteString) Bytes() []byte {
	cp := make([]byte, len(b.data))
	copy(cp, b.data)
	return cp
}

func (b ByteString) String() string {
	return fmt.Sprintf("%X", b.data)
}

// Equal reports whether b and other have identical contents.
func (b ByteString) Equal(other ByteString) bool {
	if len(b.data) != len(other.data) {
		return false
	}
	for i := range b.data {
		if b.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
