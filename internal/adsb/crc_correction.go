package adsb

// Correction tables for single- and two-bit error correction, adapted from
// dump1090's approach: crcErrorSingleBitTable[i] is the CRC residue a lone
// bit-flip at position i would leave behind; crcErrorTwoBitTable[i*112+j]
// likewise for two simultaneous flips. The core pipeline (component E)
// never consults these — a CRC mismatch there is a plain soft rejection —
// but the Beast ingestion path (rawMessageFromBeast in internal/app) runs a
// CRC-invalid frame through CorrectErrors before giving up on it, since upstream Beast
// sources are conventionally paired with this kind of recovery.
var (
	crcErrorSingleBitTable [112]uint32
	crcErrorTwoBitTable    [112 * 112]uint32
)

func init() {
	for i := 0; i < 112; i++ {
		crcErrorSingleBitTable[i] = CRC24(singleBitFrame(i))
	}
	for i := 0; i < 112; i++ {
		for j := i + 1; j < 112; j++ {
			crcErrorTwoBitTable[i*112+j] = CRC24(twoBitFrame(i, j))
		}
	}
}

func singleBitFrame(bit int) []byte {
	msg := make([]byte, 14)
	setBit(msg, bit)
	return msg
}

func twoBitFrame(bitA, bitB int) []byte {
	msg := make([]byte, 14)
	setBit(msg, bitA)
	setBit(msg, bitB)
	return msg
}

func setBit(msg []byte, bit int) {
	bytePos, bitPos := bit/8, 7-(bit%8)
	if bytePos < len(msg) {
		msg[bytePos] |= 1 << uint(bitPos)
	}
}

func toggleBit(msg []byte, bit int) {
	bytePos, bitPos := bit/8, 7-(bit%8)
	if bytePos < len(msg) {
		msg[bytePos] ^= 1 << uint(bitPos)
	}
}

// CorrectErrors attempts to recover a 14-byte frame whose CRC24 residue is
// crc by flipping one or two bits known to produce exactly that residue.
// It returns the corrected frame and the number of bits flipped (0 if no
// single- or two-bit correction reproduces crc).
func CorrectErrors(frame [14]byte, crc uint32) ([14]byte, int) {
	for i, residue := range crcErrorSingleBitTable {
		if residue == crc {
			corrected := frame
			toggleBit(corrected[:], i)
			return corrected, 1
		}
	}
	for i := 0; i < 112; i++ {
		for j := i + 1; j < 112; j++ {
			if crcErrorTwoBitTable[i*112+j] == crc {
				corrected := frame
				toggleBit(corrected[:], i)
				toggleBit(corrected[:], j)
				return corrected, 2
			}
		}
	}
	return frame, 0
}
