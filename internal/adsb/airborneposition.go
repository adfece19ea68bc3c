package adsb

import (
	"math"

	"go1090/internal/bitfield"
	"go1090/internal/units"
)

// AirbornePositionMessage carries an aircraft's barometric altitude and a
// half of a CPR-encoded position pair, decoded from type codes 9..18 and
// 20..22.
type AirbornePositionMessage struct {
	timestampNs int64
	icao        string
	AltitudeM   float64
	Parity      int // 0 = even, 1 = odd
	X, Y        float64
}

func (m AirbornePositionMessage) Timestamp() int64 { return m.timestampNs }
func (m AirbornePositionMessage) ICAO() string     { return m.icao }

// altitudeRealignment permutes the 12 raw altitude bits into Gillham
// order: output bit i, counting from the most significant of the 12,
// comes from input bit altitudeRealignment[i] (counting from bit 0).
var altitudeRealignment = [12]int{4, 2, 0, 10, 8, 6, 5, 3, 1, 11, 9, 7}

// grayDecode reverses a size-bit reflected binary (Gray) code.
func grayDecode(value uint32, size int) uint32 {
	for shift := 1; shift < size; shift <<= 1 {
		value ^= value >> uint(shift)
	}
	return value
}

// decodeAltitudeFeet decodes the 12-bit AC altitude field into feet. It
// returns false when the non-trivial (Gillham) decode produces one of the
// three undefined 3-bit codes.
func decodeAltitudeFeet(altCode uint32) (float64, bool) {
	if bitfield.TestBit(uint64(altCode), 4) {
		// Trivial case: 25-foot resolution, bit 4 (the Q bit) removed.
		upper := bitfield.ExtractUInt(uint64(altCode), 5, 7)
		lower := bitfield.ExtractUInt(uint64(altCode), 0, 4)
		n := (upper << 4) | lower
		return -1000 + 25*float64(n), true
	}

	var realigned uint32
	for i := 0; i < 12; i++ {
		bit := (altCode >> uint(altitudeRealignment[i])) & 1
		realigned |= bit << uint(11-i)
	}
	lsb := grayDecode(bitfield.ExtractUInt(uint64(realigned), 0, 3), 3)
	msb := grayDecode(bitfield.ExtractUInt(uint64(realigned), 3, 9), 9)

	switch lsb {
	case 0, 5, 6:
		return 0, false
	case 7:
		lsb = 5
	}
	if msb%2 == 1 {
		lsb = 6 - lsb
	}
	return -1300 + 100*float64(lsb) + 500*float64(msb), true
}

// ParseAirbornePosition decodes raw as an airborne position message.
func ParseAirbornePosition(raw RawMessage) (AirbornePositionMessage, bool) {
	payload := raw.Payload()
	altRaw := bitfield.ExtractUInt(payload, 36, 12)
	altFeet, ok := decodeAltitudeFeet(altRaw)
	if !ok {
		return AirbornePositionMessage{}, false
	}
	lonRaw := bitfield.ExtractUInt(payload, 0, 17)
	latRaw := bitfield.ExtractUInt(payload, 17, 17)
	parity := int(bitfield.ExtractUInt(payload, 34, 1))

	return AirbornePositionMessage{
		timestampNs: raw.TimestampNs,
		icao:        raw.ICAOAddress(),
		AltitudeM:   units.Convert(altFeet, units.Foot, units.Meter),
		Parity:      parity,
		X:           float64(lonRaw) * math.Ldexp(1, -17),
		Y:           float64(latRaw) * math.Ldexp(1, -17),
	}, true
}
