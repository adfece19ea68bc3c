package adsb

import (
	"strings"

	"go1090/internal/bitfield"
)

// IdentificationMessage carries an aircraft's callsign and wake/category
// classification, decoded from type codes 1..4.
type IdentificationMessage struct {
	timestampNs int64
	icao        string
	Category    int
	CallSign    string
}

func (m IdentificationMessage) Timestamp() int64 { return m.timestampNs }
func (m IdentificationMessage) ICAO() string     { return m.icao }

// decodeSixBitChar maps a 6-bit ADS-B character code to its ASCII
// character. It returns false for codes with no defined mapping, in which
// case the whole message must be rejected.
func decodeSixBitChar(n uint32) (byte, bool) {
	switch {
	case n >= 1 && n <= 26:
		return byte('A' + n - 1), true
	case n >= 48 && n <= 57:
		return byte('0' + n - 48), true
	case n == 32:
		return ' ', true
	default:
		return 0, false
	}
}

// ParseIdentification decodes raw as an identification message. It
// returns false if any of the 8 six-bit characters in the callsign field
// has no defined mapping.
func ParseIdentification(raw RawMessage) (IdentificationMessage, bool) {
	payload := raw.Payload()
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		start := 48 - 6*(i+1)
		n := bitfield.ExtractUInt(payload, start, 6)
		c, ok := decodeSixBitChar(n)
		if !ok {
			return IdentificationMessage{}, false
		}
		sb.WriteByte(c)
	}
	callSign := strings.TrimRight(sb.String(), " ")
	if !ValidCallSign(callSign) {
		return IdentificationMessage{}, false
	}
	category := int(((14 - raw.TypeCode()) << 4) | bitfield.ExtractUInt(payload, 48, 3))
	return IdentificationMessage{
		timestampNs: raw.TimestampNs,
		icao:        raw.ICAOAddress(),
		Category:    category,
		CallSign:    callSign,
	}, true
}
