package adsb

// ParseMessage dispatches raw to the appropriate typed-message decoder
// based on its type code, returning false for unrecognized type codes or
// when the matched decoder itself rejects the payload.
func ParseMessage(raw RawMessage) (Message, bool) {
	tc := raw.TypeCode()
	switch {
	case tc >= 1 && tc <= 4:
		m, ok := ParseIdentification(raw)
		return m, ok
	case tc == 19:
		m, ok := ParseAirborneVelocity(raw)
		return m, ok
	case (tc >= 9 && tc <= 18) || tc == 20 || tc == 21 || tc == 22:
		m, ok := ParseAirbornePosition(raw)
		return m, ok
	default:
		return nil, false
	}
}
