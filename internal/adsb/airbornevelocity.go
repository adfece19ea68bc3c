package adsb

import (
	"math"

	"go1090/internal/bitfield"
	"go1090/internal/units"
)

// AirborneVelocityMessage carries an aircraft's speed and either its
// ground track or its heading, decoded from type code 19.
type AirborneVelocityMessage struct {
	timestampNs int64
	icao        string
	SpeedMPS    float64
	TrackOrHdg  float64 // radians, in [0, 2*pi)
}

func (m AirborneVelocityMessage) Timestamp() int64 { return m.timestampNs }
func (m AirborneVelocityMessage) ICAO() string     { return m.icao }

func wrapAngle(rad float64) float64 {
	two := 2 * math.Pi
	rad = math.Mod(rad, two)
	if rad < 0 {
		rad += two
	}
	return rad
}

func parseGroundSpeed(useful uint64, subtype uint32) (speed, track float64, ok bool) {
	vnsRaw := bitfield.ExtractUInt(useful, 0, 10)
	vewRaw := bitfield.ExtractUInt(useful, 11, 10)
	if vnsRaw == 0 || vewRaw == 0 {
		return 0, 0, false
	}
	vns := float64(vnsRaw) - 1
	vew := float64(vewRaw) - 1

	// The hypotenuse is computed on the raw knot-resolution components,
	// before the subtype unit conversion and before the sign is applied.
	speed = math.Hypot(vew, vns)
	unit := units.Knot
	if subtype == 2 {
		unit = 4 * units.Knot
	}
	speed = units.ConvertFrom(speed, unit)

	if bitfield.TestBit(useful, 10) {
		vns = -vns
	}
	if bitfield.TestBit(useful, 21) {
		vew = -vew
	}
	track = wrapAngle(math.Atan2(vew, vns))
	return speed, track, true
}

func parseAirspeed(useful uint64, subtype uint32) (speed, heading float64, ok bool) {
	if !bitfield.TestBit(useful, 21) {
		return 0, 0, false
	}
	headingRaw := bitfield.ExtractUInt(useful, 11, 10)
	heading = units.ConvertFrom(math.Ldexp(float64(headingRaw), -10), units.Turn)

	speedRaw := bitfield.ExtractUInt(useful, 0, 10)
	if speedRaw == 0 {
		return 0, 0, false
	}
	unit := units.Knot
	if subtype == 4 {
		unit = 4 * units.Knot
	}
	speed = units.ConvertFrom(float64(speedRaw)-1, unit)
	return speed, heading, true
}

// ParseAirborneVelocity decodes raw as an airborne velocity message.
func ParseAirborneVelocity(raw RawMessage) (AirborneVelocityMessage, bool) {
	payload := raw.Payload()
	subtype := bitfield.ExtractUInt(payload, 48, 3)
	useful := uint64(bitfield.ExtractUInt(payload, 21, 22))

	var speed, angle float64
	var ok bool
	switch subtype {
	case 1, 2:
		speed, angle, ok = parseGroundSpeed(useful, subtype)
	case 3, 4:
		speed, angle, ok = parseAirspeed(useful, subtype)
	default:
		ok = false
	}
	if !ok {
		return AirborneVelocityMessage{}, false
	}
	return AirborneVelocityMessage{
		timestampNs: raw.TimestampNs,
		icao:        raw.ICAOAddress(),
		SpeedMPS:    speed,
		TrackOrHdg:  angle,
	}, true
}
