package adsb

import (
	"math"

	"github.com/sirupsen/logrus"
	"go1090/internal/geo"
	"go1090/internal/units"
)

const (
	latitudeZonesEven = 60
	latitudeZonesOdd  = 59
	evenZoneWidth     = 1.0 / latitudeZonesEven
	oddZoneWidth      = 1.0 / latitudeZonesOdd
)

// NumberOfLongitudeZones implements the acos-based Nl(lat) formula: the
// number of distinct longitude zones at the given latitude (in turns).
// It returns 1 for latitudes close enough to the poles that the formula is
// undefined (acos argument out of [-1,1]).
func NumberOfLongitudeZones(latitudeTurns float64) int {
	lat := units.ConvertFrom(latitudeTurns, units.Turn)
	cosLat := math.Cos(lat)
	a := math.Acos(1 - (1-math.Cos(2*math.Pi*evenZoneWidth))/(cosLat*cosLat))
	if math.IsNaN(a) {
		return 1
	}
	return int(math.Floor(2 * math.Pi / a))
}

func zoneIndex(value float64, zones int) int {
	idx := int(math.RoundToEven(value))
	if idx < 0 {
		idx += zones
	}
	return idx
}

func fixCoordinate(turns float64) float64 {
	if turns >= 0.5 {
		turns -= 1
	}
	return turns
}

func toT32(turns float64) int32 {
	return int32(math.RoundToEven(turns * (1 << 32)))
}

// DecodePosition globally decodes an even/odd pair of normalized CPR
// coordinates (x, y both in [0,1)) into a geographic position. mostRecent
// selects which of the two messages (0 = even, 1 = odd) arrived last and
// therefore supplies the authoritative longitude zone and latitude. It
// returns false when the pair straddles a latitude-band change (the zone
// count differs between the even and odd latitude) or when the resulting
// latitude falls outside the valid T32 range.
func DecodePosition(x0, y0, x1, y1 float64, mostRecent int) (geo.Pos, bool) {
	zoneNumber := math.RoundToEven(float64(latitudeZonesOdd)*y0 - float64(latitudeZonesEven)*y1)

	jEven := int(zoneNumber)
	if jEven < 0 {
		jEven += latitudeZonesEven
	}
	jOdd := int(zoneNumber)
	if jOdd < 0 {
		jOdd += latitudeZonesOdd
	}

	latEven := evenZoneWidth * (float64(jEven) + y0)
	latOdd := oddZoneWidth * (float64(jOdd) + y1)

	nlEven := NumberOfLongitudeZones(latEven)
	nlOdd := NumberOfLongitudeZones(latOdd)
	if nlEven != nlOdd {
		return geo.Pos{}, false
	}
	nl := nlEven

	var longitude float64
	if nl == 1 {
		if mostRecent == 0 {
			longitude = x0
		} else {
			longitude = x1
		}
	} else {
		m := math.RoundToEven(x0*float64(nl-1) - x1*float64(nl))
		var mFixed int
		if mostRecent == 0 {
			mFixed = zoneIndex(m, nl)
			longitude = (1.0 / float64(nl)) * (float64(mFixed) + x0)
		} else {
			mFixed = zoneIndex(m, nl-1)
			longitude = (1.0 / float64(nl-1)) * (float64(mFixed) + x1)
		}
	}

	var latitude float64
	if mostRecent == 0 {
		latitude = latEven
	} else {
		latitude = latOdd
	}

	longitude = fixCoordinate(longitude)
	latitude = fixCoordinate(latitude)

	latT32 := toT32(latitude)
	if !geo.IsValidLatitudeT32(latT32) {
		return geo.Pos{}, false
	}
	return geo.Pos{LongitudeT32: toT32(longitude), LatitudeT32: latT32}, true
}

// CPRDecoder wraps DecodePosition with structured logging of rejected
// pairs (band crossings, invalid latitudes) for operational visibility.
// It keeps no per-aircraft state: the even/odd pairing and the staleness
// check live in StateAccumulator, which calls Decode only for a fresh pair.
type CPRDecoder struct {
	logger *logrus.Logger
}

// NewCPRDecoder constructs a CPRDecoder that logs rejected decode
// attempts through logger.
func NewCPRDecoder(logger *logrus.Logger) *CPRDecoder {
	return &CPRDecoder{logger: logger}
}

// Decode is DecodePosition with a debug-level log of band-crossing
// rejections, keyed by icao for correlation with the rest of the pipeline.
func (d *CPRDecoder) Decode(icao string, x0, y0, x1, y1 float64, mostRecent int) (geo.Pos, bool) {
	pos, ok := DecodePosition(x0, y0, x1, y1, mostRecent)
	if !ok && d.logger != nil {
		d.logger.WithFields(logrus.Fields{
			"icao": icao,
		}).Debug("adsb: CPR pair rejected (latitude band crossed or invalid latitude)")
	}
	return pos, ok
}
