package geo

import (
	"math"

	"go1090/internal/units"
)

// MercatorX returns the web Mercator x coordinate, in pixels, of longitude
// (radians) at the given zoom level.
func MercatorX(zoomLevel int, longitude float64) float64 {
	return math.Ldexp(1, 8+zoomLevel) * (units.ConvertTo(longitude, units.Turn) + 0.5)
}

// MercatorY returns the web Mercator y coordinate, in pixels, of latitude
// (radians) at the given zoom level.
func MercatorY(zoomLevel int, latitude float64) float64 {
	return math.Ldexp(1, 8+zoomLevel) * (-units.ConvertTo(asinh(math.Tan(latitude)), units.Turn) + 0.5)
}
