package geo

import (
	"math"
	"testing"

	"go1090/internal/units"
)

func TestMercatorX_Center(t *testing.T) {
	// Longitude 0 sits at the horizontal center of the map at any zoom.
	x := MercatorX(0, 0)
	want := math.Ldexp(1, 8) * 0.5
	if math.Abs(x-want) > 1e-9 {
		t.Errorf("MercatorX(0, 0) = %v, want %v", x, want)
	}
}

func TestMercatorY_Equator(t *testing.T) {
	y := MercatorY(0, 0)
	want := math.Ldexp(1, 8) * 0.5
	if math.Abs(y-want) > 1e-9 {
		t.Errorf("MercatorY(0, 0) = %v, want %v", y, want)
	}
}

func TestMercatorX_IncreasesWithZoom(t *testing.T) {
	lon := units.ConvertFrom(45, units.Degree)
	if MercatorX(1, lon) <= MercatorX(0, lon) {
		t.Error("expected MercatorX to grow with zoom level")
	}
}
