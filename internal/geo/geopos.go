package geo

import (
	"fmt"

	"go1090/internal/units"
)

const (
	// MaxLatitudeT32 is 2^30, the T32 representation of +90 degrees.
	MaxLatitudeT32 = 1 << 30
	// MinLatitudeT32 is -2^30, the T32 representation of -90 degrees.
	MinLatitudeT32 = -MaxLatitudeT32
)

// Pos is a geographic position expressed as T32 angles: one full turn
// (2*pi radians) equals 2^32 ticks. Longitude wraps freely; latitude is
// constrained to [-2^30, 2^30].
type Pos struct {
	LongitudeT32 int32
	LatitudeT32  int32
}

// NewPos validates latitudeT32 and constructs a Pos.
func NewPos(longitudeT32, latitudeT32 int32) (Pos, error) {
	if latitudeT32 < MinLatitudeT32 || latitudeT32 > MaxLatitudeT32 {
		return Pos{}, fmt.Errorf("geo: latitude T32 %d out of range [%d, %d]", latitudeT32, MinLatitudeT32, MaxLatitudeT32)
	}
	return Pos{LongitudeT32: longitudeT32, LatitudeT32: latitudeT32}, nil
}

// IsValidLatitudeT32 reports whether v is a legal latitude in T32 units.
func IsValidLatitudeT32(v int32) bool {
	return v >= MinLatitudeT32 && v <= MaxLatitudeT32
}

// Longitude returns the longitude in radians.
func (p Pos) Longitude() float64 {
	return units.ConvertFrom(float64(p.LongitudeT32), units.T32)
}

// Latitude returns the latitude in radians.
func (p Pos) Latitude() float64 {
	return units.ConvertFrom(float64(p.LatitudeT32), units.T32)
}

func (p Pos) String() string {
	return fmt.Sprintf("(%.4f°, %.4f°)",
		units.Convert(float64(p.LongitudeT32)*units.T32, 1, units.Degree),
		units.Convert(float64(p.LatitudeT32)*units.T32, 1, units.Degree))
}
