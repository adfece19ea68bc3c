// Package aircraft holds the small immutable value types describing a
// physical aircraft, and the metadata database that maps an ICAO address
// to them.
package aircraft

import (
	"fmt"
	"regexp"
)

var icaoAddressPattern = regexp.MustCompile(`^[0-9A-F]{6}$`)

// ICAOAddress is an aircraft's 24-bit ICAO address, rendered as six
// uppercase hex characters.
type ICAOAddress struct {
	value string
}

// NewICAOAddress validates and wraps s.
func NewICAOAddress(s string) (ICAOAddress, error) {
	if !icaoAddressPattern.MatchString(s) {
		return ICAOAddress{}, fmt.Errorf("aircraft: invalid ICAO address %q", s)
	}
	return ICAOAddress{value: s}, nil
}

func (a ICAOAddress) String() string { return a.value }

var registrationPattern = regexp.MustCompile(`^[A-Z0-9 .?/_+-]+$`)

// Registration is an aircraft's tail number.
type Registration struct {
	value string
}

// NewRegistration validates and wraps s.
func NewRegistration(s string) (Registration, error) {
	if !registrationPattern.MatchString(s) {
		return Registration{}, fmt.Errorf("aircraft: invalid registration %q", s)
	}
	return Registration{value: s}, nil
}

func (r Registration) String() string { return r.value }

var typeDesignatorPattern = regexp.MustCompile(`^[A-Z0-9]{2,4}$`)

// TypeDesignator is an aircraft's OACI type designator, e.g. "A320". It
// may be empty when the database has no designator for an aircraft.
type TypeDesignator struct {
	value string
}

// NewTypeDesignator validates and wraps s. The empty string is valid.
func NewTypeDesignator(s string) (TypeDesignator, error) {
	if s != "" && !typeDesignatorPattern.MatchString(s) {
		return TypeDesignator{}, fmt.Errorf("aircraft: invalid type designator %q", s)
	}
	return TypeDesignator{value: s}, nil
}

func (t TypeDesignator) String() string { return t.value }

var descriptionPattern = regexp.MustCompile(`^[ABDGHLPRSTV-][0123468][EJPT-]$`)

// Description is an aircraft's OACI description, e.g. "L2J" (landplane,
// two jet engines). It may be empty.
type Description struct {
	value string
}

// NewDescription validates and wraps s. The empty string is valid.
func NewDescription(s string) (Description, error) {
	if s != "" && !descriptionPattern.MatchString(s) {
		return Description{}, fmt.Errorf("aircraft: invalid description %q", s)
	}
	return Description{value: s}, nil
}

func (d Description) String() string { return d.value }

// WakeTurbulenceCategory classifies an aircraft by the wake turbulence it
// generates.
type WakeTurbulenceCategory int

const (
	Light WakeTurbulenceCategory = iota
	Medium
	Heavy
	Unknown
)

// ParseWakeTurbulenceCategory maps the database's single-letter category
// code, defaulting to Unknown for anything else (including empty).
func ParseWakeTurbulenceCategory(s string) WakeTurbulenceCategory {
	switch s {
	case "L":
		return Light
	case "M":
		return Medium
	case "H":
		return Heavy
	default:
		return Unknown
	}
}

func (c WakeTurbulenceCategory) String() string {
	switch c {
	case Light:
		return "LIGHT"
	case Medium:
		return "MEDIUM"
	case Heavy:
		return "HEAVY"
	default:
		return "UNKNOWN"
	}
}

// Data is the metadata record held for a single aircraft.
type Data struct {
	Registration           Registration
	TypeDesignator         TypeDesignator
	Model                  string
	Description            Description
	WakeTurbulenceCategory WakeTurbulenceCategory
}
