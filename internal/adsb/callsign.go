package adsb

import "regexp"

var callSignPattern = regexp.MustCompile(`^[A-Z0-9 ]{0,8}$`)

// ValidCallSign reports whether s matches the callsign value-type regex.
func ValidCallSign(s string) bool {
	return callSignPattern.MatchString(s)
}
