package adsb

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNumberOfLongitudeZones_Bounds(t *testing.T) {
	for _, lat := range []float64{0, 0.05, 0.1, 0.15, 0.2, 0.24} {
		nl := NumberOfLongitudeZones(lat)
		if nl < 1 || nl > 60 {
			t.Errorf("NumberOfLongitudeZones(%v) = %d, want in [1,60]", lat, nl)
		}
	}
}

func TestNumberOfLongitudeZones_NonIncreasingTowardPoles(t *testing.T) {
	prev := NumberOfLongitudeZones(0)
	for _, lat := range []float64{0.05, 0.1, 0.15, 0.2, 0.24} {
		nl := NumberOfLongitudeZones(lat)
		if nl > prev {
			t.Errorf("NumberOfLongitudeZones(%v) = %d, expected non-increasing from previous %d", lat, nl, prev)
		}
		prev = nl
	}
}

func TestDecodePosition_Origin(t *testing.T) {
	pos, ok := DecodePosition(0, 0, 0, 0, 0)
	if !ok {
		t.Fatal("expected the all-zero CPR pair to decode")
	}
	if pos.LongitudeT32 != 0 || pos.LatitudeT32 != 0 {
		t.Errorf("pos = %+v, want the origin", pos)
	}

	pos, ok = DecodePosition(0, 0, 0, 0, 1)
	if !ok || pos.LongitudeT32 != 0 || pos.LatitudeT32 != 0 {
		t.Errorf("DecodePosition with mostRecent=1 = %+v, %v, want origin, true", pos, ok)
	}
}

func TestCPRDecoder_MatchesDecodePosition(t *testing.T) {
	decoder := NewCPRDecoder(logrus.New())
	got, ok := decoder.Decode("ABCDEF", 0, 0, 0, 0, 0)
	want, wantOK := DecodePosition(0, 0, 0, 0, 0)
	if ok != wantOK || got != want {
		t.Errorf("CPRDecoder.Decode = %+v, %v, want %+v, %v", got, ok, want, wantOK)
	}
}

func TestCPRDecoder_NilLoggerDoesNotPanic(t *testing.T) {
	decoder := NewCPRDecoder(nil)
	// This input pair decodes to a latitude of about -177 degrees, which
	// DecodePosition rejects, so Decode takes its rejection-logging path
	// without a logger set.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("Decode panicked with a nil logger: %v", r)
		}
	}()
	decoder.Decode("ABCDEF", 0.5, 0.5, 0.5, 59.5/60, 0)
}
