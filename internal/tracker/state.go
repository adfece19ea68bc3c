// Package tracker holds the last known state of every aircraft currently
// being observed, keyed by ICAO address, and retires aircraft that have
// gone quiet.
package tracker

import (
	"sync"

	"go1090/internal/aircraft"
	"go1090/internal/geo"
)

// AirbornePos is one point of an aircraft's recorded trajectory.
type AirbornePos struct {
	Position geo.Pos
	AltitudeM float64
}

// AircraftState is a single aircraft's mutable, concurrency-safe state. It
// implements adsb.StateSetter, so a StateAccumulator can drive it directly
// from decoded messages.
type AircraftState struct {
	icaoAddress aircraft.ICAOAddress
	data        aircraft.Data // zero value if the aircraft is absent from the database

	mu                      sync.RWMutex
	lastMessageTimestampNs  int64
	category                int
	callSign                string
	position                geo.Pos
	havePosition            bool
	altitudeM               float64
	haveAltitude            bool
	speedMPS                float64
	trackOrHeading          float64
	trajectory              []AirbornePos
	trajectoryLastUpdatedNs int64
}

// NewAircraftState constructs empty state for icaoAddress, annotated with
// whatever metadata the database has on file (the zero Data value if
// none).
func NewAircraftState(icaoAddress aircraft.ICAOAddress, data aircraft.Data) *AircraftState {
	return &AircraftState{icaoAddress: icaoAddress, data: data}
}

// ICAOAddress returns the address this state tracks.
func (s *AircraftState) ICAOAddress() aircraft.ICAOAddress { return s.icaoAddress }

// Data returns the aircraft's database metadata, the zero value if unknown.
func (s *AircraftState) Data() aircraft.Data {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// LastMessageTimestampNs returns the timestamp of the most recent message
// applied to this state.
func (s *AircraftState) LastMessageTimestampNs() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastMessageTimestampNs
}

// SetLastMessageTimestampNs implements adsb.StateSetter.
func (s *AircraftState) SetLastMessageTimestampNs(ts int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastMessageTimestampNs = ts
}

// Category returns the aircraft's last reported ADS-B emitter category.
func (s *AircraftState) Category() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.category
}

// SetCategory implements adsb.StateSetter.
func (s *AircraftState) SetCategory(category int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.category = category
}

// CallSign returns the aircraft's last reported call sign.
func (s *AircraftState) CallSign() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.callSign
}

// SetCallSign implements adsb.StateSetter.
func (s *AircraftState) SetCallSign(callSign string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callSign = callSign
}

// Position returns the aircraft's last decoded position and whether one
// has ever been set.
func (s *AircraftState) Position() (geo.Pos, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position, s.havePosition
}

// SetPosition implements adsb.StateSetter. A new position starts a fresh
// trajectory point whenever an altitude is already known, mirroring the
// way SetAltitude below extends that same point in place if it arrives
// for the same message.
func (s *AircraftState) SetPosition(pos geo.Pos) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.position = pos
	s.havePosition = true
	if s.haveAltitude {
		s.trajectory = append(s.trajectory, AirbornePos{Position: pos, AltitudeM: s.altitudeM})
		s.trajectoryLastUpdatedNs = s.lastMessageTimestampNs
	}
}

// Altitude returns the aircraft's last decoded altitude in meters and
// whether one has ever been set.
func (s *AircraftState) Altitude() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.altitudeM, s.haveAltitude
}

// SetAltitude implements adsb.StateSetter. If this altitude arrives for
// the same message that last extended the trajectory, it refines that
// point in place rather than adding a new one.
func (s *AircraftState) SetAltitude(altitudeM float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.altitudeM = altitudeM
	s.haveAltitude = true
	if !s.havePosition || len(s.trajectory) == 0 {
		return
	}
	if s.lastMessageTimestampNs == s.trajectoryLastUpdatedNs {
		s.trajectory[len(s.trajectory)-1] = AirbornePos{Position: s.position, AltitudeM: altitudeM}
	}
}

// Velocity returns the aircraft's last reported ground speed in m/s.
func (s *AircraftState) Velocity() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.speedMPS
}

// SetVelocity implements adsb.StateSetter.
func (s *AircraftState) SetVelocity(speedMPS float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speedMPS = speedMPS
}

// TrackOrHeading returns the aircraft's last reported track or heading, in
// radians.
func (s *AircraftState) TrackOrHeading() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.trackOrHeading
}

// SetTrackOrHeading implements adsb.StateSetter.
func (s *AircraftState) SetTrackOrHeading(rad float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trackOrHeading = rad
}

// Trajectory returns a defensive copy of the aircraft's recorded
// (position, altitude) history.
func (s *AircraftState) Trajectory() []AirbornePos {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AirbornePos, len(s.trajectory))
	copy(out, s.trajectory)
	return out
}
