package adsb

import "go1090/internal/geo"

// maxCPRPairAgeNs is the staleness bound (10s) beyond which an even/odd
// CPR pair is no longer reconciled.
const maxCPRPairAgeNs = 10_000_000_000

// StateSetter is implemented by whatever per-aircraft state type a caller
// wants StateAccumulator to drive. Keeping it as an interface (rather than
// a concrete struct here) lets the tracker package own the actual
// observable aircraft state and its trajectory bookkeeping.
type StateSetter interface {
	SetLastMessageTimestampNs(ts int64)
	SetCategory(category int)
	SetCallSign(callSign string)
	SetPosition(pos geo.Pos)
	SetAltitude(altitudeM float64)
	SetVelocity(speedMPS float64)
	SetTrackOrHeading(rad float64)
}

// StateAccumulator updates a single aircraft's state as messages for it
// arrive, reconciling even/odd CPR position pairs along the way.
type StateAccumulator[T StateSetter] struct {
	state   T
	cpr     *CPRDecoder
	lastPos [2]*AirbornePositionMessage // indexed by parity
}

// NewStateAccumulator wraps state, updating it via cpr for CPR
// reconciliation.
func NewStateAccumulator[T StateSetter](state T, cpr *CPRDecoder) *StateAccumulator[T] {
	return &StateAccumulator[T]{state: state, cpr: cpr}
}

// State returns the wrapped state.
func (a *StateAccumulator[T]) State() T { return a.state }

// Update applies message to the wrapped state, dispatching by its
// concrete type.
func (a *StateAccumulator[T]) Update(message Message) {
	a.state.SetLastMessageTimestampNs(message.Timestamp())

	switch m := message.(type) {
	case IdentificationMessage:
		a.state.SetCategory(m.Category)
		a.state.SetCallSign(m.CallSign)
	case AirbornePositionMessage:
		a.state.SetAltitude(m.AltitudeM)
		a.updatePosition(m)
	case AirborneVelocityMessage:
		a.state.SetVelocity(m.SpeedMPS)
		a.state.SetTrackOrHeading(m.TrackOrHdg)
	}
}

func (a *StateAccumulator[T]) updatePosition(m AirbornePositionMessage) {
	msg := m
	a.lastPos[m.Parity] = &msg

	other := a.lastPos[1-m.Parity]
	if other == nil {
		return
	}
	if abs64(msg.timestampNs-other.timestampNs) > maxCPRPairAgeNs {
		return
	}

	even, odd := a.lastPos[0], a.lastPos[1]
	pos, ok := a.cpr.Decode(m.icao, even.X, even.Y, odd.X, odd.Y, m.Parity)
	if ok {
		a.state.SetPosition(pos)
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
