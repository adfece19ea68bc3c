// Package bus publishes accepted ADS-B messages onto a NATS subject for
// consumers outside this process, a push-based complement to the core
// pipeline's pull-based message stream.
package bus

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"go1090/internal/adsb"
)

// subjectPrefix is the NATS subject root accepted messages are published
// under, with the ICAO address appended (e.g. "go1090.messages.4B17E5").
const subjectPrefix = "go1090.messages."

// Publisher publishes decoded messages to a NATS subject per ICAO
// address.
type Publisher struct {
	conn *nats.Conn
}

// Connect dials the NATS server at url.
func Connect(url string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("go1090"),
		nats.ReconnectWait(2*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("bus: connect: %w", err)
	}
	return &Publisher{conn: conn}, nil
}

// envelope is the wire representation of a published message.
type envelope struct {
	TimestampNs int64   `json:"timestamp_ns"`
	ICAO        string  `json:"icao"`
	Kind        string  `json:"kind"`
	Category    int     `json:"category,omitempty"`
	CallSign    string  `json:"callsign,omitempty"`
	Parity      int     `json:"parity,omitempty"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y,omitempty"`
	AltitudeM   float64 `json:"altitude_m,omitempty"`
	SpeedMPS    float64 `json:"speed_m_per_s,omitempty"`
	TrackRad    float64 `json:"track_or_heading_rad,omitempty"`
}

// subjectFor returns the NATS subject a message for icao publishes to.
func subjectFor(icao string) string {
	return subjectPrefix + icao
}

// marshalEnvelope converts message into its wire envelope, the pure part
// of Publish kept separate so it can be tested without a NATS server.
func marshalEnvelope(message adsb.Message) ([]byte, error) {
	env := envelope{
		TimestampNs: message.Timestamp(),
		ICAO:        message.ICAO(),
	}

	switch m := message.(type) {
	case adsb.IdentificationMessage:
		env.Kind = "identification"
		env.Category = m.Category
		env.CallSign = m.CallSign
	case adsb.AirbornePositionMessage:
		env.Kind = "airborne_position"
		env.Parity = m.Parity
		env.X = m.X
		env.Y = m.Y
		env.AltitudeM = m.AltitudeM
	case adsb.AirborneVelocityMessage:
		env.Kind = "airborne_velocity"
		env.SpeedMPS = m.SpeedMPS
		env.TrackRad = m.TrackOrHdg
	default:
		return nil, fmt.Errorf("bus: unrecognized message type %T", message)
	}

	payload, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("bus: marshal message: %w", err)
	}
	return payload, nil
}

// Publish marshals message as JSON and publishes it to
// "go1090.messages.<icao>".
func (p *Publisher) Publish(message adsb.Message) error {
	payload, err := marshalEnvelope(message)
	if err != nil {
		return err
	}
	if err := p.conn.Publish(subjectFor(message.ICAO()), payload); err != nil {
		return fmt.Errorf("bus: publish: %w", err)
	}
	return nil
}

// Close flushes any pending publishes and closes the connection.
func (p *Publisher) Close() {
	_ = p.conn.Flush()
	p.conn.Close()
}
