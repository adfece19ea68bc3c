package tracker

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go1090/internal/adsb"
	"go1090/internal/aircraft"
)

// staleAfter is how long an aircraft can go without a message before
// Purge drops it from the tracker.
const staleAfter = 60 * time.Second

// MetadataSource looks up an aircraft's database metadata by ICAO
// address, returning aircraft.ErrNotFound (or any other error) when
// there's no record. *aircraft.Database and internal/app's
// cachingMetadataSource (the database behind a store.MetadataCache) both
// satisfy this.
type MetadataSource interface {
	Get(icaoAddress aircraft.ICAOAddress) (aircraft.Data, error)
}

// Manager tracks every aircraft currently being observed, applying
// incoming messages to per-ICAO state accumulators and retiring aircraft
// that have gone quiet.
type Manager struct {
	database MetadataSource
	logger   *logrus.Logger
	cpr      *adsb.CPRDecoder

	mu           sync.RWMutex
	accumulators map[aircraft.ICAOAddress]*adsb.StateAccumulator[*AircraftState]
	lastUpdateNs int64
}

// NewManager constructs a Manager that looks up aircraft metadata from
// database (may be nil, in which case every aircraft's Data is the zero
// value) and logs through logger.
func NewManager(database MetadataSource, logger *logrus.Logger) *Manager {
	return &Manager{
		database:     database,
		logger:       logger,
		cpr:          adsb.NewCPRDecoder(logger),
		accumulators: make(map[aircraft.ICAOAddress]*adsb.StateAccumulator[*AircraftState]),
	}
}

// UpdateWithMessage routes message to the accumulator for its ICAO
// address, creating one (and looking up its database metadata) on first
// sight.
func (m *Manager) UpdateWithMessage(message adsb.Message) error {
	icaoAddress, err := aircraft.NewICAOAddress(message.ICAO())
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.lastUpdateNs = message.Timestamp()
	acc, ok := m.accumulators[icaoAddress]
	if !ok {
		data := m.lookup(icaoAddress)
		acc = adsb.NewStateAccumulator[*AircraftState](NewAircraftState(icaoAddress, data), m.cpr)
		m.accumulators[icaoAddress] = acc
	}
	m.mu.Unlock()

	acc.Update(message)
	return nil
}

func (m *Manager) lookup(icaoAddress aircraft.ICAOAddress) aircraft.Data {
	if m.database == nil {
		return aircraft.Data{}
	}
	data, err := m.database.Get(icaoAddress)
	if err != nil {
		if m.logger != nil {
			m.logger.WithFields(logrus.Fields{
				"icao":  icaoAddress.String(),
				"error": err,
			}).Debug("no aircraft metadata")
		}
		return aircraft.Data{}
	}
	return data
}

// State returns the tracked state for icaoAddress, if any message has been
// seen for it yet.
func (m *Manager) State(icaoAddress aircraft.ICAOAddress) (*AircraftState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	acc, ok := m.accumulators[icaoAddress]
	if !ok {
		return nil, false
	}
	return acc.State(), true
}

// KnownStates returns the state of every aircraft with a known position.
func (m *Manager) KnownStates() []*AircraftState {
	m.mu.RLock()
	defer m.mu.RUnlock()

	states := make([]*AircraftState, 0, len(m.accumulators))
	for _, acc := range m.accumulators {
		state := acc.State()
		if _, ok := state.Position(); ok {
			states = append(states, state)
		}
	}
	return states
}

// Purge drops every aircraft whose last message is older than staleAfter
// relative to the manager's own last-update timestamp.
func (m *Manager) Purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.lastUpdateNs - staleAfter.Nanoseconds()
	purged := 0
	for icaoAddress, acc := range m.accumulators {
		if acc.State().LastMessageTimestampNs() < cutoff {
			delete(m.accumulators, icaoAddress)
			purged++
		}
	}
	if purged > 0 && m.logger != nil {
		m.logger.WithField("count", purged).Debug("purged stale aircraft")
	}
}
