// Package api exposes a read-only HTTP snapshot of the known aircraft
// set, a polling complement to the optional NATS push feed for consumers
// that would rather pull.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"

	"go1090/internal/tracker"
	"go1090/internal/units"
)

// KnownStatesFunc returns a snapshot of every aircraft currently known to
// the tracker, decoupling this package from tracker.Manager directly.
type KnownStatesFunc func() []*tracker.AircraftState

// StateFunc looks up one aircraft's state by ICAO address, mirroring
// tracker.Manager.State.
type StateFunc func(icao string) (*tracker.AircraftState, bool)

// Server serves the read-only aircraft snapshot API.
type Server struct {
	router       chi.Router
	knownStates  KnownStatesFunc
	stateForICAO StateFunc
	logger       *logrus.Logger
}

// NewServer builds a chi router with CORS enabled for every origin (this
// is a single-operator, read-only endpoint, not a multi-tenant service).
func NewServer(knownStates KnownStatesFunc, stateForICAO StateFunc, logger *logrus.Logger) *Server {
	s := &Server{knownStates: knownStates, stateForICAO: stateForICAO, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/aircraft", s.handleListAircraft)
	r.Get("/aircraft/{icao}", s.handleGetAircraft)

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Serve listens on addr and blocks until ctx is canceled, at which point
// it shuts the HTTP server down gracefully. A nil error means it shut
// down cleanly; any other error is a startup or shutdown failure.
func (s *Server) Serve(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if s.logger != nil {
			s.logger.WithField("addr", addr).Info("aircraft snapshot API listening")
		}
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// aircraftResponse is the JSON shape of one aircraft in a snapshot.
type aircraftResponse struct {
	ICAO           string    `json:"icao"`
	CallSign       string    `json:"callsign,omitempty"`
	Registration   string    `json:"registration,omitempty"`
	TypeDesignator string    `json:"type_designator,omitempty"`
	Point          *orb.Point `json:"point,omitempty"`
	AltitudeM      *float64  `json:"altitude_m,omitempty"`
	SpeedMPS       float64   `json:"speed_m_per_s"`
	TrackRad       float64   `json:"track_or_heading_rad"`
	LastMessageNs  int64     `json:"last_message_ns"`
}

func toAircraftResponse(state *tracker.AircraftState) aircraftResponse {
	data := state.Data()
	resp := aircraftResponse{
		ICAO:           state.ICAOAddress().String(),
		CallSign:       state.CallSign(),
		Registration:   data.Registration.String(),
		TypeDesignator: data.TypeDesignator.String(),
		SpeedMPS:       state.Velocity(),
		TrackRad:       state.TrackOrHeading(),
		LastMessageNs:  state.LastMessageTimestampNs(),
	}
	if pos, ok := state.Position(); ok {
		point := orb.Point{
			units.ConvertTo(pos.Longitude(), units.Degree),
			units.ConvertTo(pos.Latitude(), units.Degree),
		}
		resp.Point = &point
	}
	if altitudeM, ok := state.Altitude(); ok {
		resp.AltitudeM = &altitudeM
	}
	return resp
}

func (s *Server) handleListAircraft(w http.ResponseWriter, r *http.Request) {
	states := s.knownStates()
	response := make([]aircraftResponse, len(states))
	for i, state := range states {
		response[i] = toAircraftResponse(state)
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleGetAircraft(w http.ResponseWriter, r *http.Request) {
	icao := chi.URLParam(r, "icao")
	state, ok := s.stateForICAO(icao)
	if !ok {
		http.Error(w, "aircraft not found", http.StatusNotFound)
		return
	}
	s.respondJSON(w, http.StatusOK, toAircraftResponse(state))
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil && s.logger != nil {
		s.logger.WithError(err).Debug("failed to encode aircraft snapshot response")
	}
}
