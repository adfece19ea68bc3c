package app

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"go1090/internal/adsb"
	"go1090/internal/aircraft"
	"go1090/internal/api"
	"go1090/internal/beast"
	"go1090/internal/bus"
	"go1090/internal/logging"
	"go1090/internal/pipeline"
	"go1090/internal/rtlsdr"
	"go1090/internal/store"
	"go1090/internal/tracker"
	"go1090/internal/units"
)

// purgeInterval is how often the tracker drops aircraft that have gone
// quiet, decoupled from the UI vsync pulse this package has no analogue
// for.
const purgeInterval = 1 * time.Second

// Application wires the sample pipeline (or one of its alternate raw
// frame sources) to the aircraft tracker and a BaseStation-format output
// stream.
type Application struct {
	config Config
	logger *logrus.Logger

	device *rtlsdr.Device
	stream *rtlsdr.SampleStream

	manager    *tracker.Manager
	logRotator *logging.LogRotator

	// Optional domain-stack components, nil unless their corresponding
	// flag is set, so a default invocation touches neither the
	// filesystem nor the network beyond the sample source itself.
	metadataCache   *store.MetadataCache
	positionArchive *store.PositionArchive
	publisher       *bus.Publisher
	apiServer       *api.Server

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	verbose bool
}

// NewApplication creates a new application instance
func NewApplication(config Config) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	logger := logrus.New()
	if config.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	return &Application{
		config:  config,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		verbose: config.Verbose,
	}
}

// Start initializes every component, starts the configured source, and
// blocks until the process receives a shutdown signal. The consumer stops
// on its own when the source is exhausted; Start still waits for the signal.
func (a *Application) Start() error {
	a.logger.WithFields(logrus.Fields{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting ADS-B decoder")

	if err := a.initializeComponents(); err != nil {
		return fmt.Errorf("failed to initialize components: %w", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := a.run(); err != nil {
		a.logger.WithError(err).Error("Application error")
		return err
	}

	<-sigChan
	a.logger.Info("Received shutdown signal")
	a.shutdown()

	return nil
}

func (a *Application) initializeComponents() error {
	metadataSource, err := a.buildMetadataSource()
	if err != nil {
		return fmt.Errorf("failed to initialize aircraft metadata source: %w", err)
	}

	a.manager = tracker.NewManager(metadataSource, a.logger)

	logRotator, err := logging.NewLogRotator(a.config.LogDir, a.config.LogRotateUTC, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize log rotator: %w", err)
	}
	a.logRotator = logRotator

	if a.config.PostgresDSN != "" {
		archive, err := store.OpenPositionArchive(a.ctx, a.config.PostgresDSN)
		if err != nil {
			return fmt.Errorf("failed to initialize position archive: %w", err)
		}
		a.positionArchive = archive
	}

	if a.config.NATSURL != "" {
		publisher, err := bus.Connect(a.config.NATSURL)
		if err != nil {
			return fmt.Errorf("failed to connect to NATS: %w", err)
		}
		a.publisher = publisher
	}

	if a.config.APIAddr != "" {
		a.apiServer = api.NewServer(a.manager.KnownStates, a.stateByICAOString, a.logger)
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			if err := a.apiServer.Serve(a.ctx, a.config.APIAddr); err != nil {
				a.logger.WithError(err).Error("Status API server failed")
			}
		}()
	}

	if a.config.CaptureFile != "" || a.config.BeastAddr != "" {
		return nil
	}

	device, err := rtlsdr.NewDevice(a.config.DeviceIndex, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize RTL-SDR: %w", err)
	}
	if err := device.Configure(a.config.Frequency, a.config.SampleRate, a.config.Gain); err != nil {
		return fmt.Errorf("failed to configure RTL-SDR: %w", err)
	}
	a.device = device
	a.stream = rtlsdr.NewSampleStream()

	return nil
}

// run starts the consumer loop for whichever raw-message source is
// configured (plus the capture goroutine for RTL-SDR); the loop applies
// messages to the tracker and purges stale aircraft on a ticker.
func (a *Application) run() error {
	switch {
	case a.config.CaptureFile != "":
		a.logger.WithField("file", a.config.CaptureFile).Info("Replaying capture file")
		return a.runCaptureFile()
	case a.config.BeastAddr != "":
		a.logger.WithField("addr", a.config.BeastAddr).Info("Connecting to Beast feed")
		return a.runBeastSource()
	default:
		return a.runRTLSDR()
	}
}

func (a *Application) runRTLSDR() error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.device.StartCapture(a.ctx, a.stream); err != nil {
			a.logger.WithError(err).Error("RTL-SDR capture failed")
		}
	}()

	computer, err := pipeline.NewPowerComputer(a.stream, powerBatchSize)
	if err != nil {
		return fmt.Errorf("failed to construct power computer: %w", err)
	}
	demodulator, err := pipeline.NewDemodulator(computer)
	if err != nil {
		return fmt.Errorf("failed to construct demodulator: %w", err)
	}

	a.startConsumer(demodulator.NextMessage)
	return nil
}

func (a *Application) runCaptureFile() error {
	f, err := os.Open(a.config.CaptureFile)
	if err != nil {
		return fmt.Errorf("failed to open capture file: %w", err)
	}

	reader := bufio.NewReader(f)
	next := func() (adsb.RawMessage, bool, error) {
		msg, ok, err := readCaptureRecord(reader)
		if err == io.EOF {
			return adsb.RawMessage{}, false, nil
		}
		return msg, ok, err
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer f.Close()
		a.consume(next)
	}()
	return nil
}

// readCaptureRecord reads one (timestamp_ns, 14-byte frame) record and
// validates it exactly as a demodulated frame would be.
func readCaptureRecord(r io.Reader) (adsb.RawMessage, bool, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return adsb.RawMessage{}, false, err
	}
	var frame [adsb.FrameLength]byte
	if _, err := io.ReadFull(r, frame[:]); err != nil {
		return adsb.RawMessage{}, false, err
	}
	timestampNs := int64(binary.BigEndian.Uint64(header[:]))
	return adsb.NewRawMessage(timestampNs, frame[:])
}

func (a *Application) runBeastSource() error {
	conn, err := net.Dial("tcp", a.config.BeastAddr)
	if err != nil {
		return fmt.Errorf("failed to dial beast feed: %w", err)
	}

	decoder := beast.NewDecoder(a.logger)
	reader := bufio.NewReader(conn)
	buf := make([]byte, 4096)
	var pending []adsb.RawMessage

	next := func() (adsb.RawMessage, bool, error) {
		for len(pending) == 0 {
			n, err := reader.Read(buf)
			if n > 0 {
				messages, decErr := decoder.Decode(buf[:n])
				if decErr != nil {
					return adsb.RawMessage{}, false, decErr
				}
				for _, m := range messages {
					if raw, ok := rawMessageFromBeast(m); ok {
						pending = append(pending, raw)
					}
				}
			}
			if err != nil {
				return adsb.RawMessage{}, false, err
			}
		}
		msg := pending[0]
		pending = pending[1:]
		return msg, true, nil
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer conn.Close()
		a.consume(next)
	}()
	return nil
}

// rawMessageFromBeast converts a 112-bit Beast Mode S message to a raw
// ADS-B frame, attempting CRC error correction before giving up on it —
// the single- and two-bit recovery dump1090-style Beast sources expect.
func rawMessageFromBeast(m *beast.Message) (adsb.RawMessage, bool) {
	if m.MessageType != beast.ModeSLong || len(m.Data) != adsb.FrameLength {
		return adsb.RawMessage{}, false
	}
	var frame [adsb.FrameLength]byte
	copy(frame[:], m.Data)

	timestampNs := m.Timestamp.UnixNano()
	if timestampNs < 0 {
		timestampNs = 0
	}

	if msg, ok, err := adsb.NewRawMessage(timestampNs, frame[:]); err == nil && ok {
		return msg, true
	}

	crc := adsb.CRC24(frame[:])
	corrected, bitsFlipped := adsb.CorrectErrors(frame, crc)
	if bitsFlipped == 0 {
		return adsb.RawMessage{}, false
	}
	msg, ok, err := adsb.NewRawMessage(timestampNs, corrected[:])
	if err != nil || !ok {
		return adsb.RawMessage{}, false
	}
	return msg, true
}

// nextMessageFunc produces the next raw, CRC-valid frame from whichever
// source is active, or (zero value, false, nil) at clean end of stream.
type nextMessageFunc func() (adsb.RawMessage, bool, error)

func (a *Application) startConsumer(next nextMessageFunc) {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		a.consume(next)
	}()
}

// consume pulls raw messages from next, parses and applies them to the
// tracker, and periodically purges stale aircraft — the single consumer
// task of the pipeline's producer/consumer split.
func (a *Application) consume(next nextMessageFunc) {
	purgeTicker := time.NewTicker(purgeInterval)
	defer purgeTicker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-purgeTicker.C:
			a.manager.Purge()
		default:
		}

		raw, ok, err := next()
		if err != nil {
			a.logger.WithError(err).Error("Raw message source failed")
			return
		}
		if !ok {
			a.logger.Info("Raw message source exhausted")
			return
		}

		message, ok := adsb.ParseMessage(raw)
		if !ok {
			continue
		}
		if err := a.manager.UpdateWithMessage(message); err != nil {
			a.logger.WithError(err).Debug("Failed to update tracker")
			continue
		}
		if err := a.writeSBS(message); err != nil {
			a.logger.WithError(err).Debug("Failed to write SBS message")
		}
		a.fanOut(message)
	}
}

// writeSBS appends a BaseStation (SBS-1) format line describing message,
// filled out with the tracked aircraft's latest known fields.
func (a *Application) writeSBS(message adsb.Message) error {
	icaoAddress, err := aircraft.NewICAOAddress(message.ICAO())
	if err != nil {
		return err
	}
	state, ok := a.manager.State(icaoAddress)
	if !ok {
		return nil
	}

	line := formatSBS(message, state)
	if line == "" {
		return nil
	}

	writer, err := a.logRotator.GetWriter()
	if err != nil {
		return fmt.Errorf("failed to get log writer: %w", err)
	}
	if _, err := writer.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("failed to write to log: %w", err)
	}
	fmt.Print(line + "\n")
	return nil
}

// formatSBS renders one BaseStation MSG line for message, reading
// whichever fields it needs from state rather than re-deriving them —
// an airborne-position message, for instance, reports altitude decoded
// moments earlier in the very same message.
func formatSBS(message adsb.Message, state *tracker.AircraftState) string {
	now := time.Now().UTC()
	dateStr := now.Format("2006/01/02")
	timeStr := now.Format("15:04:05.000")
	icao := message.ICAO()

	const sessionID, aircraftID, flightID = "1", "1", "1"

	var transmissionType string
	callSign, altitude, groundSpeed, track, latitude, longitude, verticalRate := "", "", "", "", "", "", ""

	switch message.(type) {
	case adsb.IdentificationMessage:
		transmissionType = "1"
		callSign = state.CallSign()
	case adsb.AirbornePositionMessage:
		transmissionType = "3"
		if alt, ok := state.Altitude(); ok {
			altitude = fmt.Sprintf("%.0f", units.ConvertTo(alt, units.Foot))
		}
		if pos, ok := state.Position(); ok {
			latitude = fmt.Sprintf("%.6f", units.ConvertTo(pos.Latitude(), units.Degree))
			longitude = fmt.Sprintf("%.6f", units.ConvertTo(pos.Longitude(), units.Degree))
		}
	case adsb.AirborneVelocityMessage:
		transmissionType = "4"
		groundSpeed = fmt.Sprintf("%.0f", units.ConvertTo(state.Velocity(), units.Knot))
		track = fmt.Sprintf("%.1f", units.ConvertTo(state.TrackOrHeading(), units.Degree))
	default:
		return ""
	}

	return fmt.Sprintf("MSG,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,%s,,,,,",
		transmissionType, sessionID, aircraftID, icao, flightID,
		dateStr, timeStr, dateStr, timeStr,
		callSign, altitude, groundSpeed, track, latitude, longitude, verticalRate)
}

// shutdown gracefully shuts down the application
func (a *Application) shutdown() {
	a.logger.Info("Shutting down application")
	a.cancel()

	done := make(chan struct{})
	go func() {
		a.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		a.logger.Info("All goroutines finished")
	case <-time.After(5 * time.Second):
		a.logger.Warn("Shutdown timeout, forcing exit")
	}

	if a.device != nil {
		a.device.Close()
	}
	if a.logRotator != nil {
		a.logRotator.Close()
	}
	if a.metadataCache != nil {
		_ = a.metadataCache.Close()
	}
	if a.positionArchive != nil {
		a.positionArchive.Close()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}

	a.logger.Info("Shutdown completed")
}

// cachingMetadataSource consults a local cache before falling back to the
// ZIP archive, populating the cache on a hit from the archive so later
// lookups of the same address avoid a fresh linear scan.
type cachingMetadataSource struct {
	database *aircraft.Database
	cache    *store.MetadataCache
}

func (s *cachingMetadataSource) Get(icaoAddress aircraft.ICAOAddress) (aircraft.Data, error) {
	if s.cache != nil {
		if data, ok, err := s.cache.Get(icaoAddress); err == nil && ok {
			return data, nil
		}
	}
	data, err := s.database.Get(icaoAddress)
	if err != nil {
		return aircraft.Data{}, err
	}
	if s.cache != nil {
		_ = s.cache.Put(icaoAddress, data)
	}
	return data, nil
}

// buildMetadataSource wires the ZIP-archive lookup (if configured) behind
// an optional SQLite cache. It returns a nil tracker.MetadataSource when
// no database path is configured, which Manager treats as "no metadata
// available".
func (a *Application) buildMetadataSource() (tracker.MetadataSource, error) {
	if a.config.DatabasePath == "" {
		return nil, nil
	}

	database := aircraft.NewDatabase(a.config.DatabasePath)
	if a.config.MetadataCachePath == "" {
		return database, nil
	}

	cache, err := store.OpenMetadataCache(a.config.MetadataCachePath)
	if err != nil {
		return nil, err
	}
	a.metadataCache = cache
	return &cachingMetadataSource{database: database, cache: cache}, nil
}

// stateByICAOString adapts tracker.Manager.State's aircraft.ICAOAddress
// key to the plain string the HTTP API receives from a URL path segment.
func (a *Application) stateByICAOString(icao string) (*tracker.AircraftState, bool) {
	icaoAddress, err := aircraft.NewICAOAddress(icao)
	if err != nil {
		return nil, false
	}
	return a.manager.State(icaoAddress)
}

// fanOut publishes message to every optional out-of-process sink that's
// configured: the NATS publisher and the Postgres position archive.
func (a *Application) fanOut(message adsb.Message) {
	if a.publisher != nil {
		if err := a.publisher.Publish(message); err != nil {
			a.logger.WithError(err).Debug("Failed to publish message")
		}
	}

	if a.positionArchive == nil {
		return
	}
	if _, ok := message.(adsb.AirbornePositionMessage); !ok {
		return
	}
	icaoAddress, err := aircraft.NewICAOAddress(message.ICAO())
	if err != nil {
		return
	}
	state, ok := a.manager.State(icaoAddress)
	if !ok {
		return
	}
	pos, ok := state.Position()
	if !ok {
		return
	}
	altitudeM, _ := state.Altitude()
	if err := a.positionArchive.RecordPosition(a.ctx, message.ICAO(), message.Timestamp(), pos.Latitude(), pos.Longitude(), altitudeM); err != nil {
		a.logger.WithError(err).Debug("Failed to archive position")
	}
}
