package app

// Default configuration constants
const (
	DefaultFrequency  = 1090000000 // 1090 MHz
	DefaultSampleRate = 2400000    // 2.4 MHz (same as dump1090)
	DefaultGain       = 40         // Manual gain
)

// powerBatchSize is the number of power samples produced per pipeline
// read. It must match the power window's fixed 65536-sample buffer size:
// each time the window reaches a buffer boundary, PowerWindow.Advance
// refills a whole buffer with one ReadBatch call, so a smaller
// PowerComputer batch would leave most of that buffer stale.
const powerBatchSize = 1 << 16

// Config holds application configuration
type Config struct {
	Frequency    uint32
	SampleRate   uint32
	Gain         int
	DeviceIndex  int
	LogDir       string
	LogRotateUTC bool
	Verbose      bool
	ShowVersion  bool

	// CaptureFile, if set, replays a recorded capture (timestamp_ns +
	// 14-byte frame records, see the capture file format) instead of
	// reading from an RTL-SDR device. The demodulator is bypassed
	// entirely.
	CaptureFile string

	// BeastAddr, if set, dials a Beast-protocol TCP feed (host:port)
	// instead of an RTL-SDR device or capture file.
	BeastAddr string

	// DatabasePath, if set, points at a ZIP archive of aircraft
	// metadata CSVs used to annotate newly observed aircraft.
	DatabasePath string

	// MetadataCachePath, if set, points at a SQLite file used to cache
	// aircraft metadata lookups across runs instead of re-scanning the
	// ZIP archive for every address.
	MetadataCachePath string

	// PostgresDSN, if set, mirrors accepted positions to a Postgres
	// table for retention beyond the tracker's 60-second purge window.
	PostgresDSN string

	// NATSURL, if set, publishes every accepted message as JSON to a
	// NATS subject per ICAO address.
	NATSURL string

	// APIAddr, if set, serves a read-only JSON snapshot of the known
	// aircraft set on this address (e.g. ":8080").
	APIAddr string
}
