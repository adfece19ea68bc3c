package app

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go1090/internal/adsb"
	"go1090/internal/aircraft"
	"go1090/internal/tracker"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{
			name: "Default configuration",
			config: Config{
				Frequency:    DefaultFrequency,
				SampleRate:   DefaultSampleRate,
				Gain:         DefaultGain,
				DeviceIndex:  0,
				LogDir:       "./logs",
				LogRotateUTC: true,
			},
		},
		{
			name: "Capture file configuration",
			config: Config{
				CaptureFile: "/tmp/capture.bin",
				LogDir:      "/tmp/logs",
				Verbose:     true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.config.Frequency, tt.config.Frequency)
			assert.Equal(t, tt.config.CaptureFile, tt.config.CaptureFile)
		})
	}
}

func TestConstants(t *testing.T) {
	assert.Equal(t, uint32(1090000000), uint32(DefaultFrequency))
	assert.Equal(t, uint32(2400000), uint32(DefaultSampleRate))
	assert.Equal(t, 40, DefaultGain)
}

func TestShowVersion(t *testing.T) {
	assert.NotPanics(t, func() {
		ShowVersion()
	})
}

func TestNewApplication(t *testing.T) {
	config := Config{
		Frequency:    DefaultFrequency,
		SampleRate:   DefaultSampleRate,
		Gain:         DefaultGain,
		DeviceIndex:  0,
		LogDir:       "./test_logs",
		LogRotateUTC: true,
	}

	application := NewApplication(config)

	assert.NotNil(t, application)
	assert.NotNil(t, application.logger)
	assert.Equal(t, config.Frequency, application.config.Frequency)
}

func TestNewApplication_Verbose(t *testing.T) {
	application := NewApplication(Config{Verbose: true})
	assert.NotNil(t, application)
	assert.Equal(t, logrus.DebugLevel, application.logger.GetLevel())
}

func TestReadCaptureRecord(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/capture.bin"

	frame := []byte{0x8D, 0x4B, 0x17, 0xE5, 0x99, 0x11, 0x08, 0xAE, 0xCD, 0xA0, 0x7D, 0x74, 0x3C, 0x27}

	f, err := os.Create(path)
	require.NoError(t, err)
	header := make([]byte, 8)
	header[7] = 42
	_, err = f.Write(header)
	require.NoError(t, err)
	_, err = f.Write(frame)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	r, err := os.Open(path)
	require.NoError(t, err)
	defer r.Close()

	msg, _, err := readCaptureRecord(r)
	require.NoError(t, err)
	assert.Equal(t, int64(42), msg.TimestampNs)

	_, _, err = readCaptureRecord(r)
	assert.Error(t, err)
}

func TestFormatSBS(t *testing.T) {
	icaoAddress, err := aircraft.NewICAOAddress("4B17E5")
	require.NoError(t, err)
	state := tracker.NewAircraftState(icaoAddress, aircraft.Data{})
	state.SetCallSign("UAL123")

	line := formatSBS(adsb.IdentificationMessage{}, state)
	assert.Contains(t, line, "MSG,1,")
	assert.Contains(t, line, "UAL123")
}

func TestFormatSBS_UnrecognizedMessage(t *testing.T) {
	icaoAddress, err := aircraft.NewICAOAddress("4B17E5")
	require.NoError(t, err)
	state := tracker.NewAircraftState(icaoAddress, aircraft.Data{})

	assert.Equal(t, "", formatSBS(nil, state))
}

func TestBuildMetadataSource_NoDatabasePathReturnsNil(t *testing.T) {
	application := NewApplication(Config{})
	source, err := application.buildMetadataSource()
	require.NoError(t, err)
	assert.Nil(t, source)
}

func TestBuildMetadataSource_DatabasePathWithoutCache(t *testing.T) {
	application := NewApplication(Config{DatabasePath: "/tmp/does-not-need-to-exist.zip"})
	source, err := application.buildMetadataSource()
	require.NoError(t, err)
	assert.NotNil(t, source)
	assert.Nil(t, application.metadataCache)
}

func TestBuildMetadataSource_DatabasePathWithCache(t *testing.T) {
	dir := t.TempDir()
	application := NewApplication(Config{
		DatabasePath:      "/tmp/does-not-need-to-exist.zip",
		MetadataCachePath: dir + "/cache.db",
	})
	source, err := application.buildMetadataSource()
	require.NoError(t, err)
	assert.NotNil(t, source)
	require.NotNil(t, application.metadataCache)
	application.metadataCache.Close()
}

func TestStateByICAOString_InvalidAddressReturnsFalse(t *testing.T) {
	application := NewApplication(Config{})
	application.manager = tracker.NewManager(nil, nil)

	_, ok := application.stateByICAOString("not-an-icao")
	assert.False(t, ok)
}

func TestStateByICAOString_UnknownAddressReturnsFalse(t *testing.T) {
	application := NewApplication(Config{})
	application.manager = tracker.NewManager(nil, nil)

	_, ok := application.stateByICAOString("4B17E5")
	assert.False(t, ok)
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.RemoveAll("./test_logs")
	os.Exit(code)
}
