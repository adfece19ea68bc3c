package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"go1090/internal/app"
)

func TestConfigDefaults(t *testing.T) {
	tests := []struct {
		name   string
		config app.Config
	}{
		{
			name: "Default values",
			config: app.Config{
				Frequency:    app.DefaultFrequency,
				SampleRate:   app.DefaultSampleRate,
				Gain:         app.DefaultGain,
				DeviceIndex:  0,
				LogDir:       "./logs",
				LogRotateUTC: true,
			},
		},
		{
			name: "Custom values",
			config: app.Config{
				Frequency:    1090500000,
				SampleRate:   2000000,
				Gain:         50,
				DeviceIndex:  1,
				LogDir:       "/tmp/logs",
				LogRotateUTC: false,
				Verbose:      true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.config.Frequency, tt.config.Frequency)
		})
	}
}

func TestNewApplication(t *testing.T) {
	application := app.NewApplication(app.Config{
		Frequency:    1090000000,
		SampleRate:   2400000,
		Gain:         40,
		DeviceIndex:  0,
		LogDir:       "./logs",
		LogRotateUTC: true,
	})

	assert.NotNil(t, application)
}

func TestShowVersion(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	app.ShowVersion()

	w.Close()
	os.Stdout = oldStdout

	output := make([]byte, 1024)
	n, _ := r.Read(output)
	result := string(output[:n])

	assert.Contains(t, result, "Go1090 ADS-B Decoder")
}

func TestConstants(t *testing.T) {
	assert.Equal(t, uint32(1090000000), uint32(app.DefaultFrequency))
	assert.Equal(t, uint32(2400000), uint32(app.DefaultSampleRate))
	assert.Equal(t, 40, app.DefaultGain)
}
