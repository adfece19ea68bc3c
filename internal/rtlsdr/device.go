// Package rtlsdr wraps librtlsdr (via gortlsdr) to drive an RTL2832-based
// SDR dongle, and adapts its native 8-bit unsigned I/Q stream into the
// 12-bit little-endian sample format internal/pipeline expects.
package rtlsdr

import (
	"context"
	"errors"
	"fmt"

	rtlsdr "github.com/jpoirier/gortlsdr"
	"github.com/sirupsen/logrus"
)

// BufferChunkSize is the unit of the async read buffer; StartCapture asks
// librtlsdr for 16 of these (256 KiB) per callback.
const BufferChunkSize = 16384 // 16KB chunk size for RTL-SDR buffer

// Device represents an RTL-SDR device tuned to receive 1090MHz Mode S
// extended squitter transmissions.
type Device struct {
	device   *rtlsdr.Context
	logger   *logrus.Logger
	index    int
	isOpen   bool
	cancelFn context.CancelFunc
}

// NewDevice opens a handle to the index'th RTL-SDR device attached to the
// host.
func NewDevice(index int, logger *logrus.Logger) (*Device, error) {
	count := rtlsdr.GetDeviceCount()
	if count == 0 {
		return nil, errors.New("no RTL-SDR devices found")
	}
	if index >= count {
		return nil, fmt.Errorf("device index %d out of range (0-%d)", index, count-1)
	}
	return &Device{logger: logger, index: index}, nil
}

// Configure tunes the device to frequency at sampleRate, with gain in dB
// (0 selects automatic gain).
func (d *Device) Configure(frequency, sampleRate uint32, gain int) error {
	var err error

	d.device, err = rtlsdr.Open(d.index)
	if err != nil {
		return fmt.Errorf("failed to open device: %w", err)
	}
	d.isOpen = true

	if err := d.device.SetCenterFreq(int(frequency)); err != nil {
		return fmt.Errorf("failed to set frequency: %w", err)
	}
	if err := d.device.SetSampleRate(int(sampleRate)); err != nil {
		return fmt.Errorf("failed to set sample rate: %w", err)
	}

	if gain == 0 {
		if err := d.device.SetTunerGainMode(false); err != nil {
			return fmt.Errorf("failed to set auto gain: %w", err)
		}
	} else {
		if err := d.device.SetTunerGainMode(true); err != nil {
			return fmt.Errorf("failed to set manual gain mode: %w", err)
		}
		if err := d.device.SetTunerGain(gain * 10); err != nil {
			return fmt.Errorf("failed to set gain: %w", err)
		}
	}

	if err := d.device.ResetBuffer(); err != nil {
		return fmt.Errorf("failed to reset buffer: %w", err)
	}

	d.logger.WithFields(logrus.Fields{
		"device_index": d.index,
		"frequency":    frequency,
		"sample_rate":  sampleRate,
		"gain":         gain,
	}).Info("RTL-SDR device configured successfully")

	return nil
}

// StartCapture reads raw 8-bit unsigned I/Q bytes from the device until
// ctx is cancelled, repacking each pair into a 12-bit little-endian
// sample pair and delivering it on out. Delivery is best-effort: if out
// falls behind, chunks are dropped rather than block the callback.
func (d *Device) StartCapture(ctx context.Context, out *SampleStream) error {
	if !d.isOpen {
		return errors.New("device not open")
	}

	captureCtx, cancel := context.WithCancel(ctx)
	d.cancelFn = cancel

	bufLen := 16 * BufferChunkSize

	callback := func(data []byte) {
		if !out.Push(data) {
			d.logger.Debug("Dropping data, sample stream buffer full")
		}
	}

	d.logger.Info("Starting RTL-SDR capture")

	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.logger.WithField("panic", r).Error("RTL-SDR capture panic")
			}
		}()
		if err := d.device.ReadAsync(callback, nil, 0, bufLen); err != nil {
			d.logger.WithError(err).Error("RTL-SDR read async failed")
		}
	}()

	<-captureCtx.Done()

	if err := d.device.CancelAsync(); err != nil {
		d.logger.WithError(err).Error("Failed to cancel async reading")
	}
	out.Close()

	return nil
}

// Close releases the device.
func (d *Device) Close() error {
	if d.cancelFn != nil {
		d.cancelFn()
	}
	if d.device != nil && d.isOpen {
		if err := d.device.Close(); err != nil {
			return fmt.Errorf("failed to close device: %w", err)
		}
		d.isOpen = false
		d.logger.Info("RTL-SDR device closed")
	}
	return nil
}
