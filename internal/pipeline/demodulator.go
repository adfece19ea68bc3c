package pipeline

import (
	"io"

	"go1090/internal/adsb"
)

// demodWindowSize is 120us of samples at 10 samples/us: 8us preamble plus
// 112us of payload.
const demodWindowSize = 1200

// samplesPerBit is the number of power samples spanned by one payload bit
// (1 sample = 100ns, 1 bit = 1us).
const samplesPerBit = 10

// nanosecondsPerSample is the sample period, used to timestamp accepted
// frames from the window's absolute sample position.
const nanosecondsPerSample = 100

// Demodulator locates Mode S preambles in a power stream and demodulates
// the 112 bits that follow into 14-byte raw frames.
type Demodulator struct {
	window *PowerWindow
}

// NewDemodulator wraps computer with a power window sized for preamble
// detection and bit demodulation.
func NewDemodulator(computer *PowerComputer) (*Demodulator, error) {
	window, err := NewPowerWindow(computer, demodWindowSize)
	if err != nil {
		return nil, err
	}
	return &Demodulator{window: window}, nil
}

func peakSum(w *PowerWindow, k int) uint32 {
	return w.Get(k) + w.Get(k+10) + w.Get(k+35) + w.Get(k+45)
}

func valleySum(w *PowerWindow, k int) uint32 {
	return w.Get(k+5) + w.Get(k+15) + w.Get(k+20) + w.Get(k+25) + w.Get(k+30) + w.Get(k+40)
}

func isPeakFound(prevSum, curSum, nextSum uint32) bool {
	return prevSum < curSum && curSum > nextSum
}

func decodeBit(w *PowerWindow, bitIndex int) int {
	if w.Get(80+samplesPerBit*bitIndex) < w.Get(85+samplesPerBit*bitIndex) {
		return 0
	}
	return 1
}

func decodeByte(w *PowerWindow, byteIndex int) byte {
	var b byte
	for i := 0; i < 8; i++ {
		b = (b << 1) | byte(decodeBit(w, byteIndex*8+i))
	}
	return b
}

// NextMessage returns the next successfully decoded and CRC-validated raw
// message, or (zero value, false, nil) at end of stream.
func (d *Demodulator) NextMessage() (adsb.RawMessage, bool, error) {
	w := d.window
	prevSum := peakSum(w, 0)

	for w.IsFull() {
		curSum := peakSum(w, 0)
		if isPeakFound(prevSum, curSum, peakSum(w, 1)) && curSum >= 2*valleySum(w, 0) {
			byte0 := decodeByte(w, 0)
			if adsb.FrameSize(byte0) == adsb.FrameLength {
				frame := [adsb.FrameLength]byte{byte0}
				for i := 1; i < adsb.FrameLength; i++ {
					frame[i] = decodeByte(w, i)
				}
				timestampNs := w.Position() * nanosecondsPerSample
				msg, ok, err := adsb.NewRawMessage(timestampNs, frame[:])
				if err != nil {
					return adsb.RawMessage{}, false, err
				}
				if ok {
					if err := w.AdvanceBy(demodWindowSize); err != nil {
						return adsb.RawMessage{}, false, err
					}
					return msg, true, nil
				}
			}
		}
		prevSum = curSum
		if err := w.Advance(); err != nil {
			if err == io.EOF {
				return adsb.RawMessage{}, false, nil
			}
			return adsb.RawMessage{}, false, err
		}
	}
	return adsb.RawMessage{}, false, nil
}
