package pipeline

import (
	"fmt"
	"io"
)

// defaultBatchSize is B in the spec: the fixed capacity of each of the
// window's two underlying buffers. It must be a power of two so that
// modulo B reduces to a bitmask.
const defaultBatchSize = 1 << 16 // 65536

// PowerWindow presents a random-access, fixed-size window over a power
// stream of unbounded length, backed by two alternating buffers of
// defaultBatchSize values each so that get(i) stays O(1) across batch
// boundaries without copying.
type PowerWindow struct {
	computer *PowerComputer

	windowSize int
	position   int64

	current, next   []uint32
	totalSamplesRead int64
}

// NewPowerWindow reads the first batch from computer and constructs a
// window of the given size. windowSize must be in (0, defaultBatchSize].
func NewPowerWindow(computer *PowerComputer, windowSize int) (*PowerWindow, error) {
	if windowSize <= 0 || windowSize > defaultBatchSize {
		return nil, fmt.Errorf("pipeline: power window size must be in (0, %d], got %d", defaultBatchSize, windowSize)
	}
	w := &PowerWindow{
		computer:   computer,
		windowSize: windowSize,
		current:    make([]uint32, defaultBatchSize),
		next:       make([]uint32, defaultBatchSize),
	}
	n, err := computer.ReadBatch(w.current)
	if err != nil && err != io.EOF {
		return nil, err
	}
	w.totalSamplesRead = int64(n)
	return w, nil
}

// Size returns the window width.
func (w *PowerWindow) Size() int { return w.windowSize }

// Position returns the absolute index of window element 0.
func (w *PowerWindow) Position() int64 { return w.position }

// IsFull reports whether the window is entirely backed by real
// (non-padding) data.
func (w *PowerWindow) IsFull() bool {
	return w.position+int64(w.windowSize) <= w.totalSamplesRead
}

func (w *PowerWindow) realPos() int64 {
	return w.position & (defaultBatchSize - 1)
}

// Get returns the power sample at position+index, for 0 <= index <
// windowSize.
func (w *PowerWindow) Get(index int) uint32 {
	if index < 0 || index >= w.windowSize {
		panic(fmt.Sprintf("pipeline: power window index %d out of bounds (size %d)", index, w.windowSize))
	}
	batchIndex := (w.position + int64(index)) & (defaultBatchSize - 1)
	if w.realPos()+int64(index) < defaultBatchSize {
		return w.current[batchIndex]
	}
	return w.next[batchIndex]
}

// Advance moves the window forward by one sample, refilling and swapping
// the double buffer as needed.
func (w *PowerWindow) Advance() error {
	w.position++
	if w.realPos()+int64(w.windowSize)-1 == defaultBatchSize {
		n, err := w.computer.ReadBatch(w.next)
		if err != nil && err != io.EOF {
			return err
		}
		w.totalSamplesRead += int64(n)
	}
	if w.realPos() == 0 {
		w.current, w.next = w.next, w.current
	}
	return nil
}

// AdvanceBy advances the window by n samples, n >= 0.
func (w *PowerWindow) AdvanceBy(n int) error {
	if n < 0 {
		panic(fmt.Sprintf("pipeline: power window AdvanceBy negative offset %d", n))
	}
	for i := 0; i < n; i++ {
		if err := w.Advance(); err != nil {
			return err
		}
	}
	return nil
}
