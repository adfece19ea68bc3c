package pipeline

import (
	"fmt"
	"io"
)

const (
	recentSamples     = 8
	recentSamplesMask = recentSamples - 1
)

// PowerComputer turns decoded I/Q sample pairs into instantaneous power
// values, using a circular buffer of the 8 most recently decoded samples.
type PowerComputer struct {
	decoder *SampleDecoder
	samples []int16
	recent  [recentSamples]int16
	head    int
}

// NewPowerComputer reads from r, emitting batchSize power values per
// ReadBatch call (consuming 2*batchSize samples). batchSize must be
// positive and a multiple of 8.
func NewPowerComputer(r io.Reader, batchSize int) (*PowerComputer, error) {
	if batchSize <= 0 || batchSize%8 != 0 {
		return nil, fmt.Errorf("pipeline: power batch size must be a positive multiple of 8, got %d", batchSize)
	}
	decoder, err := NewSampleDecoder(r, batchSize*2)
	if err != nil {
		return nil, err
	}
	return &PowerComputer{
		decoder: decoder,
		samples: make([]int16, batchSize*2),
	}, nil
}

// ReadBatch fills batch with power values and returns how many were
// produced.
func (p *PowerComputer) ReadBatch(batch []uint32) (int, error) {
	n, err := p.decoder.ReadBatch(p.samples)
	if err != nil {
		return 0, err
	}
	pairs := n / 2
	for i := 0; i < pairs; i++ {
		// The circular buffer is indexed by fixed absolute slots 0..7;
		// head only determines which slot the next I and next Q land in.
		// Because 8 is a multiple of 2, slots 0,2,4,6 always hold I
		// samples and 1,3,5,7 always hold Q samples across the buffer's
		// lifetime. Slot order is age order only when the newest pair sits
		// in slots 6,7; for the other head positions the sums below equal
		// the age-ordered sums or their negation, for I and Q alike, so the
		// squared power is the same.
		p.recent[p.head] = p.samples[2*i]
		p.recent[(p.head+1)&recentSamplesMask] = p.samples[2*i+1]
		p.head = (p.head + 2) & recentSamplesMask

		iComp := int32(p.recent[6]) - int32(p.recent[4]) + int32(p.recent[2]) - int32(p.recent[0])
		qComp := int32(p.recent[7]) - int32(p.recent[5]) + int32(p.recent[3]) - int32(p.recent[1])
		batch[i] = uint32(iComp*iComp + qComp*qComp)
	}
	return pairs, nil
}
