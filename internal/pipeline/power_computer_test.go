package pipeline

import (
	"bytes"
	"testing"
)

func TestNewPowerComputer_RejectsInvalidBatchSize(t *testing.T) {
	if _, err := NewPowerComputer(bytes.NewReader(nil), 3); err == nil {
		t.Error("expected an error for a batch size that is not a multiple of 8")
	}
	if _, err := NewPowerComputer(bytes.NewReader(nil), 0); err == nil {
		t.Error("expected an error for a zero batch size")
	}
}

func TestPowerComputer_ReadBatch(t *testing.T) {
	var buf bytes.Buffer
	samples := []int{1, 0, 0, 0, 0, 0, 0, 0} // I0=1, all other I/Q samples 0
	for _, s := range samples {
		buf.Write(encodeSample(s))
	}

	computer, err := NewPowerComputer(&buf, 8)
	if err != nil {
		t.Fatal(err)
	}

	batch := make([]uint32, 8)
	n, err := computer.ReadBatch(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
	for i := 0; i < 4; i++ {
		if batch[i] != 1 {
			t.Errorf("batch[%d] = %d, want 1", i, batch[i])
		}
	}
}

func TestPowerComputer_ReadBatch_AllZero(t *testing.T) {
	var buf bytes.Buffer
	for i := 0; i < 16; i++ {
		buf.Write(encodeSample(0))
	}

	computer, err := NewPowerComputer(&buf, 8)
	if err != nil {
		t.Fatal(err)
	}
	batch := make([]uint32, 8)
	if _, err := computer.ReadBatch(batch); err != nil {
		t.Fatal(err)
	}
	for i, v := range batch {
		if v != 0 {
			t.Errorf("batch[%d] = %d, want 0", i, v)
		}
	}
}
