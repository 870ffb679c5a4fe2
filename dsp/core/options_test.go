package core

import (
	"errors"
	"math"
	"testing"
)

func TestApplyProcessorOptions(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(96000), WithBlockSize(2048))
	if cfg.SampleRate != 96000 {
		t.Fatalf("sample rate = %v, want 96000", cfg.SampleRate)
	}
	if cfg.BlockSize != 2048 {
		t.Fatalf("block size = %d, want 2048", cfg.BlockSize)
	}
}

func TestInvalidOptionsIgnored(t *testing.T) {
	cfg := ApplyProcessorOptions(WithSampleRate(0), WithBlockSize(-1), WithSampleRate(math.NaN()))
	def := DefaultProcessorConfig()
	if cfg != def {
		t.Fatalf("cfg = %#v, want %#v", cfg, def)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name    string
		rate    float64
		block   int
		want    ProcessorConfig
		wantErr bool
	}{
		{name: "valid", rate: 16000, block: 128, want: ProcessorConfig{16000, 128}},
		{name: "zero rate", rate: 0, block: 128, want: ProcessorConfig{DefaultSampleRate, 128}, wantErr: true},
		{name: "inf rate", rate: math.Inf(1), block: 32, want: ProcessorConfig{DefaultSampleRate, 32}, wantErr: true},
		{name: "zero block", rate: 8000, block: 0, want: ProcessorConfig{8000, DefaultBlockSize}, wantErr: true},
	}

	for _, tc := range tests {
		got, err := Sanitize(tc.rate, tc.block)
		if got != tc.want {
			t.Fatalf("%s: cfg = %#v, want %#v", tc.name, got, tc.want)
		}
		if tc.wantErr != errors.Is(err, ErrInvalidConfig) {
			t.Fatalf("%s: err = %v, wantErr %v", tc.name, err, tc.wantErr)
		}
	}
}
