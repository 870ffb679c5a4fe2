package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelConversions(t *testing.T) {
	tests := []struct {
		name string
		db   float64
		lin  float64
	}{
		{name: "unity", db: 0, lin: 1},
		{name: "minus 20", db: -20, lin: 0.1},
		{name: "plus 6", db: 20 * math.Log10(2), lin: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.lin, DBToLinear(tt.db), 1e-12)
			assert.InDelta(t, tt.db, LinearToDB(tt.lin), 1e-12)
			assert.InDelta(t, tt.db, LinearToDB(-tt.lin), 1e-12)
		})
	}

	assert.True(t, math.IsInf(LinearToDB(0), -1))
}

func TestRMSDB(t *testing.T) {
	tests := []struct {
		name string
		x    []float64
		want float64
	}{
		{name: "full scale dc", x: []float64{1, -1, 1, -1}, want: 0},
		{name: "half scale", x: []float64{0.5, 0.5}, want: 20 * math.Log10(0.5)},
		{name: "sine", x: []float64{0, 1, 0, -1}, want: -10 * math.Log10(2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, RMSDB(tt.x), 1e-12)
		})
	}

	assert.True(t, math.IsInf(RMSDB(make([]float64, 8)), -1))
	assert.True(t, math.IsInf(RMSDB(nil), -1))
}
