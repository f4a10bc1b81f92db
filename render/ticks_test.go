package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNiceTicks(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		want   []float64
	}{
		{name: "pixels", lo: 0, hi: 99, want: []float64{0, 20, 40, 60, 80}},
		{name: "small", lo: 0, hi: 3, want: []float64{0, 1, 2, 3}},
		{name: "unit", lo: 0, hi: 1, want: []float64{0, 0.2, 0.4, 0.6, 0.8, 1}},
		{name: "negative", lo: -10, hi: 10, want: []float64{-10, -5, 0, 5, 10}},
		{name: "degenerate", lo: 4, hi: 4, want: []float64{4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NiceTicks(tt.lo, tt.hi, maxTicks)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.InDelta(t, tt.want[i], got[i], 1e-9)
			}
		})
	}
}

func TestFormatTick(t *testing.T) {
	assert.Equal(t, "20", formatTick(20, 20))
	assert.Equal(t, "0.4", formatTick(0.4, 0.2))
	assert.Equal(t, "0.05", formatTick(0.05, 0.05))
	assert.Equal(t, "1.5e+06", formatTick(1.5e6, 5e5))
}
