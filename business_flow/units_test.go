package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLengthFt(t *testing.T) {
	tests := []struct {
		name     string
		raw      float64
		expected float64
	}{
		{
			name:     "typical meters value converts to feet",
			raw:      14.2,
			expected: 46.6,
		},
		{
			name:     "threshold value 30 treated as meters",
			raw:      30.0,
			expected: 98.4,
		},
		{
			name:     "just above threshold passes through as feet",
			raw:      30.1,
			expected: 30.1,
		},
		{
			name:     "typical feet value passes through",
			raw:      46.0,
			expected: 46.0,
		},
		{
			name:     "small catamaran in meters",
			raw:      11.73,
			expected: 38.5,
		},
		{
			name:     "zero stays zero",
			raw:      0,
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, NormalizeLengthFt(tt.raw), 0.001)
		})
	}
}
