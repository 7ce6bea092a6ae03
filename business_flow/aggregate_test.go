package businessflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregatePrices(t *testing.T) {
	tests := []struct {
		name            string
		prices          []float64
		expectedTop1    float64
		expectedTop3Avg float64
		expectedOK      bool
	}{
		{
			name:            "three prices",
			prices:          []float64{1000, 1100, 1300},
			expectedTop1:    1000,
			expectedTop3Avg: 1133.33,
			expectedOK:      true,
		},
		{
			name:            "unsorted input sorted before aggregation",
			prices:          []float64{1300, 1000, 1100},
			expectedTop1:    1000,
			expectedTop3Avg: 1133.33,
			expectedOK:      true,
		},
		{
			name:            "more than three uses only the cheapest three",
			prices:          []float64{2000, 1000, 1100, 1300, 5000},
			expectedTop1:    1000,
			expectedTop3Avg: 1133.33,
			expectedOK:      true,
		},
		{
			name:            "single price",
			prices:          []float64{2500},
			expectedTop1:    2500,
			expectedTop3Avg: 2500,
			expectedOK:      true,
		},
		{
			name:            "two prices",
			prices:          []float64{2000, 3000},
			expectedTop1:    2000,
			expectedTop3Avg: 2500,
			expectedOK:      true,
		},
		{
			name:       "empty input yields no snapshot",
			prices:     nil,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top1, top3Avg, ok := AggregatePrices(tt.prices)
			require.Equal(t, tt.expectedOK, ok)
			if !ok {
				return
			}
			assert.InDelta(t, tt.expectedTop1, top1, 0.001)
			assert.InDelta(t, tt.expectedTop3Avg, top3Avg, 0.001)
			assert.LessOrEqual(t, top1, top3Avg)
		})
	}
}

func TestAggregatePricesDoesNotMutateInput(t *testing.T) {
	prices := []float64{1300, 1000, 1100}
	_, _, ok := AggregatePrices(prices)
	require.True(t, ok)
	assert.Equal(t, []float64{1300, 1000, 1100}, prices)
}
