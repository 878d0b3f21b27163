package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupPrice(t *testing.T) {
	tests := []struct {
		model string
		want  Price
		ok    bool
	}{
		{"gpt-4o-mini", Price{0.15, 0.6}, true},
		{"claude-sonnet-4-5-20250929", Price{3, 15}, true},
		{"gpt-4o-2024-08-06", Price{2.5, 10}, true},
		{"claude-3-5-haiku-latest", Price{0.8, 4}, true},
		{"google/gemini-2.0-flash-exp", Price{0.1, 0.4}, true},
		{"gemini-flash-latest", Price{0.3, 2.5}, true},
		{" GPT-4.1 ", Price{2, 8}, true},
		{"text-davinci-003", Price{}, false},
		{"", Price{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			got, ok := LookupPrice(tt.model)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPriceCost(t *testing.T) {
	p := Price{Input: 3, Output: 15}
	assert.InDelta(t, 0.0105, p.Cost(1000, 500), 1e-12)
	assert.Zero(t, p.Cost(0, 0))
}

func TestPricingTableRejectsBadRows(t *testing.T) {
	require.Panics(t, func() { mustLoadPrices([]byte("openai:\n  gpt-x: [1]\n")) })
	got := mustLoadPrices([]byte("a:\n  m1: [1, 2]\nb:\n  m2: [3, 4]\n"))
	assert.Equal(t, map[string]Price{"m1": {1, 2}, "m2": {3, 4}}, got)
}
