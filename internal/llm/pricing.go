package llm

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed pricing.yaml
var pricingYAML []byte

// Price is the per-million-token rate for a model, in USD.
type Price struct {
	Input  float64
	Output float64
}

// UnmarshalYAML reads a price written as [input, output].
func (p *Price) UnmarshalYAML(n *yaml.Node) error {
	var pair []float64
	if err := n.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: want [input, output], got %d values", n.Line, len(pair))
	}
	p.Input, p.Output = pair[0], pair[1]
	return nil
}

// Cost returns the USD cost of a call with the given token counts.
func (p Price) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*p.Input + float64(outputTokens)*p.Output) / 1_000_000
}

var prices = mustLoadPrices(pricingYAML)

func mustLoadPrices(data []byte) map[string]Price {
	var byVendor map[string]map[string]Price
	if err := yaml.Unmarshal(data, &byVendor); err != nil {
		panic(fmt.Sprintf("llm: embedded pricing table: %v", err))
	}
	out := map[string]Price{}
	for _, models := range byVendor {
		for id, p := range models {
			out[id] = p
		}
	}
	return out
}

// snapshotSuffix matches the date stamp vendors append to pinned model IDs.
var snapshotSuffix = regexp.MustCompile(`-(\d{8}|\d{4}-\d{2}-\d{2})$`)

// LookupPrice finds the rate for a model ID as recorded in the event log.
// OpenRouter's vendor prefix and dated snapshot suffixes are ignored.
func LookupPrice(model string) (Price, bool) {
	id := strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if p, ok := prices[id]; ok {
		return p, true
	}
	id = strings.TrimSuffix(snapshotSuffix.ReplaceAllString(id, ""), "-latest")
	p, ok := prices[id]
	return p, ok
}
