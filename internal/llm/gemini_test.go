package llm

import (
	"context"
	"testing"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-2.5-flash"},
		{"gemini-pro", "gemini-2.5-pro"},
		{"gemini-2.0-flash", "gemini-2.0-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.input, geminiModels); got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestGeminiConfig(t *testing.T) {
	cfg := geminiConfig(Params{MaxTokens: 512, Temperature: 0.7, TopP: 1, PresencePenalty: -0.5})
	if cfg.MaxOutputTokens != 512 {
		t.Fatalf("MaxOutputTokens = %d", cfg.MaxOutputTokens)
	}
	if cfg.Temperature == nil || *cfg.Temperature != float32(0.7) {
		t.Fatalf("Temperature = %v", cfg.Temperature)
	}
	if cfg.TopP == nil || *cfg.TopP != 1 {
		t.Fatalf("TopP = %v", cfg.TopP)
	}
	if cfg.FrequencyPenalty != nil {
		t.Fatalf("zero FrequencyPenalty must stay unset, got %v", *cfg.FrequencyPenalty)
	}
	if cfg.PresencePenalty == nil || *cfg.PresencePenalty != -0.5 {
		t.Fatalf("PresencePenalty = %v", cfg.PresencePenalty)
	}

	if z := geminiConfig(Params{}); z.Temperature != nil || z.TopP != nil {
		t.Fatal("zero params must leave sampling unset")
	}
}

func TestNewGeminiProvider_RequiresKey(t *testing.T) {
	if _, err := NewGeminiProvider(context.Background(), GeminiConfig{Model: "gemini-flash"}); err == nil {
		t.Fatal("expected error for empty API key")
	}
}
