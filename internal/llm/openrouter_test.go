package llm

import "testing"

func TestNewOpenRouterProvider(t *testing.T) {
	tests := []struct {
		name    string
		cfg     OpenRouterConfig
		wantErr bool
		wantURL string
	}{
		{"default base URL", OpenRouterConfig{APIKey: "sk-or", Model: "google/gemini-2.0-flash-exp"}, false, defaultOpenRouterBaseURL},
		{"custom base URL", OpenRouterConfig{APIKey: "sk-or", Model: "anthropic/claude-3-haiku", BaseURL: "https://or.example/v1"}, false, "https://or.example/v1"},
		{"missing key", OpenRouterConfig{Model: "meta-llama/llama-3-8b"}, true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenRouterProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.ModelID() != tt.cfg.Model {
				t.Errorf("vendor-prefixed IDs pass through unchanged: got %q, want %q", p.ModelID(), tt.cfg.Model)
			}
			if got := p.baseURL; got != tt.wantURL {
				t.Errorf("base URL = %q, want %q", got, tt.wantURL)
			}
		})
	}
}
