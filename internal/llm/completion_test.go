package llm

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestCompleter_JoinsLinesIntoOnePrompt(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "  What is TCP?\n"})
	c := NewCompleter(mock, DefaultParams(), 0)

	got, err := c.Complete(context.Background(), []string{"first line", "second line"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "What is TCP?" {
		t.Fatalf("expected trimmed completion, got %q", got)
	}

	req := mock.Calls[0]
	if req.Prompt != "first line\nsecond line" {
		t.Fatalf("unexpected prompt payload %q", req.Prompt)
	}
	if req.MaxTokens != 512 || req.Temperature != 0.7 || req.TopP != 1.0 {
		t.Fatalf("generation params not passed through: %+v", req)
	}
}

func TestCompleter_EmptyReplyIsFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: " \n\t "})
	c := NewCompleter(mock, DefaultParams(), 0)

	_, err := c.Complete(context.Background(), []string{"ask"})
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Fatalf("expected ErrInvalidResponse, got %T (%v)", err, err)
	}
	if !errors.Is(err, errEmptyCompletion) {
		t.Fatalf("expected errEmptyCompletion in chain, got %v", err)
	}
}

func TestCompleter_ProviderErrorPassesThrough(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: time.Second}})
	c := NewCompleter(mock, DefaultParams(), 0)

	_, err := c.Complete(context.Background(), []string{"ask"})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T (%v)", err, err)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected a single attempt, got %d", mock.CallCount())
	}
}

func TestCompleter_TimeoutAppliesToRequest(t *testing.T) {
	block := make(chan struct{})

	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-block:
		}
	})
	// Registered after the server's Close so it runs first (cleanups are LIFO).
	t.Cleanup(func() { close(block) })
	c := NewCompleter(p, DefaultParams(), 50*time.Millisecond)

	start := time.Now()
	_, err := c.Complete(context.Background(), []string{"ask"})
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > 5*time.Second {
		t.Fatalf("timeout not applied, took %s", time.Since(start))
	}
}
