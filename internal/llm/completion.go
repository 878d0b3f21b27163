package llm

import (
	"context"
	"errors"
	"strings"
	"time"
)

// errEmptyCompletion marks a reply that carried no usable text.
var errEmptyCompletion = errors.New("completion returned no text")

// Params are the fixed generation parameters sent with every completion.
type Params struct {
	MaxTokens        int
	Temperature      float64
	TopP             float64
	FrequencyPenalty float64
	PresencePenalty  float64
}

// DefaultParams mirrors the settings the interview prompts were tuned with.
func DefaultParams() Params {
	return Params{
		MaxTokens:   512,
		Temperature: 0.7,
		TopP:        1.0,
	}
}

// Completer is the plain-text request/response boundary used by the
// interview. It holds no conversation state: callers pass the full
// prompt history on every call.
type Completer struct {
	provider Provider
	params   Params
	timeout  time.Duration
}

// NewCompleter creates a Completer over provider. A zero timeout means
// the caller's context is the only bound.
func NewCompleter(provider Provider, params Params, timeout time.Duration) *Completer {
	return &Completer{provider: provider, params: params, timeout: timeout}
}

// Complete joins promptLines with newlines, sends them as one prompt and
// returns the trimmed reply. Provider errors are returned as-is; an empty
// reply is an *ErrInvalidResponse.
func (c *Completer) Complete(ctx context.Context, promptLines []string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.provider.Generate(ctx, Request{
		Prompt: strings.Join(promptLines, "\n"),
		Params: c.params,
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", &ErrInvalidResponse{Text: resp.Text, Err: errEmptyCompletion}
	}
	return text, nil
}

// ModelID returns the model the underlying provider targets.
func (c *Completer) ModelID() string {
	return c.provider.ModelID()
}
