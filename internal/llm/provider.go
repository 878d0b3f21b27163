package llm

import "context"

// Provider sends one prompt to a hosted model.
type Provider interface {
	// Generate returns the model's reply to req.Prompt.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider targets.
	ModelID() string
}

// Request is a single-turn completion request. The interview keeps its
// own transcript and flattens it into Prompt, so providers never see a
// message list.
type Request struct {
	Prompt string
	Params
}

// Response is a provider reply.
type Response struct {
	Text  string
	Usage Usage

	// Model is the model that served the request, which may differ from
	// ModelID when an alias was resolved by the vendor.
	Model string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)
