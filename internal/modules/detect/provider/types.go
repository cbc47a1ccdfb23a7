package provider

import "context"

// Caller is the single-call surface the orchestrator depends on.
// *Gateway implements it; tests substitute counting fakes.
type Caller interface {
	Call(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error)
}

var _ Caller = (*Gateway)(nil)
