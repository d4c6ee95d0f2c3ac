package ai

import (
	"context"
	"fmt"

	"github.com/nattawatp/imagelens/internal/domain/analysis"
	"github.com/nattawatp/imagelens/internal/infra/ai/gemini"
	"github.com/nattawatp/imagelens/internal/infra/ai/openai"
)

// NewVerifier builds the remote verifier for the configured provider.
// An empty apiKey yields (nil, nil): verification is simply skipped, never
// an error surfaced to users.
func NewVerifier(ctx context.Context, provider, apiKey, model string) (analysis.RemoteVerifier, error) {
	if apiKey == "" {
		return nil, nil
	}
	switch provider {
	case "", "gemini":
		c, err := gemini.NewClient(ctx, apiKey, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	case "openai":
		c, err := openai.NewClient(apiKey, model)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown ai provider: %q", provider)
	}
}
