package llm

import (
	"context"
	"encoding/json"
	"errors"
)

// Client abstracts LLM providers for career guidance generation.
type Client interface {
	GenerateGuidance(ctx context.Context, resumeData map[string]any) (json.RawMessage, error)
}

// ErrNotConfigured is returned when no provider credential is available.
var ErrNotConfigured = errors.New("LLM provider not configured")

// PlaceholderClient is a stub implementation used when no provider is wired.
type PlaceholderClient struct{}

// GenerateGuidance returns ErrNotConfigured.
func (PlaceholderClient) GenerateGuidance(ctx context.Context, resumeData map[string]any) (json.RawMessage, error) {
	_ = ctx
	_ = resumeData
	return nil, ErrNotConfigured
}
