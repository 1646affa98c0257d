package guidance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"analyzer-backend/internal/llm"
	"analyzer-backend/internal/shared/telemetry"
)

// guidanceListKeys are the top-level array fields of a guidance object.
var guidanceListKeys = []string{
	"technical_skills",
	"missing_skills",
	"learning_paths",
	"project_ideas",
	"certificate_recommendations",
	"role_matching",
	"weak_skills",
	"recommended_tech_stacks",
	"weekly_schedule",
}

// Service generates structured career guidance from resume data via an LLM.
type Service struct {
	Client llm.Client
}

// NewService constructs a Service. client may be nil when no provider is
// configured; Generate then returns an empty guidance object.
func NewService(client llm.Client) *Service {
	return &Service{Client: client}
}

// Generate produces a guidance object with all expected keys present. LLM
// failures are reported inside the payload rather than as errors, so a
// flaky provider never fails the request.
func (s *Service) Generate(ctx context.Context, resumeData map[string]any) map[string]any {
	if s.Client == nil {
		return map[string]any{}
	}

	raw, err := s.Client.GenerateGuidance(ctx, resumeData)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return map[string]any{}
		}
		telemetry.Warn("guidance.llm_failed", map[string]any{"error": err.Error()})
		return map[string]any{"error": fmt.Sprintf("Guidance LLM call failed: %v", err)}
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return map[string]any{
			"error": "Failed to parse guidance JSON",
			"raw":   string(raw),
		}
	}

	return normalize(data)
}

// normalize ensures every expected key exists with a sane default type.
func normalize(data map[string]any) map[string]any {
	result := make(map[string]any, len(guidanceListKeys)+1)
	for _, key := range guidanceListKeys {
		result[key] = ensureList(data, key)
	}
	result["career_clarity_summary"] = ensureMap(data, "career_clarity_summary")
	return result
}

func ensureList(obj map[string]any, key string) []any {
	if val, ok := obj[key].([]any); ok {
		return val
	}
	return []any{}
}

func ensureMap(obj map[string]any, key string) map[string]any {
	if val, ok := obj[key].(map[string]any); ok {
		return val
	}
	return map[string]any{}
}
