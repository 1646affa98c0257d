package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"analyzer-backend/internal/platforms/github"
	"analyzer-backend/internal/shared/metrics"
	"analyzer-backend/internal/shared/telemetry"
)

const missingTokenMessage = "GitHub token missing. Pass ?token=... or set GITHUB_TOKEN env variable"

// ResumeProcessor analyzes the mandatory resume artifact.
type ResumeProcessor interface {
	Process(ctx context.Context, owner, fileName, mimeType string, data []byte) (map[string]any, error)
}

// GitHubAnalyzer fetches GitHub metrics with an explicit credential.
type GitHubAnalyzer interface {
	Analyze(ctx context.Context, username, token string) (map[string]any, error)
}

// ProfileAnalyzer fetches metrics for a coding-platform handle.
type ProfileAnalyzer interface {
	Analyze(ctx context.Context, username string) (map[string]any, error)
}

// Service drives the per-source analyses for one request and merges their
// outcomes. Sources run sequentially; the mandatory resume source always runs
// first and short-circuits the rest on failure.
type Service struct {
	Resume   ResumeProcessor
	GitHub   GitHubAnalyzer
	LeetCode ProfileAnalyzer
	CodeChef ProfileAnalyzer

	// DefaultGitHubToken is the process-wide credential used when the
	// request does not supply one.
	DefaultGitHubToken string

	Repo Repo
}

// Analyze produces the merged response. A non-nil error means the mandatory
// resume analysis failed and no optional source was attempted; optional
// source failures are reported inside the response instead.
func (s *Service) Analyze(ctx context.Context, req Request) (Response, error) {
	metrics.AggregateStarted.Inc()
	start := time.Now()
	defer func() {
		metrics.AggregateDuration.Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	results := Response{}

	resumePayload, err := s.Resume.Process(ctx, req.RequestID, req.FileName, req.MimeType, req.FileData)
	if err != nil {
		metrics.AggregateResumeFailed.Inc()
		return nil, err
	}
	results.set("resume", Succeeded(resumePayload))

	if req.GitHub != "" {
		results.set("github", s.analyzeGitHub(ctx, req))
	}
	if req.LeetCode != "" {
		results.set("leetcode", runSource(ctx, "leetcode", req.LeetCode, s.LeetCode))
	}
	if req.CodeChef != "" {
		results.set("codechef", runSource(ctx, "codechef", req.CodeChef, s.CodeChef))
	}

	s.record(ctx, req, results)
	return results, nil
}

func (s *Service) analyzeGitHub(ctx context.Context, req Request) (result SourceResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Failed(fmt.Sprintf("github analysis panic: %v", rec))
		}
		if result.IsFailure() {
			metrics.AggregateSourceFailed.Inc()
			telemetry.Warn("aggregate.source_failed", map[string]any{
				"request_id": req.RequestID,
				"source":     "github",
				"error":      result.Err,
			})
		}
	}()

	username := github.ParseUsername(req.GitHub)
	if username == "" {
		return Failed("Could not parse GitHub username from input")
	}

	token := req.Token
	if token == "" {
		token = s.DefaultGitHubToken
	}
	if token == "" {
		return Failed(missingTokenMessage)
	}

	payload, err := s.GitHub.Analyze(ctx, username, token)
	if err != nil {
		return Failed(err.Error())
	}
	return Succeeded(payload)
}

// runSource isolates one optional source: adapter errors and panics become
// that source's failure entry and never abort sibling sources.
func runSource(ctx context.Context, source, username string, analyzer ProfileAnalyzer) (result SourceResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = Failed(fmt.Sprintf("%s analysis panic: %v", source, rec))
		}
		if result.IsFailure() {
			metrics.AggregateSourceFailed.Inc()
			telemetry.Warn("aggregate.source_failed", map[string]any{
				"source": source,
				"error":  result.Err,
			})
		}
	}()

	payload, err := analyzer.Analyze(ctx, username)
	if err != nil {
		return Failed(err.Error())
	}
	return Succeeded(payload)
}

// record persists a history row; failures are logged, never surfaced.
func (s *Service) record(ctx context.Context, req Request, results Response) {
	if s.Repo == nil {
		return
	}

	rec := Record{
		ID:           uuid.NewString(),
		RequestID:    req.RequestID,
		ResumeFile:   req.FileName,
		GitHubUser:   req.GitHub,
		LeetCodeUser: req.LeetCode,
		CodeChefUser: req.CodeChef,
		CreatedAt:    time.Now().UTC(),
	}
	if resume, ok := results["resume"].(map[string]any); ok {
		if key, ok := resume["storage_key"].(string); ok {
			rec.StorageKey = key
		}
	}
	for _, source := range []string{"resume", "github", "leetcode", "codechef"} {
		if _, ok := results[source]; ok {
			rec.SourcesOK = append(rec.SourcesOK, source)
		}
		if _, ok := results[source+"_error"]; ok {
			rec.SourcesErr = append(rec.SourcesErr, source)
		}
	}

	if err := s.Repo.Create(ctx, rec); err != nil {
		telemetry.Warn("aggregate.record_failed", map[string]any{
			"request_id": req.RequestID,
			"error":      err.Error(),
		})
	}
}
