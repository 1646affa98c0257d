package roleprediction

import (
	"context"
	"errors"
	"time"

	"analyzer-backend/internal/inference"
	"analyzer-backend/internal/shared/metrics"
	"analyzer-backend/internal/shared/telemetry"
)

const (
	// maxRetries is the number of additional attempts after a retryable
	// failure; 3 attempts total. The anonymous re-issue inside the client
	// does not count as an attempt.
	maxRetries = 2

	retryDelay = 500 * time.Millisecond

	// MaxInputChars bounds remote-call latency; longer text is truncated
	// before the call.
	MaxInputChars = 2000
)

// Result is a resolved role classification.
type Result struct {
	Label            string   `json:"predicted_label"`
	RecommendedRoles []string `json:"recommended_roles"`
	Confidence       float64  `json:"confidence"`
}

// RemoteClassifier is the single-attempt inference call.
type RemoteClassifier interface {
	Classify(ctx context.Context, text string) ([]inference.Prediction, error)
}

// Predictor resolves text to a Result, never surfacing remote errors: the
// keyword heuristic is an unconditional safety net.
type Predictor struct {
	remote RemoteClassifier
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewPredictor constructs a Predictor around a remote classifier. remote may
// be nil, in which case every prediction uses the local heuristic.
func NewPredictor(remote RemoteClassifier) *Predictor {
	return &Predictor{
		remote: remote,
		sleep:  sleepCtx,
	}
}

// Predict classifies text into a career-role label with recommended fresher
// roles. The remote path is attempted first with bounded retries; any
// non-retryable failure or attempt exhaustion falls through to the heuristic.
func (p *Predictor) Predict(ctx context.Context, text string) Result {
	if runes := []rune(text); len(runes) > MaxInputChars {
		text = string(runes[:MaxInputChars])
	}

	preds := p.classifyRemote(ctx, text)
	if len(preds) > 0 {
		top := preds[0]
		for _, pred := range preds[1:] {
			if pred.Score > top.Score {
				top = pred
			}
		}
		metrics.PredictionRemote.Inc()
		return buildResult(top.Label, top.Score)
	}

	metrics.PredictionFallback.Inc()
	return buildResult(heuristicLabel(text), heuristicConfidence)
}

func (p *Predictor) classifyRemote(ctx context.Context, text string) []inference.Prediction {
	if p.remote == nil {
		return nil
	}

	for attempt := 0; attempt <= maxRetries; attempt++ {
		preds, err := p.remote.Classify(ctx, text)
		if err == nil {
			return preds
		}

		var callErr *inference.CallError
		retryable := errors.As(err, &callErr) && callErr.Retryable
		telemetry.Warn("inference.attempt_failed", map[string]any{
			"attempt":   attempt + 1,
			"retryable": retryable,
			"error":     err.Error(),
		})
		if !retryable {
			return nil
		}
		if attempt < maxRetries {
			if err := p.sleep(ctx, retryDelay); err != nil {
				return nil
			}
		}
	}
	return nil
}

func buildResult(label string, confidence float64) Result {
	return Result{
		Label:            label,
		RecommendedRoles: FilterFresherRoles(MapLabelToRoles(label)),
		Confidence:       confidence,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
