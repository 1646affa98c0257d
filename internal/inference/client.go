package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"analyzer-backend/internal/shared/metrics"
)

// permissionDeniedSignature is the provider's error text for tokens that are
// valid but not allowed to use inference. The match is a literal substring
// check because the provider exposes no structured error code for it.
const permissionDeniedSignature = "does not have sufficient permissions"

// Prediction is one label/score record returned by the classifier.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// CallError describes a failed inference call and whether re-issuing the
// identical request may succeed.
type CallError struct {
	Status    int
	Retryable bool
	Detail    string
}

func (e *CallError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("inference call failed: status=%d retryable=%t: %s", e.Status, e.Retryable, e.Detail)
	}
	return fmt.Sprintf("inference call failed: retryable=%t: %s", e.Retryable, e.Detail)
}

// Client issues single HTTP POSTs to the remote inference endpoint.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewClient constructs a Client. apiKey is the process-wide default bearer
// credential and may be empty for anonymous access.
func NewClient(url, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Classify performs one attempt against the inference endpoint.
//
// If the response is a 403 whose body carries the insufficient-permissions
// signature, the identical request is re-issued once without the
// Authorization header. That substitution is part of this single attempt,
// not a retry.
func (c *Client) Classify(ctx context.Context, text string) ([]Prediction, error) {
	metrics.InferenceAttempts.Inc()

	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, &CallError{Retryable: false, Detail: fmt.Sprintf("encode request: %v", err)}
	}

	status, body, err := c.post(ctx, payload, c.apiKey)
	if err != nil {
		return nil, transportError(err)
	}

	if status == http.StatusForbidden && strings.Contains(string(body), permissionDeniedSignature) {
		metrics.InferenceAuthDowngrades.Inc()
		status, body, err = c.post(ctx, payload, "")
		if err != nil {
			return nil, transportError(err)
		}
	}

	return classifyResponse(status, body)
}

func (c *Client) post(ctx context.Context, payload []byte, bearer string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, body, nil
}

func classifyResponse(status int, body []byte) ([]Prediction, error) {
	switch {
	case status == http.StatusServiceUnavailable:
		return nil, &CallError{Status: status, Retryable: true, Detail: "model is loading, please retry shortly"}
	case status >= 400:
		return nil, &CallError{Status: status, Retryable: true, Detail: string(body)}
	}

	preds, shape := decodePredictions(body)
	if shape == shapeUnknown {
		return nil, &CallError{Status: status, Retryable: false, Detail: fmt.Sprintf("unexpected response shape: %s", truncateForLog(body))}
	}
	return preds, nil
}

func transportError(err error) *CallError {
	detail := err.Error()
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(detail, "Client.Timeout") {
		detail = "request timeout: " + detail
	}
	return &CallError{Retryable: true, Detail: detail}
}

func truncateForLog(body []byte) string {
	const max = 200
	s := string(body)
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
