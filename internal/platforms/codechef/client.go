package codechef

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://codechef-api.vercel.app/handle"

// Client fetches CodeChef profile statistics from the community profile API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a Client against the public endpoint.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint is used by tests to point at a mock server.
func NewClientWithEndpoint(baseURL string, timeout time.Duration) *Client {
	c := NewClient(timeout)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

type profileResponse struct {
	Success       bool   `json:"success"`
	Status        int    `json:"status"`
	Name          string `json:"name"`
	CurrentRating int    `json:"currentRating"`
	HighestRating int    `json:"highestRating"`
	Stars         string `json:"stars"`
	GlobalRank    int    `json:"globalRank"`
	CountryRank   int    `json:"countryRank"`
}

// Analyze returns rating and rank details for a CodeChef handle.
func (c *Client) Analyze(ctx context.Context, handle string) (map[string]any, error) {
	u := c.baseURL + "/" + handle
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("codechef request for %s: %w", handle, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("codechef status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed profileResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("codechef response parse: %w", err)
	}
	if !parsed.Success {
		return nil, fmt.Errorf("codechef user %s not found", handle)
	}

	return map[string]any{
		"username":       handle,
		"name":           parsed.Name,
		"current_rating": parsed.CurrentRating,
		"highest_rating": parsed.HighestRating,
		"stars":          parsed.Stars,
		"global_rank":    parsed.GlobalRank,
		"country_rank":   parsed.CountryRank,
	}, nil
}
