package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultGraphQLURL = "https://leetcode.com/graphql"

// Client fetches solved-problem statistics from the LeetCode GraphQL API.
type Client struct {
	graphqlURL string
	httpClient *http.Client
}

// NewClient constructs a Client against the public LeetCode endpoint.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		graphqlURL: defaultGraphQLURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewClientWithEndpoint is used by tests to point at a mock server.
func NewClientWithEndpoint(graphqlURL string, timeout time.Duration) *Client {
	c := NewClient(timeout)
	c.graphqlURL = graphqlURL
	return c
}

const statsQuery = `
query($username: String!) {
  matchedUser(username: $username) {
    username
    submitStatsGlobal {
      acSubmissionNum { difficulty count }
    }
  }
}`

type statsResponse struct {
	Data struct {
		MatchedUser *struct {
			Username          string `json:"username"`
			SubmitStatsGlobal struct {
				ACSubmissionNum []struct {
					Difficulty string `json:"difficulty"`
					Count      int    `json:"count"`
				} `json:"acSubmissionNum"`
			} `json:"submitStatsGlobal"`
		} `json:"matchedUser"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Analyze returns solved counts by difficulty for a LeetCode username.
func (c *Client) Analyze(ctx context.Context, username string) (map[string]any, error) {
	payload, err := json.Marshal(map[string]any{
		"query":     statsQuery,
		"variables": map[string]any{"username": username},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("leetcode request for %s: %w", username, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("leetcode status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed statsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("leetcode response parse: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("leetcode error: %s", parsed.Errors[0].Message)
	}
	if parsed.Data.MatchedUser == nil {
		return nil, fmt.Errorf("leetcode user %s not found", username)
	}

	solved := map[string]int{}
	total := 0
	for _, bucket := range parsed.Data.MatchedUser.SubmitStatsGlobal.ACSubmissionNum {
		key := strings.ToLower(bucket.Difficulty)
		if key == "all" {
			total = bucket.Count
			continue
		}
		solved[key] = bucket.Count
	}

	return map[string]any{
		"username":     parsed.Data.MatchedUser.Username,
		"total_solved": total,
		"solved":       solved,
	}, nil
}
