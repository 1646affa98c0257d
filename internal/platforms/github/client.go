package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	defaultGraphQLURL = "https://api.github.com/graphql"
	defaultSearchURL  = "https://api.github.com/search/issues"
)

// Client fetches GitHub activity metrics for a user. One analysis is two
// sequential sub-calls against the same credential: repository/contribution
// metrics over GraphQL, then pull-request metrics over the search REST API.
type Client struct {
	graphqlURL string
	searchURL  string
	timeout    time.Duration
}

// NewClient constructs a Client with the public GitHub endpoints.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		graphqlURL: defaultGraphQLURL,
		searchURL:  defaultSearchURL,
		timeout:    timeout,
	}
}

// NewClientWithEndpoints is used by tests to point at mock servers.
func NewClientWithEndpoints(graphqlURL, searchURL string, timeout time.Duration) *Client {
	c := NewClient(timeout)
	c.graphqlURL = graphqlURL
	c.searchURL = searchURL
	return c
}

// Analyze runs both sub-calls and merges their metrics. If either sub-call
// fails the whole analysis fails; partial data is never returned.
func (c *Client) Analyze(ctx context.Context, username, token string) (map[string]any, error) {
	httpClient := c.authClient(ctx, token)

	repoMetrics, err := c.repoMetrics(ctx, httpClient, username)
	if err != nil {
		return nil, fmt.Errorf("github graphql metrics for %s: %w", username, err)
	}

	prMetrics, err := c.prMetrics(ctx, httpClient, username)
	if err != nil {
		return nil, fmt.Errorf("github pr metrics for %s: %w", username, err)
	}

	combined := make(map[string]any, len(repoMetrics)+len(prMetrics))
	for k, v := range repoMetrics {
		combined[k] = v
	}
	for k, v := range prMetrics {
		combined[k] = v
	}

	return map[string]any{
		"username":       username,
		"github_metrics": combined,
	}, nil
}

func (c *Client) authClient(ctx context.Context, token string) *http.Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(ctx, src)
	client.Timeout = c.timeout
	return client
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

type graphqlResponse struct {
	Data struct {
		User *struct {
			Repositories struct {
				TotalCount int `json:"totalCount"`
			} `json:"repositories"`
			ContributionsCollection struct {
				TotalCommitContributions            int `json:"totalCommitContributions"`
				TotalIssueContributions             int `json:"totalIssueContributions"`
				TotalPullRequestReviewContributions int `json:"totalPullRequestReviewContributions"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

const userMetricsQuery = `
query($login: String!) {
  user(login: $login) {
    repositories(ownerAffiliations: OWNER) { totalCount }
    contributionsCollection {
      totalCommitContributions
      totalIssueContributions
      totalPullRequestReviewContributions
    }
  }
}`

func (c *Client) repoMetrics(ctx context.Context, httpClient *http.Client, username string) (map[string]any, error) {
	payload, err := json.Marshal(graphqlRequest{
		Query:     userMetricsQuery,
		Variables: map[string]any{"login": username},
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graphql status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed graphqlResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("graphql response parse: %w", err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("graphql error: %s", parsed.Errors[0].Message)
	}
	if parsed.Data.User == nil {
		return nil, fmt.Errorf("user %s not found", username)
	}

	user := parsed.Data.User
	return map[string]any{
		"public_repos":  user.Repositories.TotalCount,
		"total_commits": user.ContributionsCollection.TotalCommitContributions,
		"total_issues":  user.ContributionsCollection.TotalIssueContributions,
		"pr_reviews":    user.ContributionsCollection.TotalPullRequestReviewContributions,
	}, nil
}

type searchResponse struct {
	TotalCount int    `json:"total_count"`
	Message    string `json:"message"`
}

func (c *Client) prMetrics(ctx context.Context, httpClient *http.Client, username string) (map[string]any, error) {
	total, err := c.searchCount(ctx, httpClient, fmt.Sprintf("author:%s type:pr", username))
	if err != nil {
		return nil, err
	}
	merged, err := c.searchCount(ctx, httpClient, fmt.Sprintf("author:%s type:pr is:merged", username))
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"total_prs":  total,
		"merged_prs": merged,
	}, nil
}

func (c *Client) searchCount(ctx context.Context, httpClient *http.Client, query string) (int, error) {
	u := c.searchURL + "?per_page=1&q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return 0, fmt.Errorf("search response parse: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(parsed.Message)
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return 0, fmt.Errorf("search status %d: %s", resp.StatusCode, msg)
	}
	return parsed.TotalCount, nil
}
