package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

const graphqlUserBody = `{"data":{"user":{
	"repositories":{"totalCount":12},
	"contributionsCollection":{
		"totalCommitContributions":340,
		"totalIssueContributions":15,
		"totalPullRequestReviewContributions":8
	}}}}`

func TestAnalyzeCombinesBothSubCalls(t *testing.T) {
	graphql := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.Contains(got, "test-token") {
			t.Errorf("expected oauth token on graphql call, got %q", got)
		}
		w.Write([]byte(graphqlUserBody))
	}))
	defer graphql.Close()

	var searchCalls int32
	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&searchCalls, 1)
		q := r.URL.Query().Get("q")
		if strings.Contains(q, "is:merged") {
			w.Write([]byte(`{"total_count":20}`))
			return
		}
		w.Write([]byte(`{"total_count":31}`))
	}))
	defer search.Close()

	client := NewClientWithEndpoints(graphql.URL, search.URL, 2*time.Second)
	result, err := client.Analyze(context.Background(), "octocat", "test-token")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if result["username"] != "octocat" {
		t.Fatalf("expected username octocat, got %v", result["username"])
	}
	metrics, ok := result["github_metrics"].(map[string]any)
	if !ok {
		t.Fatalf("expected github_metrics map, got %T", result["github_metrics"])
	}
	if metrics["public_repos"] != 12 || metrics["total_commits"] != 340 {
		t.Fatalf("unexpected repo metrics: %v", metrics)
	}
	if metrics["total_prs"] != 31 || metrics["merged_prs"] != 20 {
		t.Fatalf("unexpected pr metrics: %v", metrics)
	}
	if atomic.LoadInt32(&searchCalls) != 2 {
		t.Fatalf("expected 2 search calls, got %d", searchCalls)
	}
}

func TestAnalyzeFailsWhenSecondSubCallFails(t *testing.T) {
	graphql := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(graphqlUserBody))
	}))
	defer graphql.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message":"API rate limit exceeded"}`))
	}))
	defer search.Close()

	client := NewClientWithEndpoints(graphql.URL, search.URL, 2*time.Second)
	result, err := client.Analyze(context.Background(), "octocat", "test-token")
	if err == nil {
		t.Fatalf("expected failure when pr metrics call fails")
	}
	if result != nil {
		t.Fatalf("partial data must not be returned, got %v", result)
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("expected provider message in error, got %v", err)
	}
}

func TestAnalyzeUserNotFound(t *testing.T) {
	graphql := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"user":null}}`))
	}))
	defer graphql.Close()

	client := NewClientWithEndpoints(graphql.URL, graphql.URL, 2*time.Second)
	_, err := client.Analyze(context.Background(), "ghost", "test-token")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestAnalyzeGraphQLErrors(t *testing.T) {
	graphql := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Bad credentials"}]}`))
	}))
	defer graphql.Close()

	client := NewClientWithEndpoints(graphql.URL, graphql.URL, 2*time.Second)
	_, err := client.Analyze(context.Background(), "octocat", "bad-token")
	if err == nil || !strings.Contains(err.Error(), "Bad credentials") {
		t.Fatalf("expected graphql error, got %v", err)
	}
}

func TestParseUsername(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"octocat", "octocat"},
		{"  octocat  ", "octocat"},
		{"https://github.com/octocat", "octocat"},
		{"https://github.com/octocat/", "octocat"},
		{"https://github.com/octocat/some-repo", "octocat"},
		{"github.com/octocat", "octocat"},
		{"https://www.github.com/octocat", "octocat"},
		{"https://gitlab.com/someone", ""},
		{"", ""},
		{"   ", ""},
		{"https://github.com/", ""},
	}
	for _, tt := range tests {
		if got := ParseUsername(tt.in); got != tt.want {
			t.Errorf("ParseUsername(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
