package aggregate

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeResume struct {
	payload map[string]any
	err     error
}

func (f *fakeResume) Process(ctx context.Context, owner, fileName, mimeType string, data []byte) (map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.payload, nil
}

type fakeGitHub struct {
	payload   map[string]any
	err       error
	panicking bool
	gotUser   string
	gotToken  string
	calls     int
}

func (f *fakeGitHub) Analyze(ctx context.Context, username, token string) (map[string]any, error) {
	f.calls++
	f.gotUser = username
	f.gotToken = token
	if f.panicking {
		panic("github adapter blew up")
	}
	return f.payload, f.err
}

type fakeProfile struct {
	payload   map[string]any
	err       error
	panicking bool
	calls     int
}

func (f *fakeProfile) Analyze(ctx context.Context, username string) (map[string]any, error) {
	f.calls++
	if f.panicking {
		panic("profile adapter blew up")
	}
	return f.payload, f.err
}

func okResume() *fakeResume {
	return &fakeResume{payload: map[string]any{"file_name": "resume.pdf", "word_count": 120}}
}

func baseRequest() Request {
	return Request{
		RequestID: "req-1",
		FileName:  "resume.pdf",
		MimeType:  "application/pdf",
		FileData:  []byte("%PDF-1.4 fake"),
	}
}

func TestAnalyzeResumeOnly(t *testing.T) {
	svc := &Service{Resume: okResume()}

	results, err := svc.Analyze(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected only the resume key, got %v", results)
	}
	if _, ok := results["resume"]; !ok {
		t.Fatalf("expected resume key, got %v", results)
	}
}

func TestAnalyzeResumeFailureShortCircuits(t *testing.T) {
	gh := &fakeGitHub{}
	lc := &fakeProfile{}
	svc := &Service{
		Resume:   &fakeResume{err: errors.New("resume appears to be empty")},
		GitHub:   gh,
		LeetCode: lc,
	}

	req := baseRequest()
	req.GitHub = "octocat"
	req.LeetCode = "tourist"

	results, err := svc.Analyze(context.Background(), req)
	if err == nil {
		t.Fatalf("expected resume error")
	}
	if results != nil {
		t.Fatalf("expected nil results on resume failure, got %v", results)
	}
	if gh.calls != 0 || lc.calls != 0 {
		t.Fatalf("optional sources must not run when resume fails")
	}
}

func TestAnalyzeSkipsSourcesWithoutIdentifiers(t *testing.T) {
	gh := &fakeGitHub{payload: map[string]any{"username": "octocat"}}
	svc := &Service{Resume: okResume(), GitHub: gh, DefaultGitHubToken: "env-token"}

	results, err := svc.Analyze(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gh.calls != 0 {
		t.Fatalf("github must not be called without an identifier")
	}
	for _, key := range []string{"github", "github_error", "leetcode", "leetcode_error", "codechef", "codechef_error"} {
		if _, ok := results[key]; ok {
			t.Fatalf("unexpected key %q in %v", key, results)
		}
	}
}

func TestAnalyzeAllSourcesSucceed(t *testing.T) {
	gh := &fakeGitHub{payload: map[string]any{"username": "octocat"}}
	lc := &fakeProfile{payload: map[string]any{"total_solved": 450}}
	cc := &fakeProfile{payload: map[string]any{"current_rating": 1834}}
	svc := &Service{
		Resume:             okResume(),
		GitHub:             gh,
		LeetCode:           lc,
		CodeChef:           cc,
		DefaultGitHubToken: "env-token",
	}

	req := baseRequest()
	req.GitHub = "octocat"
	req.LeetCode = "tourist"
	req.CodeChef = "chef_handle"

	results, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	for _, key := range []string{"resume", "github", "leetcode", "codechef"} {
		if _, ok := results[key]; !ok {
			t.Fatalf("expected key %q in %v", key, results)
		}
		if _, ok := results[key+"_error"]; ok {
			t.Fatalf("success and error keys must be mutually exclusive for %q", key)
		}
	}
}

func TestAnalyzeSourceFailureIsIsolated(t *testing.T) {
	gh := &fakeGitHub{err: errors.New("github graphql metrics for octocat: boom")}
	lc := &fakeProfile{payload: map[string]any{"total_solved": 450}}
	svc := &Service{
		Resume:             okResume(),
		GitHub:             gh,
		LeetCode:           lc,
		DefaultGitHubToken: "env-token",
	}

	req := baseRequest()
	req.GitHub = "octocat"
	req.LeetCode = "tourist"

	results, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if _, ok := results["github"]; ok {
		t.Fatalf("failed source must not have a success key: %v", results)
	}
	msg, ok := results["github_error"].(string)
	if !ok || !strings.Contains(msg, "boom") {
		t.Fatalf("expected github_error with adapter message, got %v", results["github_error"])
	}
	if _, ok := results["leetcode"]; !ok {
		t.Fatalf("sibling source must still succeed: %v", results)
	}
}

func TestAnalyzePanicIsIsolated(t *testing.T) {
	lc := &fakeProfile{panicking: true}
	cc := &fakeProfile{payload: map[string]any{"current_rating": 1834}}
	svc := &Service{Resume: okResume(), LeetCode: lc, CodeChef: cc}

	req := baseRequest()
	req.LeetCode = "tourist"
	req.CodeChef = "chef_handle"

	results, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("panic must not abort the run: %v", err)
	}
	msg, ok := results["leetcode_error"].(string)
	if !ok || !strings.Contains(msg, "panic") {
		t.Fatalf("expected panic captured as leetcode_error, got %v", results["leetcode_error"])
	}
	if _, ok := results["codechef"]; !ok {
		t.Fatalf("sibling source must still run after a panic: %v", results)
	}
}

func TestAnalyzeGitHubPanicIsIsolated(t *testing.T) {
	gh := &fakeGitHub{panicking: true}
	svc := &Service{Resume: okResume(), GitHub: gh, DefaultGitHubToken: "env-token"}

	req := baseRequest()
	req.GitHub = "octocat"

	results, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("panic must not abort the run: %v", err)
	}
	msg, ok := results["github_error"].(string)
	if !ok || !strings.Contains(msg, "panic") {
		t.Fatalf("expected panic captured as github_error, got %v", results["github_error"])
	}
}

func TestAnalyzeGitHubTokenPrecedence(t *testing.T) {
	gh := &fakeGitHub{payload: map[string]any{"username": "octocat"}}
	svc := &Service{Resume: okResume(), GitHub: gh, DefaultGitHubToken: "env-token"}

	req := baseRequest()
	req.GitHub = "octocat"
	req.Token = "request-token"

	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gh.gotToken != "request-token" {
		t.Fatalf("request token must win over the default, got %q", gh.gotToken)
	}

	req.Token = ""
	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gh.gotToken != "env-token" {
		t.Fatalf("default token must apply when request omits one, got %q", gh.gotToken)
	}
}

func TestAnalyzeGitHubMissingToken(t *testing.T) {
	gh := &fakeGitHub{}
	svc := &Service{Resume: okResume(), GitHub: gh}

	req := baseRequest()
	req.GitHub = "octocat"

	results, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gh.calls != 0 {
		t.Fatalf("github must not be called without a token")
	}
	if results["github_error"] != missingTokenMessage {
		t.Fatalf("expected missing-token message, got %v", results["github_error"])
	}
}

func TestAnalyzeGitHubUnparsableInput(t *testing.T) {
	gh := &fakeGitHub{}
	svc := &Service{Resume: okResume(), GitHub: gh, DefaultGitHubToken: "env-token"}

	req := baseRequest()
	req.GitHub = "https://gitlab.com/someone"

	results, err := svc.Analyze(context.Background(), req)
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if results["github_error"] != "Could not parse GitHub username from input" {
		t.Fatalf("expected parse failure message, got %v", results["github_error"])
	}
	if gh.calls != 0 {
		t.Fatalf("github must not be called with an unparsable identifier")
	}
}

func TestAnalyzeGitHubURLInputIsNormalized(t *testing.T) {
	gh := &fakeGitHub{payload: map[string]any{"username": "octocat"}}
	svc := &Service{Resume: okResume(), GitHub: gh, DefaultGitHubToken: "env-token"}

	req := baseRequest()
	req.GitHub = "https://github.com/octocat"

	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if gh.gotUser != "octocat" {
		t.Fatalf("expected parsed handle octocat, got %q", gh.gotUser)
	}
}

func TestAnalyzeRecordsHistory(t *testing.T) {
	repo := NewMemoryRepo()
	gh := &fakeGitHub{err: errors.New("boom")}
	lc := &fakeProfile{payload: map[string]any{"total_solved": 450}}
	svc := &Service{
		Resume:             &fakeResume{payload: map[string]any{"storage_key": "abc/resume.pdf"}},
		GitHub:             gh,
		LeetCode:           lc,
		DefaultGitHubToken: "env-token",
		Repo:               repo,
	}

	req := baseRequest()
	req.GitHub = "octocat"
	req.LeetCode = "tourist"

	if _, err := svc.Analyze(context.Background(), req); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	recs, err := repo.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("list recent: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected one record, got %d", len(recs))
	}
	rec := recs[0]
	if rec.RequestID != "req-1" || rec.ResumeFile != "resume.pdf" {
		t.Fatalf("unexpected record identity: %+v", rec)
	}
	if rec.StorageKey != "abc/resume.pdf" {
		t.Fatalf("expected storage key from resume payload, got %q", rec.StorageKey)
	}
	wantOK := []string{"resume", "leetcode"}
	if len(rec.SourcesOK) != len(wantOK) {
		t.Fatalf("SourcesOK = %v, want %v", rec.SourcesOK, wantOK)
	}
	if len(rec.SourcesErr) != 1 || rec.SourcesErr[0] != "github" {
		t.Fatalf("SourcesErr = %v, want [github]", rec.SourcesErr)
	}
}

type failingRepo struct{}

func (failingRepo) Create(ctx context.Context, rec Record) error { return errors.New("db down") }
func (failingRepo) GetByID(ctx context.Context, id string) (Record, error) {
	return Record{}, ErrNotFound
}
func (failingRepo) ListRecent(ctx context.Context, limit int) ([]Record, error) { return nil, nil }

func TestAnalyzePersistenceFailureIsSilent(t *testing.T) {
	svc := &Service{Resume: okResume(), Repo: failingRepo{}}

	results, err := svc.Analyze(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("persistence failure must not surface: %v", err)
	}
	if _, ok := results["resume"]; !ok {
		t.Fatalf("expected resume key, got %v", results)
	}
}
