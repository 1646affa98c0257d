package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func chatBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":    "chatcmpl-1",
		"model": "gpt-test",
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	})
	return string(b)
}

func TestGenerateGuidanceReturnsJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("expected bearer header, got %q", got)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode chat request: %v", err)
		}
		if req["model"] != "gpt-test" {
			t.Errorf("expected model gpt-test, got %v", req["model"])
		}
		w.Write([]byte(chatBody(`{"technical_skills":[]}`)))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-test", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	raw, err := client.GenerateGuidance(context.Background(), map[string]any{"skills": []string{"python"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("expected valid JSON, got %s", raw)
	}
}

func TestGenerateGuidanceStripsCodeFences(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatBody("```json\n{\"technical_skills\":[]}\n```")))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-test", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	raw, err := client.GenerateGuidance(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("fenced content must decode after stripping: %v", err)
	}
}

func TestGenerateGuidanceRepairsInvalidJSON(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&calls, 1)
		if n == 1 {
			w.Write([]byte(chatBody(`{"technical_skills": [unquoted]}`)))
			return
		}
		var req struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode fix request: %v", err)
		}
		last := req.Messages[len(req.Messages)-1].Content
		if !strings.Contains(last, "unquoted") {
			t.Errorf("fix prompt must carry the malformed output, got %q", last)
		}
		w.Write([]byte(chatBody(`{"technical_skills": ["fixed"]}`)))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-test", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	raw, err := client.GenerateGuidance(context.Background(), map[string]any{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("expected repair pass, got %d calls", calls)
	}
	if !strings.Contains(string(raw), "fixed") {
		t.Fatalf("expected repaired JSON, got %s", raw)
	}
}

func TestGenerateGuidanceFailsWhenRepairStillInvalid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatBody(`still {not json`)))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-test", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.GenerateGuidance(context.Background(), map[string]any{}); err == nil {
		t.Fatalf("expected error when repair output is still invalid")
	}
}

func TestGenerateGuidanceSurfacesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	client, err := NewClientWithEndpoint("sk-test", "gpt-test", srv.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GenerateGuidance(context.Background(), map[string]any{})
	if err == nil || !strings.Contains(err.Error(), "Incorrect API key") {
		t.Fatalf("expected API error surfaced, got %v", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "gpt-test", time.Second); err == nil {
		t.Fatalf("expected error for missing api key")
	}
	if _, err := NewClient("sk-test", "", time.Second); err == nil {
		t.Fatalf("expected error for missing model")
	}
}
