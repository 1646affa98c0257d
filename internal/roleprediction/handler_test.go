package roleprediction

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newHandlerRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(newTestPredictor(nil)).RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestPredictEndpointSuccess(t *testing.T) {
	router := newHandlerRouter()

	body := bytes.NewBufferString(`{"inputs":"react and angular dashboards"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict-role", body)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result Result
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.Label != "technology" {
		t.Fatalf("expected technology, got %q", result.Label)
	}
	if result.Confidence != heuristicConfidence {
		t.Fatalf("expected heuristic confidence, got %v", result.Confidence)
	}
	if len(result.RecommendedRoles) == 0 {
		t.Fatalf("expected recommended roles")
	}
}

func TestPredictEndpointRejectsEmptyInputs(t *testing.T) {
	router := newHandlerRouter()

	for _, payload := range []string{`{"inputs":""}`, `{"inputs":"   "}`, `{}`} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict-role", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)

		if resp.Code != http.StatusBadRequest {
			t.Fatalf("payload %s: expected 400, got %d", payload, resp.Code)
		}
	}
}

func TestPredictEndpointRejectsMalformedJSON(t *testing.T) {
	router := newHandlerRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict-role", bytes.NewBufferString(`{"inputs":`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}
