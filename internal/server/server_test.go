package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pantheonai/stackr/config"
	"github.com/pantheonai/stackr/internal/advisor"
	"github.com/pantheonai/stackr/internal/telemetry"
)

type fakeProcessor struct {
	got advisor.Request
	res advisor.Result
	err error
}

func (f *fakeProcessor) Process(_ context.Context, req advisor.Request) (advisor.Result, error) {
	f.got = req
	if strings.TrimSpace(req.Goal) == "" {
		return advisor.Result{}, advisor.ErrEmptyGoal
	}
	return f.res, f.err
}

func newTestServer(p *fakeProcessor) *Server {
	cfg := &config.Config{Server: config.ServerConfig{Address: ":0"}}
	return New(cfg, p, telemetry.New(), log.New(io.Discard, "", 0))
}

func TestOptimizeEndpoint(t *testing.T) {
	proc := &fakeProcessor{res: advisor.Result{
		Plan:             advisor.Plan{CardPlan: "Card X", SpendingStrategy: "groceries", RedemptionPlan: "cashback", Raw: "{}"},
		ROIEstimate:      420.5,
		ConsistencyScore: 0.5,
		ReviewNotes:      "should not leak",
	}}
	srv := newTestServer(proc)

	body := `{"user_id":"u-9","goal":"maximize grocery cashback"}`
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	for _, key := range []string{"plan", "roi_estimate", "consistency_score"} {
		if _, ok := resp[key]; !ok {
			t.Fatalf("response missing %q: %s", key, rec.Body.String())
		}
	}
	if _, ok := resp["review_notes"]; ok {
		t.Fatal("review notes must not appear in the HTTP response")
	}
	if proc.got.UserID != "u-9" || !proc.got.SkipReview {
		t.Fatalf("unexpected orchestration request: %+v", proc.got)
	}
}

func TestOptimizeEmptyGoal(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(`{"goal":""}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "goal") {
		t.Fatalf("expected goal error message, got %s", rec.Body.String())
	}
}

func TestOptimizeBadBody(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestOptimizeProcessorFailure(t *testing.T) {
	srv := newTestServer(&fakeProcessor{err: errors.New("backend exploded")})
	req := httptest.NewRequest(http.MethodPost, "/api/optimize", strings.NewReader(`{"goal":"a goal"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(&fakeProcessor{})
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", rec.Code)
	}
}
