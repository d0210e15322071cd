package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
)

type fakeRunner struct {
	gotPrompt string
	gotAgent  *agent.Agent
	answer    string
	err       error
}

func (f *fakeRunner) Run(_ context.Context, def *agent.Agent, userText string) (string, error) {
	f.gotAgent = def
	f.gotPrompt = userText
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestServer(runner *fakeRunner) http.Handler {
	e := New()
	h := NewHandlers(nil, runner, &agent.Agent{Name: "kisaan_info", Model: "m"}, "")
	h.Register(e)
	return e
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(&fakeRunner{})
	r := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestWeatherAdvisory_OK(t *testing.T) {
	runner := &fakeRunner{answer: "Light rain expected; delay spraying."}
	srv := newTestServer(runner)

	body := `{"lat": 18.5204, "lon": 73.8567, "days": 3}`
	r := httptest.NewRequest(http.MethodPost, "/kisaan_info/weather", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["summary"] != runner.answer {
		t.Errorf("summary = %q", resp["summary"])
	}
	if !strings.Contains(runner.gotPrompt, "18.5204") || !strings.Contains(runner.gotPrompt, "3 days") {
		t.Errorf("prompt = %q", runner.gotPrompt)
	}
	if runner.gotAgent == nil || runner.gotAgent.Name != "kisaan_info" {
		t.Errorf("wrong agent: %+v", runner.gotAgent)
	}
}

func TestWeatherAdvisory_DefaultDays(t *testing.T) {
	runner := &fakeRunner{answer: "fine"}
	srv := newTestServer(runner)

	r := httptest.NewRequest(http.MethodPost, "/kisaan_info/weather",
		strings.NewReader(`{"lat": 1, "lon": 2}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(runner.gotPrompt, "7 days") {
		t.Errorf("prompt = %q, want default 7 days", runner.gotPrompt)
	}
}

func TestWeatherAdvisory_BadBody(t *testing.T) {
	srv := newTestServer(&fakeRunner{})
	for _, body := range []string{"not-json", `{"days": 3}`} {
		r := httptest.NewRequest(http.MethodPost, "/kisaan_info/weather", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		srv.ServeHTTP(w, r)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %q: expected 400, got %d", body, w.Code)
		}
	}
}

func TestWeatherAdvisory_RunFailure(t *testing.T) {
	srv := newTestServer(&fakeRunner{err: errors.New("upstream down")})
	r := httptest.NewRequest(http.MethodPost, "/kisaan_info/weather",
		strings.NewReader(`{"lat": 1, "lon": 2, "days": 1}`))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)

	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	if resp["error"] == "" {
		t.Errorf("missing error field: %s", w.Body.String())
	}
}

func TestWS_MissingUserID(t *testing.T) {
	srv := newTestServer(&fakeRunner{})
	r := httptest.NewRequest(http.MethodGet, "/ws/", nil)
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, r)
	if w.Code == http.StatusOK {
		t.Fatalf("expected failure without user id, got %d", w.Code)
	}
}
