package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
)

func textCandidate(text string) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role":  "model",
					"parts": []any{map[string]any{"text": text}},
				},
			},
		},
	}
}

func callCandidate(name string, args map[string]any) map[string]any {
	return map[string]any{
		"candidates": []any{
			map[string]any{
				"content": map[string]any{
					"role": "model",
					"parts": []any{map[string]any{
						"functionCall": map[string]any{"name": name, "args": args},
					}},
				},
			},
		},
	}
}

func TestRun_PlainAnswer(t *testing.T) {
	var gotPath string
	var gotBody generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(textCandidate("  twelve quintals  "))
	}))
	defer srv.Close()

	c := NewGeminiClient("key")
	c.BaseURL = srv.URL
	def := &agent.Agent{Model: "gemini-2.5-flash-lite", Instruction: "be brief"}

	out, err := c.Run(context.Background(), def, "how much?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "twelve quintals" {
		t.Errorf("answer = %q", out)
	}
	if !strings.Contains(gotPath, "gemini-2.5-flash-lite:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotBody.SystemInstruction == nil || gotBody.SystemInstruction.Parts[0].Text != "be brief" {
		t.Errorf("system instruction not sent: %+v", gotBody.SystemInstruction)
	}
	if len(gotBody.Contents) != 1 || gotBody.Contents[0].Parts[0].Text != "how much?" {
		t.Errorf("contents = %+v", gotBody.Contents)
	}
}

func TestRun_ToolLoop(t *testing.T) {
	var requests []generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		json.NewDecoder(r.Body).Decode(&req)
		requests = append(requests, req)
		if len(requests) == 1 {
			json.NewEncoder(w).Encode(callCandidate("lookup", map[string]any{"city": "Pune"}))
			return
		}
		json.NewEncoder(w).Encode(textCandidate("sunny in Pune"))
	}))
	defer srv.Close()

	var handlerArgs map[string]any
	def := &agent.Agent{
		Model: "m",
		Tools: []agent.Tool{{
			Declaration: agent.Declaration{Name: "lookup"},
			Handler: func(_ context.Context, args map[string]any) map[string]any {
				handlerArgs = args
				return map[string]any{"weather": "sunny"}
			},
		}},
	}

	c := NewGeminiClient("key")
	c.BaseURL = srv.URL
	out, err := c.Run(context.Background(), def, "weather in Pune?")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "sunny in Pune" {
		t.Errorf("answer = %q", out)
	}
	if handlerArgs["city"] != "Pune" {
		t.Errorf("handler args = %v", handlerArgs)
	}
	if len(requests) != 2 {
		t.Fatalf("got %d requests, want 2", len(requests))
	}
	// Second request must carry the model's call and our response.
	second := requests[1]
	if len(second.Contents) != 3 {
		t.Fatalf("second request has %d contents, want 3", len(second.Contents))
	}
	fr := second.Contents[2].Parts[0].FunctionResponse
	if fr == nil || fr.Name != "lookup" || fr.Response["weather"] != "sunny" {
		t.Errorf("function response = %+v", fr)
	}
	if len(requests[0].Tools) != 1 || len(requests[0].Tools[0].FunctionDeclarations) != 1 {
		t.Errorf("tool declarations not sent: %+v", requests[0].Tools)
	}
}

func TestRun_UnknownToolAnsweredAsError(t *testing.T) {
	var second generateRequest
	n := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		if n == 1 {
			json.NewEncoder(w).Encode(callCandidate("missing_tool", nil))
			return
		}
		json.NewDecoder(r.Body).Decode(&second)
		json.NewEncoder(w).Encode(textCandidate("ok"))
	}))
	defer srv.Close()

	c := NewGeminiClient("key")
	c.BaseURL = srv.URL
	if _, err := c.Run(context.Background(), &agent.Agent{Model: "m"}, "hi"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	fr := second.Contents[2].Parts[0].FunctionResponse
	if fr == nil || fr.Response["error"] != "unknown tool: missing_tool" {
		t.Errorf("function response = %+v", fr)
	}
}

func TestRun_ToolRoundCap(t *testing.T) {
	n := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n++
		json.NewEncoder(w).Encode(callCandidate("spin", nil))
	}))
	defer srv.Close()

	def := &agent.Agent{
		Model: "m",
		Tools: []agent.Tool{{
			Declaration: agent.Declaration{Name: "spin"},
			Handler: func(context.Context, map[string]any) map[string]any {
				return map[string]any{"again": true}
			},
		}},
	}
	c := NewGeminiClient("key")
	c.BaseURL = srv.URL
	_, err := c.Run(context.Background(), def, "loop forever")
	if err == nil || !strings.Contains(err.Error(), "tool rounds") {
		t.Fatalf("err = %v, want round cap", err)
	}
	if n != maxToolRounds {
		t.Errorf("made %d requests, want %d", n, maxToolRounds)
	}
}

func TestRun_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"quota"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewGeminiClient("key")
	c.BaseURL = srv.URL
	_, err := c.Run(context.Background(), &agent.Agent{Model: "m"}, "hi")
	if err == nil || !strings.Contains(err.Error(), "status=429") {
		t.Fatalf("err = %v, want status error", err)
	}
}

func TestRun_MissingKey(t *testing.T) {
	c := NewGeminiClient("")
	if _, err := c.Run(context.Background(), &agent.Agent{Model: "m"}, "hi"); err == nil {
		t.Fatal("expected error without api key")
	}
}
