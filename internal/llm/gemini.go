// Package llm runs one-shot agent turns over the Gemini REST API. The live
// websocket runtime handles conversations; this client serves endpoints that
// need a single answered request, tools included.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// maxToolRounds caps the request/tool-call ping-pong for a single run. A
// model stuck calling tools past this is not converging on an answer.
const maxToolRounds = 8

type GeminiClient struct {
	HTTPClient *http.Client
	APIKey     string
	// BaseURL overrides the production endpoint in tests.
	BaseURL string
}

func NewGeminiClient(apiKey string) *GeminiClient {
	return &GeminiClient{
		HTTPClient: &http.Client{Timeout: 20 * time.Second},
		APIKey:     apiKey,
	}
}

type generateRequest struct {
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
	Contents          []content `json:"contents"`
	Tools             []toolSet `json:"tools,omitempty"`
}

type toolSet struct {
	FunctionDeclarations []agent.Declaration `json:"functionDeclarations,omitempty"`
	GoogleSearch         map[string]any      `json:"googleSearch,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text             string            `json:"text,omitempty"`
	FunctionCall     *functionCall     `json:"functionCall,omitempty"`
	FunctionResponse *functionResponse `json:"functionResponse,omitempty"`
}

type functionCall struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

type functionResponse struct {
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Run sends userText to the agent's model and drives tool calls until the
// model produces a text answer. Tool failures go back to the model as
// {"error": ...} responses; only transport and protocol failures end the run.
func (c *GeminiClient) Run(ctx context.Context, def *agent.Agent, userText string) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("gemini api key missing")
	}

	req := generateRequest{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: userText}}},
		},
	}
	if def.Instruction != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: def.Instruction}}}
	}
	if decls := def.Declarations(); len(decls) > 0 {
		req.Tools = append(req.Tools, toolSet{FunctionDeclarations: decls})
	}
	if def.GoogleSearch {
		req.Tools = append(req.Tools, toolSet{GoogleSearch: map[string]any{}})
	}

	for round := 0; round < maxToolRounds; round++ {
		reply, err := c.generate(ctx, def.Model, &req)
		if err != nil {
			return "", err
		}

		calls := reply.calls()
		if len(calls) == 0 {
			text := reply.text()
			if text == "" {
				return "", fmt.Errorf("gemini: empty candidate")
			}
			return text, nil
		}

		// Append the model turn, answer every call, go around again.
		req.Contents = append(req.Contents, *reply)
		responses := content{Role: "user", Parts: nil}
		for _, fc := range calls {
			responses.Parts = append(responses.Parts, part{
				FunctionResponse: &functionResponse{
					Name:     fc.Name,
					Response: c.dispatch(ctx, def, fc),
				},
			})
		}
		req.Contents = append(req.Contents, responses)
	}
	return "", fmt.Errorf("gemini: no answer after %d tool rounds", maxToolRounds)
}

func (c *GeminiClient) dispatch(ctx context.Context, def *agent.Agent, fc functionCall) map[string]any {
	handler, ok := def.Handler(fc.Name)
	if !ok {
		return map[string]any{"error": "unknown tool: " + fc.Name}
	}
	return handler(ctx, fc.Args)
}

func (c *GeminiClient) generate(ctx context.Context, model string, body *generateRequest) (*content, error) {
	base := c.BaseURL
	if base == "" {
		base = defaultBaseURL
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", base, model)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gemini error: status=%d body=%s", resp.StatusCode, string(b))
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, err
	}
	if len(gr.Candidates) == 0 {
		return nil, fmt.Errorf("gemini: no candidates")
	}
	reply := gr.Candidates[0].Content
	if reply.Role == "" {
		reply.Role = "model"
	}
	return &reply, nil
}

func (ct *content) calls() []functionCall {
	var calls []functionCall
	for _, p := range ct.Parts {
		if p.FunctionCall != nil {
			calls = append(calls, *p.FunctionCall)
		}
	}
	return calls
}

func (ct *content) text() string {
	var b strings.Builder
	for _, p := range ct.Parts {
		b.WriteString(p.Text)
	}
	return strings.TrimSpace(b.String())
}
