package live

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
)

const (
	defaultHost     = "generativelanguage.googleapis.com"
	bidiPath        = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
	connectTimeout  = 15 * time.Second
	toolCallTimeout = 30 * time.Second
)

// RunConfig selects the response modality and transcription behavior for one
// live run.
type RunConfig struct {
	ResponseModalities       []string
	InputAudioTranscription  bool
	OutputAudioTranscription bool
}

// Client dials live runs against the hosted runtime.
type Client struct {
	APIKey string
	// Endpoint overrides the default wss URL; used by tests to point at a
	// local server.
	Endpoint string
	Dialer   *websocket.Dialer
}

// NewClient constructs a Client for the public endpoint.
func NewClient(apiKey string) *Client {
	return &Client{APIKey: apiKey, Dialer: websocket.DefaultDialer}
}

// Connect opens a live run for the given agent definition: dials the
// websocket, performs the setup handshake, and starts the reader. The
// returned Session accepts writes as soon as Connect returns.
func (c *Client) Connect(ctx context.Context, def *agent.Agent, cfg RunConfig) (*Session, error) {
	if c.APIKey == "" && c.Endpoint == "" {
		return nil, fmt.Errorf("live: api key missing")
	}
	endpoint := c.Endpoint
	if endpoint == "" {
		endpoint = (&url.URL{
			Scheme:   "wss",
			Host:     defaultHost,
			Path:     bidiPath,
			RawQuery: url.Values{"key": {c.APIKey}}.Encode(),
		}).String()
	}

	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	conn, _, err := dialer.DialContext(dialCtx, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("live: dial: %w", err)
	}

	setup := &setupPayload{
		Model:            qualifyModel(def.Model),
		GenerationConfig: &generationConfig{ResponseModalities: cfg.ResponseModalities},
	}
	if def.Instruction != "" {
		setup.SystemInstruction = &content{Parts: []part{{Text: def.Instruction}}}
	}
	if decls := def.Declarations(); len(decls) > 0 {
		setup.Tools = append(setup.Tools, toolSpec{FunctionDeclarations: decls})
	}
	if def.GoogleSearch {
		setup.Tools = append(setup.Tools, toolSpec{GoogleSearch: &struct{}{}})
	}
	if cfg.InputAudioTranscription {
		setup.InputAudioTranscription = &struct{}{}
	}
	if cfg.OutputAudioTranscription {
		setup.OutputAudioTranscription = &struct{}{}
	}

	if err := conn.WriteJSON(clientFrame{Setup: setup}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("live: send setup: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(connectTimeout))
	_, data, err := conn.ReadMessage()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("live: setup handshake: %w", err)
	}
	var ack serverFrame
	if err := json.Unmarshal(data, &ack); err != nil || ack.SetupComplete == nil {
		_ = conn.Close()
		return nil, fmt.Errorf("live: expected setupComplete, got %q", truncateForLog(data))
	}
	_ = conn.SetReadDeadline(time.Time{})

	s := newSession(conn, def)
	go s.readLoop()
	return s, nil
}

func qualifyModel(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}

func truncateForLog(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
