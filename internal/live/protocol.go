package live

import (
	"strings"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
)

// Wire types for the BidiGenerateContent websocket protocol. Exactly one
// top-level field is set per frame in either direction.

type clientFrame struct {
	Setup         *setupPayload         `json:"setup,omitempty"`
	ClientContent *clientContentPayload `json:"clientContent,omitempty"`
	RealtimeInput *realtimeInputPayload `json:"realtimeInput,omitempty"`
	ToolResponse  *toolResponsePayload  `json:"toolResponse,omitempty"`
}

type setupPayload struct {
	Model                    string            `json:"model"`
	GenerationConfig         *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction        *content          `json:"systemInstruction,omitempty"`
	Tools                    []toolSpec        `json:"tools,omitempty"`
	InputAudioTranscription  *struct{}         `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}         `json:"outputAudioTranscription,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type toolSpec struct {
	FunctionDeclarations []agent.Declaration `json:"functionDeclarations,omitempty"`
	GoogleSearch         *struct{}           `json:"googleSearch,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"` // base64 on the wire
}

type clientContentPayload struct {
	Turns        []content `json:"turns,omitempty"`
	TurnComplete bool      `json:"turnComplete"`
}

type realtimeInputPayload struct {
	Audio *blob `json:"audio,omitempty"`
}

type toolResponsePayload struct {
	FunctionResponses []functionResponse `json:"functionResponses,omitempty"`
}

type functionResponse struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name"`
	Response map[string]any `json:"response"`
}

type serverFrame struct {
	SetupComplete *struct{}        `json:"setupComplete,omitempty"`
	ServerContent *serverContent   `json:"serverContent,omitempty"`
	ToolCall      *toolCallPayload `json:"toolCall,omitempty"`
	GoAway        map[string]any   `json:"goAway,omitempty"`
}

type serverContent struct {
	ModelTurn           *content       `json:"modelTurn,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
}

type transcription struct {
	Text string `json:"text,omitempty"`
}

type toolCallPayload struct {
	FunctionCalls []functionCall `json:"functionCalls,omitempty"`
}

type functionCall struct {
	ID   string         `json:"id,omitempty"`
	Name string         `json:"name"`
	Args map[string]any `json:"args,omitempty"`
}

// decompose flattens one serverContent frame into ordered events: audio
// chunks first, then the newest text fragment, then a turn status if either
// flag is set.
func (sc *serverContent) decompose() []Event {
	var events []Event
	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			if p.InlineData != nil && len(p.InlineData.Data) > 0 && strings.HasPrefix(p.InlineData.MIMEType, "audio/pcm") {
				events = append(events, AudioChunk{MIMEType: p.InlineData.MIMEType, Data: p.InlineData.Data})
			}
		}
		for _, p := range sc.ModelTurn.Parts {
			if p.Text != "" {
				events = append(events, TextFragment{Text: p.Text})
			}
		}
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		events = append(events, TextFragment{Text: sc.OutputTranscription.Text})
	}
	if sc.TurnComplete || sc.Interrupted {
		events = append(events, TurnStatus{TurnComplete: sc.TurnComplete, Interrupted: sc.Interrupted})
	}
	return events
}
