package live

import (
	"context"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/kisaanlabs/kisaan-mitra/internal/agent"
)

const realtimeAudioMIME = "audio/pcm;rate=16000"

// Session is one live run. It is the request sink for client input and the
// producer of the typed event stream; both sides are owned by exactly one
// connection.
type Session struct {
	conn *websocket.Conn
	def  *agent.Agent

	writeMu sync.Mutex
	events  chan Event

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(conn *websocket.Conn, def *agent.Agent) *Session {
	return &Session{
		conn:   conn,
		def:    def,
		events: make(chan Event, 16),
		done:   make(chan struct{}),
	}
}

// Events returns the agent event stream. The channel closes when the runtime
// ends the run or the session is closed.
func (s *Session) Events() <-chan Event {
	return s.events
}

// SendContent submits one complete user text turn.
func (s *Session) SendContent(text string) error {
	return s.writeFrame(clientFrame{ClientContent: &clientContentPayload{
		Turns:        []content{{Role: "user", Parts: []part{{Text: text}}}},
		TurnComplete: true,
	}})
}

// SendRealtime forwards one chunk of raw 16 kHz mono s16le PCM.
func (s *Session) SendRealtime(pcm []byte) error {
	return s.writeFrame(clientFrame{RealtimeInput: &realtimeInputPayload{
		Audio: &blob{MIMEType: realtimeAudioMIME, Data: pcm},
	}})
}

// Close ends the run and releases the connection. Safe to call more than
// once; only the first call acts.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		_ = s.conn.Close()
	})
	return nil
}

func (s *Session) writeFrame(f clientFrame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}
	return s.conn.WriteJSON(f)
}

// readLoop drains server frames until the socket closes, decomposing content
// into events and answering tool calls in place.
func (s *Session) readLoop() {
	defer close(s.events)
	for {
		var frame serverFrame
		if err := s.conn.ReadJSON(&frame); err != nil {
			// Remote close ends the run; this is normal completion.
			select {
			case <-s.done:
			default:
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("live: read: %v", err)
				}
			}
			return
		}
		switch {
		case frame.ServerContent != nil:
			for _, ev := range frame.ServerContent.decompose() {
				select {
				case s.events <- ev:
				case <-s.done:
					return
				}
			}
		case frame.ToolCall != nil:
			go s.answerToolCall(frame.ToolCall)
		case frame.GoAway != nil:
			log.Printf("live: goAway received, runtime is ending the run")
		}
	}
}

func (s *Session) answerToolCall(tc *toolCallPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), toolCallTimeout)
	defer cancel()
	responses := make([]functionResponse, 0, len(tc.FunctionCalls))
	for _, call := range tc.FunctionCalls {
		handler, ok := s.def.Handler(call.Name)
		var result map[string]any
		if !ok {
			result = map[string]any{"error": "unknown tool: " + call.Name}
		} else {
			result = handler(ctx, call.Args)
		}
		responses = append(responses, functionResponse{ID: call.ID, Name: call.Name, Response: result})
	}
	if err := s.writeFrame(clientFrame{ToolResponse: &toolResponsePayload{FunctionResponses: responses}}); err != nil {
		log.Printf("live: tool response: %v", err)
	}
}
