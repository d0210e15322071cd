// Package live implements a client for the Gemini Live (BidiGenerateContent)
// websocket API. A connected Session is a request sink for client
// text/audio and a typed event stream for agent output; tool calls are
// answered inside the session and never surface as events.
package live

// Event is one unit of agent output. The variants are AudioChunk,
// TextFragment, and TurnStatus; a single server frame may decompose into
// several events, audio always first.
type Event interface {
	liveEvent()
}

// AudioChunk is inline agent audio, forwarded as soon as it arrives.
type AudioChunk struct {
	MIMEType string
	Data     []byte
}

// TextFragment is a partial transcript. The runtime re-emits progressively
// more complete versions within a turn; the latest one supersedes the rest.
type TextFragment struct {
	Text string
}

// TurnStatus marks a turn boundary. Either flag may be set independently.
type TurnStatus struct {
	TurnComplete bool
	Interrupted  bool
}

func (AudioChunk) liveEvent()   {}
func (TextFragment) liveEvent() {}
func (TurnStatus) liveEvent()   {}
