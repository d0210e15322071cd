// Package bridge relays one client connection to one agent run: client
// frames in, agent events out, both relays bounded by the connection.
package bridge

import "errors"

const (
	mimeText = "text/plain"
	mimePCM  = "audio/pcm"
	mimeM4A  = "audio/m4a"
)

// ClientMessage is the inbound envelope. Audio payloads are base64 in Data.
type ClientMessage struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// AudioMessage carries one agent audio chunk to the client.
type AudioMessage struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"` // base64
}

// TextMessage carries the consolidated turn text to the client.
type TextMessage struct {
	MIMEType string `json:"mime_type"`
	Data     string `json:"data"`
}

// TurnMessage signals a turn boundary; flags are relayed verbatim.
type TurnMessage struct {
	TurnComplete bool `json:"turn_complete"`
	Interrupted  bool `json:"interrupted"`
}

// ErrProtocol marks a malformed inbound envelope. It aborts the inbound
// relay; a misframing client will not frame the next message any better.
var ErrProtocol = errors.New("malformed client message")

// ErrUnsupportedMedia marks an inbound MIME type the bridge does not accept.
// Also aborts the relay.
var ErrUnsupportedMedia = errors.New("unsupported media type")
