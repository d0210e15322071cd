package bridge

import (
	"context"
	"encoding/base64"
	"log"

	"github.com/kisaanlabs/kisaan-mitra/internal/live"
)

// messageWriter is the write half of the client socket.
type messageWriter interface {
	WriteJSON(v interface{}) error
}

// RunOutbound forwards agent events to the client. Audio goes out as soon as
// it arrives. Text fragments for the current turn overwrite each other, and
// the latest version is flushed when the turn-status event lands, so the
// client sees each turn's transcript exactly once.
func RunOutbound(ctx context.Context, callID string, events <-chan live.Event, sock messageWriter) error {
	var latest string
	for {
		var ev live.Event
		var ok bool
		select {
		case ev, ok = <-events:
		case <-ctx.Done():
			return nil
		}
		if !ok {
			return nil
		}
		switch e := ev.(type) {
		case live.AudioChunk:
			out := AudioMessage{MIMEType: mimePCM, Data: base64.StdEncoding.EncodeToString(e.Data)}
			if err := sock.WriteJSON(out); err != nil {
				return err
			}
		case live.TextFragment:
			latest = e.Text
		case live.TurnStatus:
			if latest != "" {
				if err := sock.WriteJSON(TextMessage{MIMEType: mimeText, Data: latest}); err != nil {
					return err
				}
				log.Printf("[%s] agent -> client: text/plain %d chars", callID, len(latest))
			}
			if err := sock.WriteJSON(TurnMessage{TurnComplete: e.TurnComplete, Interrupted: e.Interrupted}); err != nil {
				return err
			}
			latest = ""
		}
	}
}
