package bridge

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kisaanlabs/kisaan-mitra/internal/transcode"
)

const (
	// pcmChunkSize bounds realtime chunks fed from a transcoded file so the
	// channel is not flooded in one burst.
	pcmChunkSize = 4096
	// chunkPacing approximates flow control between chunks.
	chunkPacing = 10 * time.Millisecond
)

// Sink is the agent-bound request queue, from the relay's point of view.
type Sink interface {
	SendContent(text string) error
	SendRealtime(pcm []byte) error
}

// messageReader is the read half of the client socket.
type messageReader interface {
	ReadMessage() (int, []byte, error)
}

// RunInbound consumes client frames until the connection drops or a message
// fails. Text becomes a complete user turn; raw PCM is forwarded untouched;
// m4a containers are decoded and streamed in paced chunks. A failed decode
// drops just that utterance.
func RunInbound(ctx context.Context, callID string, sock messageReader, sink Sink, dec transcode.Decoder) error {
	for {
		_, data, err := sock.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || isNormalClose(err) {
				return nil
			}
			return err
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return fmt.Errorf("%w: %v", ErrProtocol, err)
		}
		switch msg.MIMEType {
		case "":
			return fmt.Errorf("%w: missing mime_type", ErrProtocol)
		case mimeText:
			if err := sink.SendContent(msg.Data); err != nil {
				return err
			}
			log.Printf("[%s] client -> agent: text/plain %d chars", callID, len(msg.Data))
		case mimePCM:
			pcm, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				return fmt.Errorf("%w: bad audio payload: %v", ErrProtocol, err)
			}
			if err := sink.SendRealtime(pcm); err != nil {
				return err
			}
		case mimeM4A:
			container, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				return fmt.Errorf("%w: bad audio payload: %v", ErrProtocol, err)
			}
			decoded, err := dec.Decode(ctx, container)
			if err != nil {
				// Dropped utterance; the relay stays up.
				log.Printf("[%s] transcode failed, dropping utterance: %v", callID, err)
				continue
			}
			log.Printf("[%s] client -> agent: decoded %d bytes of PCM", callID, len(decoded))
			if err := streamPCM(ctx, sink, decoded); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: %s", ErrUnsupportedMedia, msg.MIMEType)
		}
	}
}

// streamPCM forwards decoded PCM in bounded chunks with a short pause
// between them.
func streamPCM(ctx context.Context, sink Sink, pcm []byte) error {
	for off := 0; off < len(pcm); off += pcmChunkSize {
		end := off + pcmChunkSize
		if end > len(pcm) {
			end = len(pcm)
		}
		if err := sink.SendRealtime(pcm[off:end]); err != nil {
			return err
		}
		select {
		case <-time.After(chunkPacing):
		case <-ctx.Done():
			return nil
		}
	}
	return nil
}

func isNormalClose(err error) bool {
	if errors.Is(err, io.EOF) {
		return true
	}
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseNoStatusReceived,
	)
}
