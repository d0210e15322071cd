package bridge

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kisaanlabs/kisaan-mitra/internal/session"
	"github.com/kisaanlabs/kisaan-mitra/internal/transcode"
)

// Handler upgrades client connections and runs one bridged session per
// connection.
type Handler struct {
	Bootstrap *session.Bootstrap
	Decoder   transcode.Decoder
	Upgrader  websocket.Upgrader
}

// ServeWS runs the full lifecycle of one client connection: upgrade, start a
// fresh agent session, relay in both directions, and tear everything down
// when either side ends.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request, userID string, audio bool) error {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess, run, err := h.Bootstrap.StartSession(ctx, userID, audio)
	if err != nil {
		log.Printf("session start failed for %s: %v", userID, err)
		conn.WriteJSON(map[string]string{"error": "session start failed"})
		return err
	}
	defer h.Bootstrap.Store.Delete(sess.ID)
	callID := sess.ID
	log.Printf("[%s] client connected: user=%s modality=%s", callID, userID, sess.Modality)

	errc := make(chan error, 2)
	go func() {
		errc <- RunOutbound(ctx, callID, run.Events(), conn)
	}()
	go func() {
		errc <- RunInbound(ctx, callID, conn, run, h.Decoder)
	}()

	// Whichever relay finishes first decides the session is over. Cancel the
	// sibling, close both legs, then wait for it to drain.
	first := <-errc
	cancel()
	conn.Close()
	if err := run.Close(); err != nil {
		log.Printf("[%s] session close: %v", callID, err)
	}
	second := <-errc

	if first != nil {
		log.Printf("[%s] relay ended: %v", callID, first)
	}
	log.Printf("[%s] client disconnected: user=%s", callID, userID)
	if first != nil {
		return first
	}
	return second
}
