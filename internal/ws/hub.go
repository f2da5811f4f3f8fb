package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/cyberchess/cyberchess/internal/events"
	"github.com/cyberchess/cyberchess/internal/logging"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// Hub bridges the in-process event bus to websocket clients. One goroutine
// per connection streams the session's state-delta events; the engine never
// sees the sockets.
type Hub struct {
	bus *events.Bus
}

func NewHub(bus *events.Bus) *Hub {
	return &Hub{bus: bus}
}

// Serve upgrades the request and streams events for the session code until
// the client goes away.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionCode string) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		logging.Error("websocket accept failed", err, logging.Fields{"session": sessionCode})
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	ch, cancel := h.bus.Subscribe(sessionCode)
	defer cancel()

	ctx := r.Context()

	// Reader goroutine: we never expect client frames, but reading drains
	// control messages and detects closure.
	readCtx, stopRead := context.WithCancel(ctx)
	defer stopRead()
	go func() {
		for {
			if _, _, err := conn.Read(readCtx); err != nil {
				stopRead()
				return
			}
		}
	}()

	for {
		select {
		case <-readCtx.Done():
			return
		case evt, ok := <-ch:
			if !ok {
				return
			}
			writeCtx, cancelWrite := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, conn, evt)
			cancelWrite()
			if err != nil {
				return
			}
		}
	}
}
