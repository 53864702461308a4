package handler

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/modelerd/internal/events"
)

// Events streams the host-shell event bus over WebSocket.
type Events struct {
	bus    *events.Bus
	logger zerolog.Logger
}

func NewEvents(bus *events.Bus, logger zerolog.Logger) *Events {
	return &Events{
		bus:    bus,
		logger: logger.With().Str("component", "events-handler").Logger(),
	}
}

// Stream upgrades to WebSocket and forwards bus events until the
// client disconnects.
func (h *Events) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	sub, cancel := h.bus.Subscribe()
	defer cancel()

	// Drain client frames so pings are answered and closure is seen.
	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			if _, _, err := conn.Read(ctx); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event, ok := <-sub:
			if !ok {
				return
			}
			if err := wsjson.Write(ctx, conn, event); err != nil {
				h.logger.Debug().Err(err).Msg("event write failed, dropping subscriber")
				return
			}
		case <-readerDone:
			return
		case <-ctx.Done():
			return
		}
	}
}

// compile-time check that the bus satisfies the emitter contract the
// handlers depend on.
var _ events.Emitter = (*events.Bus)(nil)
