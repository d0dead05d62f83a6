package handlers

import (
	"context"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"

	"edumaster/web/internal/session"
)

const eventWriteTimeout = 5 * time.Second

// SessionEvents streams the session state over a websocket: the current state
// on connect, then the latest state after every transition. Bursts of
// transitions may be coalesced into one message.
func (h HandlerSet) SessionEvents(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: originPatterns(h.cfg.AllowCORSOrigins),
	})
	if err != nil {
		h.log.Warn().Err(err).Msg("session events accept failed")
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "bye") }()

	// Nothing is read from the client; CloseRead cancels ctx when it goes away.
	ctx := conn.CloseRead(c.Request.Context())

	changed := make(chan struct{}, 1)
	unsubscribe := h.session.Subscribe(func(_ session.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		if err := h.writeState(ctx, conn); err != nil {
			h.log.Debug().Err(err).Int("close_status", int(websocket.CloseStatus(err))).Msg("session events closed")
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-changed:
		}
	}
}

func (h HandlerSet) writeState(parent context.Context, conn *websocket.Conn) error {
	ctx, cancel := context.WithTimeout(parent, eventWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, h.session.State())
}

// originPatterns turns configured CORS origins into the host patterns
// websocket.Accept matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, origin := range origins {
		u, err := url.Parse(origin)
		if err != nil || u.Host == "" {
			continue
		}
		patterns = append(patterns, u.Host)
	}
	return patterns
}
