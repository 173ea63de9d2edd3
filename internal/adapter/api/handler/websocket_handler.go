package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "helperhive/internal/infrastructure/websocket"
	"helperhive/pkg/logger"
)

type WebSocketHandler struct {
	wsManager *ws.Manager
	upgrader  gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager, allowedOrigins []string) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager: wsManager,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// originChecker allows any origin when none are configured.
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, origin := range allowed {
		set[origin] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.Header.Get("Origin")]
		return ok
	}
}

// HandleWebSocket upgrades an authenticated request and serves it until the
// connection closes.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	userID := currentUserID(c)

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Warn("Websocket upgrade failed for %s: %v", userID, err)
		return nil
	}

	h.wsManager.Serve(userID, conn)
	return nil
}
