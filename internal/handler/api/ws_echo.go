package api

import (
	"net/http"
	"time"

	"CryptoBasket/internal/realtime"
	"CryptoBasket/internal/usecase"
	xlogger "CryptoBasket/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WSEchoHandler streams every refreshed dashboard to websocket clients.
type WSEchoHandler struct {
	logger   *xlogger.Logger
	hub      *realtime.Hub
	uc       *usecase.DashboardUseCase
	upgrader websocket.Upgrader
}

func NewWSEchoHandler(logger *xlogger.Logger, hub *realtime.Hub, uc *usecase.DashboardUseCase) *WSEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &WSEchoHandler{
		logger: logger,
		hub:    hub,
		uc:     uc,
		upgrader: websocket.Upgrader{
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws", h.Stream)
}

func (h *WSEchoHandler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	client := h.hub.AddClient(conn)
	h.logger.Debug("websocket client connected", xlogger.String("remote", c.RealIP()))

	if d, ok := h.uc.Latest(); ok {
		_ = client.WriteJSON(d)
	}

	conn.SetReadLimit(4096)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.RemoveClient(conn)
			return nil
		}
	}
}
