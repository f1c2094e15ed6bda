package notification

import (
	"net/http"
	"time"

	"campuscollab/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type WSHandler struct {
	hub    *Hub
	tokens TokenValidator
	log    zerolog.Logger
}

func NewWSHandler(hub *Hub, tokens TokenValidator, log zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, tokens: tokens, log: log}
}

// Serve upgrades GET /notifications/ws?token=JWT and keeps the socket
// registered until the client goes away.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "AUTH_TOKEN_MISSING", "Token is required")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	userID := claims.UserID
	cl := h.hub.register(userID, conn)
	h.log.Debug().Int64("user_id", userID).Msg("notification socket connected")

	done := make(chan struct{})
	go h.pingLoop(cl, done)

	h.readLoop(cl)
	close(done)
	h.hub.unregister(userID, cl)
	h.log.Debug().Int64("user_id", userID).Msg("notification socket disconnected")
}

func (h *WSHandler) pingLoop(cl *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cl.ping(); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

// readLoop discards client frames and returns when the connection ends.
func (h *WSHandler) readLoop(cl *client) {
	conn := cl.conn
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Msg("notification socket closed")
			}
			return
		}
	}
}
