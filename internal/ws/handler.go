package ws

import (
	"net/http"
	"slices"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mfreitas/chatterline/internal/config"
	"github.com/mfreitas/chatterline/internal/utils"
	"github.com/mfreitas/chatterline/pkg/logger"
	"github.com/mfreitas/chatterline/pkg/response"
)

// Handler upgrades HTTP requests on /ws into hub-managed connections.
type Handler struct {
	hub         *Hub
	requireAuth bool
	upgrader    websocket.Upgrader
}

func NewHandler(hub *Hub, cfg *config.Config) *Handler {
	allowed := cfg.CORS.AllowedOrigins
	return &Handler{
		hub:         hub,
		requireAuth: cfg.Websocket.RequireAuth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// No Origin header means a non-browser client.
				return origin == "" || slices.Contains(allowed, origin)
			},
		},
	}
}

// Serve handles GET /ws?id_sent=<uid>&token=<accessToken>. The upstream
// protocol trusts id_sent alone; with require_auth on, the access token
// must verify and its subject must match before the upgrade happens.
func (h *Handler) Serve(c *gin.Context) {
	idSent := c.Query("id_sent")
	userID, err := strconv.ParseUint(idSent, 10, 32)
	if err != nil || userID == 0 {
		response.BadRequest(c, "id_sent is required")
		return
	}

	if h.requireAuth {
		claims, err := utils.ParseAccessToken(c.Query("token"))
		if err != nil || claims.UserID != uint(userID) {
			response.Unauthorized(c, "Unauthorized")
			return
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn().Err(err).Str("ip", c.ClientIP()).Msg("websocket upgrade failed")
		return
	}

	client := newClient(conn, h.hub, uint(userID))
	h.hub.Register(client)

	go client.writePump()
	go client.readPump()
}
