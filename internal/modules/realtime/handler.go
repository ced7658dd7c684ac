package realtime

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/jwt"
	"servicehub/internal/pkg/response"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true }, // tighten in prod
}

// AccountChecker confirms a token still maps to an account in good standing
// before the upgrade; revoked tokens must not reopen a socket.
type AccountChecker interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type Handler struct {
	hub   *Hub
	jwt   *jwt.Service
	users AccountChecker
	log   *zap.Logger
}

func NewHandler(hub *Hub, jwtService *jwt.Service, users AccountChecker, log *zap.Logger) *Handler {
	return &Handler{hub: hub, jwt: jwtService, users: users, log: log}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket upgrades GET /ws?token=JWT to a realtime connection.
// Auth rides a query parameter because browsers cannot set headers on
// websocket dials.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Token is required")
		return
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
		return
	}
	if user.Banned || user.TokenVersion != claims.TokenVersion {
		response.Error(c, http.StatusUnauthorized, "SESSION_REVOKED", "Session revoked")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	h.log.Debug("websocket connected", zap.Int64("user_id", claims.UserID))
	h.hub.ServeConn(conn, claims.UserID)
	h.log.Debug("websocket disconnected", zap.Int64("user_id", claims.UserID))
}
