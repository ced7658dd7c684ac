package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"servicehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/notifications", h.List)
	rg.DELETE("/notifications/seen/:screen", h.MarkAllSeen)
	rg.POST("/notifications/device-tokens", h.RegisterDeviceToken)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")

	limit := 20
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}

	list, total, err := h.service.List(c.Request.Context(), userID, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get notifications")
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"total":         total,
	})
}

// MarkAllSeen is called when the client focuses the screen the alerts were
// destined for; the matching notifications are deleted outright.
func (h *Handler) MarkAllSeen(c *gin.Context) {
	userID := c.GetInt64("user_id")
	screen := c.Param("screen")

	if err := h.service.MarkAllSeen(c.Request.Context(), userID, screen); err != nil {
		if err == ErrBadScreen {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown screen")
			return
		}
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to mark notifications as seen")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"seen": true})
}

func (h *Handler) RegisterDeviceToken(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req struct {
		Token    string `json:"token" binding:"required"`
		Platform string `json:"platform" binding:"required,oneof=android ios web"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	if err := h.service.RegisterDeviceToken(c.Request.Context(), userID, req.Token, req.Platform); err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to register device token")
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"registered": true})
}
