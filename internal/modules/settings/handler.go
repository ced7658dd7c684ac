package settings

import (
	"net/http"

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
	rg.GET("/settings", h.GetSettings)
	rg.PATCH("/settings", h.UpdateSettings)
}

func (h *Handler) GetSettings(c *gin.Context) {
	userID := c.GetInt64("user_id")

	s, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get settings")
		return
	}

	response.Success(c, http.StatusOK, s)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	s, err := h.service.Update(c.Request.Context(), userID, req)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "UPDATE_FAILED", "Failed to update settings")
		return
	}

	response.Success(c, http.StatusOK, s)
}
