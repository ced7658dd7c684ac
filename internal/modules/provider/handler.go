package provider

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

// RegisterPublicRoutes exposes the shop view to any authenticated user.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers/:id/shop", h.Shop)
	rg.GET("/providers/:id/services", h.ListServices)
}

// RegisterOwnerRoutes mounts the mutations, guarded by the provider role.
func (h *Handler) RegisterOwnerRoutes(rg *gin.RouterGroup) {
	rg.POST("/services", h.CreateService)
	rg.PUT("/services/:id", h.UpdateService)
	rg.DELETE("/services/:id", h.DeleteService)
	rg.POST("/gallery", h.AddGalleryImage)
	rg.DELETE("/gallery/:id", h.DeleteGalleryImage)
	rg.PUT("/business-hours", h.SetBusinessHours)
}

func (h *Handler) Shop(c *gin.Context) {
	view, err := h.service.Shop(c.Request.Context(), h.pathID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

func (h *Handler) ListServices(c *gin.Context) {
	list, err := h.service.ListServices(c.Request.Context(), h.pathID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"services": list})
}

func (h *Handler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	listing, err := h.service.CreateService(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, listing)
}

func (h *Handler) UpdateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	listing, err := h.service.UpdateService(c.Request.Context(), c.GetInt64("user_id"), h.pathID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, listing)
}

func (h *Handler) DeleteService(c *gin.Context) {
	if err := h.service.DeleteService(c.Request.Context(), c.GetInt64("user_id"), h.pathID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) AddGalleryImage(c *gin.Context) {
	var req GalleryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	img, err := h.service.AddGalleryImage(c.Request.Context(), c.GetInt64("user_id"), req.URL)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, img)
}

func (h *Handler) DeleteGalleryImage(c *gin.Context) {
	if err := h.service.DeleteGalleryImage(c.Request.Context(), c.GetInt64("user_id"), h.pathID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) SetBusinessHours(c *gin.Context) {
	var req HoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	hours, err := h.service.SetBusinessHours(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"business_hours": hours})
}

func (h *Handler) pathID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Provider or listing not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You do not own this listing")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid business hours")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process request")
	}
}
