package booking

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"servicehub/internal/domain"
	"servicehub/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/bookings", h.Create)
	rg.GET("/bookings", h.List)
	rg.GET("/bookings/:id", h.GetByID)
	rg.POST("/bookings/:id/confirm", h.Confirm)
	rg.POST("/bookings/:id/decline", h.Decline)
	rg.POST("/bookings/:id/start", h.Start)
	rg.POST("/bookings/:id/cancel", h.Cancel)
	rg.POST("/bookings/:id/request-completion", h.RequestCompletion)
	rg.POST("/bookings/:id/approve", h.Approve)
	rg.POST("/bookings/:id/reject-completion", h.RejectCompletion)
	rg.POST("/bookings/:id/payment", h.SubmitPayment)
}

func (h *Handler) Create(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, b)
}

func (h *Handler) List(c *gin.Context) {
	userID := c.GetInt64("user_id")
	role := domain.UserRole(c.GetString("role"))

	limit, offset := 20, 0
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			limit = v
		}
	}
	if s := c.Query("offset"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v >= 0 {
			offset = v
		}
	}

	list, err := h.service.ListForUser(c.Request.Context(), userID, role, c.Query("status"), limit, offset)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": list})
}

func (h *Handler) GetByID(c *gin.Context) {
	b, err := h.service.GetByID(c.Request.Context(), h.bookingID(c), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) Confirm(c *gin.Context) {
	h.transition(c, h.service.Confirm)
}

func (h *Handler) Decline(c *gin.Context) {
	h.transitionWithReason(c, h.service.Decline)
}

func (h *Handler) Start(c *gin.Context) {
	h.transition(c, h.service.Start)
}

func (h *Handler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, h.service.Cancel)
}

func (h *Handler) RequestCompletion(c *gin.Context) {
	h.transition(c, h.service.RequestCompletion)
}

func (h *Handler) Approve(c *gin.Context) {
	h.transition(c, h.service.Approve)
}

func (h *Handler) RejectCompletion(c *gin.Context) {
	h.transition(c, h.service.RejectCompletion)
}

func (h *Handler) SubmitPayment(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := h.service.SubmitPayment(c.Request.Context(), h.bookingID(c), userID, req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, b)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, bookingID, actorID int64) (*domain.Booking, error)) {
	b, err := fn(c.Request.Context(), h.bookingID(c), c.GetInt64("user_id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) transitionWithReason(c *gin.Context, fn func(ctx context.Context, bookingID, actorID int64, reason string) (*domain.Booking, error)) {
	var req ReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	b, err := fn(c.Request.Context(), h.bookingID(c), c.GetInt64("user_id"), req.Reason)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, b)
}

func (h *Handler) bookingID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound, ErrServiceNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking or service not found")
	case ErrForbidden:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a party to this booking")
	case ErrReasonRequired:
		response.Error(c, http.StatusBadRequest, "REASON_REQUIRED", "A non-empty reason is required")
	case ErrValidation:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request")
	case ErrFullyBooked:
		response.Error(c, http.StatusConflict, "FULLY_BOOKED", "This service is fully booked")
	case ErrStatusConflict:
		response.Error(c, http.StatusConflict, "STATUS_CONFLICT", "Booking status changed, reload and retry")
	case ErrDuplicateReference:
		response.Error(c, http.StatusConflict, "DUPLICATE_REFERENCE", "This payment reference was already used")
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process booking")
	}
}
