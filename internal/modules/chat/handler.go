package chat

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
	rg.POST("/conversations", h.Open)
	rg.GET("/conversations", h.ListConversations)
	rg.GET("/conversations/:id/messages", h.ListMessages)
	rg.POST("/conversations/:id/messages", h.Send)
	rg.POST("/conversations/:id/seen", h.MarkSeen)
}

func (h *Handler) Open(c *gin.Context) {
	var req OpenConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	conv, err := h.service.Open(c.Request.Context(), c.GetInt64("user_id"), req.PeerID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, conv)
}

func (h *Handler) ListConversations(c *gin.Context) {
	list, err := h.service.ListConversations(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "FETCH_FAILED", "Failed to get conversations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversations": list})
}

func (h *Handler) ListMessages(c *gin.Context) {
	limit := 0
	if s := c.Query("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}

	msgs, err := h.service.ListMessages(c.Request.Context(), c.GetInt64("user_id"), h.conversationID(c), limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"messages": msgs})
}

func (h *Handler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	m, err := h.service.Send(c.Request.Context(), c.GetInt64("user_id"), h.conversationID(c), req)
	if err != nil {
		h.writeError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, m)
}

func (h *Handler) MarkSeen(c *gin.Context) {
	if err := h.service.MarkSeen(c.Request.Context(), c.GetInt64("user_id"), h.conversationID(c)); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"seen": true})
}

func (h *Handler) conversationID(c *gin.Context) int64 {
	id, _ := strconv.ParseInt(c.Param("id"), 10, 64)
	return id
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch err {
	case ErrNotFound:
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
	case ErrNotParticipant:
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "You are not a participant of this conversation")
	case ErrEmptyMessage, ErrSamePeer:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process request")
	}
}
