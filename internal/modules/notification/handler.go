package notification

import (
	"net/http"
	"strconv"

	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
	ws      *WSHandler
}

func NewHandler(service *Service, ws *WSHandler) *Handler {
	return &Handler{service: service, ws: ws}
}

// RegisterRoutes mounts the socket on the public group since it
// authenticates from the query string.
func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil && h.ws != nil {
		public.GET("/notifications/ws", h.ws.Serve)
	}

	if protected != nil {
		g := protected.Group("/notifications")
		{
			g.GET("", h.List)
			g.PATCH("/read-all", h.MarkAllRead)
			g.PATCH("/:id/read", h.MarkRead)
		}
	}
}

func (h *Handler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	list, unread, err := h.service.List(c.Request.Context(), c.GetInt64("user_id"), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"notifications": list,
		"unreadCount":   unread,
	})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Fail(c, apperror.InvalidInput("Invalid notification ID"))
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	if err := h.service.MarkAllRead(c.Request.Context(), c.GetInt64("user_id")); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}
