package skill

import (
	"net/http"
	"strconv"

	"campuscollab/internal/domain"
	"campuscollab/internal/middleware"
	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/pkg/response"
	"campuscollab/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/skills", h.List)
		public.GET("/skills/:id", h.Get)
	}

	if protected != nil {
		protected.POST("/skills", middleware.RequireRole(string(domain.RoleTutor)), h.Create)
		protected.PATCH("/skills/:id", h.Update)
		protected.DELETE("/skills/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateSkillRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	sk, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"skill": sk})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := validator.BindQuery(c, &q); err != nil {
		response.Fail(c, err)
		return
	}
	page, limit := response.PageParams(c)

	skills, total, err := h.service.List(c.Request.Context(), q, limit, response.Offset(page, limit))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paginated(c, gin.H{"skills": skills}, response.NewPagination(page, limit, total))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	sk, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"skill": sk})
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req UpdateSkillRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	sk, err := h.service.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"skill": sk})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.GetInt64("user_id"), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil)
}

func parseID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput("Invalid skill ID")
	}
	return id, nil
}
