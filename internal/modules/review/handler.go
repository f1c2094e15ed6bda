package review

import (
	"net/http"
	"strconv"

	"campuscollab/internal/pkg/apperror"
	"campuscollab/internal/pkg/response"
	"campuscollab/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(public, protected *gin.RouterGroup) {
	if public != nil {
		public.GET("/reviews/skill/:skillId", h.ListBySkill)
	}

	if protected != nil {
		protected.POST("/reviews", h.Create)
		protected.PATCH("/reviews/:id", h.Update)
		protected.DELETE("/reviews/:id", h.Delete)
		protected.POST("/reviews/:id/vote", h.Vote)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	rv, err := h.svc.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"review": rv})
}

func (h *Handler) ListBySkill(c *gin.Context) {
	skillID, err := parseParam(c, "skillId", "Invalid skill ID")
	if err != nil {
		response.Fail(c, err)
		return
	}
	page, limit := response.PageParams(c)

	list, total, err := h.svc.ListBySkill(c.Request.Context(), skillID, limit, response.Offset(page, limit))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Paginated(c, gin.H{"reviews": list}, response.NewPagination(page, limit, total))
}

func (h *Handler) Update(c *gin.Context) {
	id, err := parseParam(c, "id", "Invalid review ID")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req UpdateReviewRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	rv, err := h.svc.Update(c.Request.Context(), c.GetInt64("user_id"), id, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"review": rv})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := parseParam(c, "id", "Invalid review ID")
	if err != nil {
		response.Fail(c, err)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Vote(c *gin.Context) {
	id, err := parseParam(c, "id", "Invalid review ID")
	if err != nil {
		response.Fail(c, err)
		return
	}
	var req VoteRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	counts, err := h.svc.Vote(c.Request.Context(), c.GetInt64("user_id"), id, req.VoteType)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, counts)
}

func parseParam(c *gin.Context, name, msg string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput(msg)
	}
	return id, nil
}
