package user

import (
	"net/http"
	"strconv"

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
		public.POST("/users/register", h.Register)
		public.POST("/users/login", h.Login)
		public.GET("/users/:id", h.GetPublicProfile)
	}

	if protected != nil {
		protected.GET("/users/profile", h.GetProfile)
		protected.PATCH("/users/profile", h.UpdateProfile)
		protected.POST("/users/favorites/:skillId", h.ToggleFavorite)
	}
}

func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	res, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, res)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.service.GetProfile(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": p})
}

func (h *Handler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := validator.BindJSON(c, &req); err != nil {
		response.Fail(c, err)
		return
	}

	u, err := h.service.UpdateProfile(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": u})
}

func (h *Handler) ToggleFavorite(c *gin.Context) {
	skillID, err := parseParam(c, "skillId")
	if err != nil {
		response.Fail(c, err)
		return
	}

	ids, err := h.service.ToggleFavorite(c.Request.Context(), c.GetInt64("user_id"), skillID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"favorites": ids})
}

func (h *Handler) GetPublicProfile(c *gin.Context) {
	id, err := parseParam(c, "id")
	if err != nil {
		response.Fail(c, err)
		return
	}

	p, err := h.service.GetPublicProfile(c.Request.Context(), id)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"user": p})
}

func parseParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.InvalidInput("Invalid " + name)
	}
	return id, nil
}
