package response

import (
	"errors"
	"net/http"

	"campuscollab/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit int, total int64) Pagination {
	var pages int64
	if limit > 0 {
		pages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"status": "success",
		"data":   data,
	})
}

func Paginated(c *gin.Context, data interface{}, p Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"data":       data,
		"pagination": p,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"status": "error",
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"status": "error",
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Fail renders err. Application errors keep their status and message;
// anything else is logged and hidden behind a 500.
func Fail(c *gin.Context, err error) {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if appErr.Details != nil {
			ErrorWithDetails(c, appErr.Status, string(appErr.Kind), appErr.Error(), appErr.Details)
			return
		}
		Error(c, appErr.Status, string(appErr.Kind), appErr.Error())
		return
	}

	_ = c.Error(err)
	log.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Msg("unhandled error")
	Error(c, http.StatusInternalServerError, "INTERNAL", "Internal server error")
}
