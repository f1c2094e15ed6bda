package validator

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campuscollab/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingBody struct {
	SkillID   int64  `json:"skillId" binding:"required,gt=0"`
	Date      string `json:"date" binding:"required,isodate,futuredate"`
	StartTime string `json:"startTime" binding:"required,hhmm"`
	EndTime   string `json:"endTime" binding:"required,hhmm,clockafter=StartTime"`
	Notes     string `json:"notes" binding:"max=10"`
}

func bind(t *testing.T, body string) error {
	t.Helper()
	Register()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var dst bookingBody
	return BindJSON(c, &dst)
}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr), "got %v", err)
	require.Equal(t, apperror.KindValidation, appErr.Kind)
	return appErr.Details.(map[string]string)
}

func TestBindJSON_Valid(t *testing.T) {
	now = func() time.Time { return time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { now = func() time.Time { return time.Now().UTC() } }()

	err := bind(t, `{"skillId":1,"date":"2030-01-01","startTime":"09:00","endTime":"10:00"}`)
	assert.NoError(t, err)
}

func TestBindJSON_FieldMessages(t *testing.T) {
	now = func() time.Time { return time.Date(2030, 1, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { now = func() time.Time { return time.Now().UTC() } }()

	err := bind(t, `{"date":"2029-12-31","startTime":"25:00","endTime":"08:00","notes":"far too long for this"}`)
	got := fields(t, err)

	assert.Equal(t, "is required", got["skillId"])
	assert.Equal(t, "must not be in the past", got["date"])
	assert.Equal(t, "must be in HH:mm format", got["startTime"])
	assert.Equal(t, "must be at most 10 characters", got["notes"])
	_, hasEnd := got["endTime"]
	assert.False(t, hasEnd, "endTime is only judged against a valid startTime")
}

func TestBindJSON_EndBeforeStart(t *testing.T) {
	now = func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	defer func() { now = func() time.Time { return time.Now().UTC() } }()

	got := fields(t, bind(t, `{"skillId":1,"date":"2030-01-02","startTime":"10:00","endTime":"09:30"}`))
	assert.Equal(t, "must be after startTime", got["endTime"])
}

func TestBindJSON_Malformed(t *testing.T) {
	err := bind(t, `{"skillId":`)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}
