package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"campuscollab/internal/domain"
	"campuscollab/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// now is swapped in tests.
var now = func() time.Time { return time.Now().UTC() }

// Register installs the custom tags and JSON field naming on gin's
// validator engine. Safe to call more than once.
func Register() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		_ = v.RegisterValidation("hhmm", validateClock)
		_ = v.RegisterValidation("isodate", validateDate)
		_ = v.RegisterValidation("futuredate", validateFutureDate)
		_ = v.RegisterValidation("clockafter", validateClockAfter)
	})
}

func jsonFieldName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

func validateClock(fl validator.FieldLevel) bool {
	_, err := domain.ParseClock(fl.Field().String())
	return err == nil
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := domain.ParseDate(fl.Field().String())
	return err == nil
}

// validateFutureDate accepts today and later, compared as UTC calendar days.
func validateFutureDate(fl validator.FieldLevel) bool {
	d, err := domain.ParseDate(fl.Field().String())
	if err != nil {
		return false
	}
	today := now().Truncate(24 * time.Hour)
	return !d.Before(today)
}

// validateClockAfter checks an HH:mm field is strictly later than the
// sibling field named by the tag parameter.
func validateClockAfter(fl validator.FieldLevel) bool {
	end, err := domain.ParseClock(fl.Field().String())
	if err != nil {
		return false
	}
	other := fl.Parent().FieldByName(fl.Param())
	if !other.IsValid() || other.Kind() != reflect.String {
		return false
	}
	start, err := domain.ParseClock(other.String())
	if err != nil {
		return true // reported by the sibling's own hhmm tag
	}
	return end > start
}

// BindJSON decodes the body into obj and runs validation, returning an
// apperror carrying field messages keyed by JSON name.
func BindJSON(c *gin.Context, obj any) error {
	return translate(c.ShouldBindJSON(obj))
}

func BindQuery(c *gin.Context, obj any) error {
	return translate(c.ShouldBindQuery(obj))
}

func translate(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperror.Validation(Fields(verrs))
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.InvalidInput("Request body is required")
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return apperror.InvalidInput("Malformed JSON body")
	case errors.As(err, &typeErr):
		return apperror.Validation(map[string]string{typeErr.Field: "has the wrong type"})
	}
	return apperror.InvalidInput(err.Error())
}

// Fields turns validator errors into field → message pairs.
func Fields(verrs validator.ValidationErrors) map[string]string {
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fieldPath(fe)] = message(fe)
	}
	return out
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "hhmm":
		return "must be in HH:mm format"
	case "isodate":
		return "must be a date in YYYY-MM-DD format"
	case "futuredate":
		return "must not be in the past"
	case "clockafter":
		return "must be after " + lowerFirst(fe.Param())
	case "dive":
		return "is invalid"
	}
	return "is invalid"
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
