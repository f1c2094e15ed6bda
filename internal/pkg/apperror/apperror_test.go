package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesKind(t *testing.T) {
	err := Conflict("Time slot is already booked")

	assert.ErrorIs(t, err, ErrConflict)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, http.StatusConflict, err.Status)
	assert.Equal(t, "Time slot is already booked", err.Error())
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("create booking: %w", NotFound("Skill not found"))

	assert.True(t, errors.Is(err, ErrNotFound))

	var ae *Error
	assert.True(t, errors.As(err, &ae))
	assert.Equal(t, KindNotFound, ae.Kind)
}

func TestInvalidTransition_NamesBothStates(t *testing.T) {
	err := InvalidTransition("pending", "completed")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, "Cannot transition from pending to completed", err.Message)
	assert.Equal(t, http.StatusBadRequest, err.Status)
}

func TestValidation_CarriesFields(t *testing.T) {
	err := Validation(map[string]string{"startTime": "must be in HH:mm format"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, map[string]string{"startTime": "must be in HH:mm format"}, err.Details)
}
