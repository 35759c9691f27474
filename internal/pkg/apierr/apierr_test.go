package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	cause := errors.New("level is required")
	err := Validation(cause)

	assert.Equal(t, http.StatusBadRequest, err.Status)
	assert.Equal(t, "level is required", err.Error())
	assert.ErrorIs(t, err, cause)

	wrapped := fmt.Errorf("generate: %w", err)
	got, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, CodeValidation, got.Code)
	assert.True(t, HasCode(wrapped, CodeValidation))
	assert.False(t, HasCode(cause, CodeValidation))

	assert.Equal(t, "unknown_tool", New(0, CodeUnknownTool, nil).Error())
	assert.Equal(t, "api error (502)", New(502, "", nil).Error())
}
