package taskerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationf_WrapsSentinel(t *testing.T) {
	err := Validationf("title is required")

	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "title is required")
}

func TestIsNotFound_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("loading task 7: %w", ErrNotFound)

	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestInfrastructureErrorsMatchNeither(t *testing.T) {
	err := errors.New("dial tcp: connection refused")

	assert.False(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}
