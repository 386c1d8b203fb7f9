package application

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_StableMessage(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{
		"password": "is required",
		"email":    "must be a valid email",
		"name":     "is required",
	}}
	want := "validation failed: email must be a valid email; name is required; password is required"
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, err.Error())
	}
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
