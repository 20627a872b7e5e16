package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{Validationf("empty item name"), 400},
		{NotFoundf("supply x"), 404},
		{fmt.Errorf("%w: level 5 cannot absorb -6", ErrInsufficientStock), 422},
		{ErrConflict, 409},
		{ErrBusy, 503},
		{ErrStorage, 500},
		{errors.New("anything else"), 500},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusCode(tt.err), "error: %v", tt.err)
	}
}

func TestWrappedErrorsKeepDetailAndIdentity(t *testing.T) {
	err := Validationf("field '%s' failed on '%s'", "ItemName", "required")
	assert.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "ItemName")
}
