package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longbox/longbox-server/internal/errors"
)

type testRequest struct {
	Name  string `json:"name,omitempty" validate:"required"`
	Count int    `json:"count" validate:"gte=0"`
	Kind  string `json:"kind" validate:"omitempty,oneof=single collection anthology"`
}

func TestValidate_OK(t *testing.T) {
	v := New()
	assert.NoError(t, v.Validate(testRequest{Name: "x", Count: 1, Kind: "single"}))
	assert.NoError(t, v.Validate(testRequest{Name: "x"}))
}

func TestValidate_FieldErrors(t *testing.T) {
	v := New()

	err := v.Validate(testRequest{Count: -1, Kind: "bogus"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))

	// JSON tag names, options stripped.
	assert.Contains(t, err.Error(), "name is required")
	assert.Contains(t, err.Error(), "count must be greater than or equal to 0")
	assert.Contains(t, err.Error(), "kind must be one of: single collection anthology")
}
