package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelMatching(t *testing.T) {
	err := NotFound("library %q does not exist", "lib-1")

	assert.True(t, Is(err, ErrNotFound))
	assert.False(t, Is(err, ErrConflict))
	assert.Equal(t, http.StatusNotFound, err.HTTPStatus())
}

func TestWithContext(t *testing.T) {
	err := Conflict("author already exists").WithContext("author.create")

	assert.Equal(t, "author.create", err.Context)
	assert.Contains(t, err.Error(), "author.create: ")
	// Context must not break sentinel matching.
	assert.True(t, Is(err, ErrConflict))
}

func TestWrappedCausePreservesCode(t *testing.T) {
	cause := fmt.Errorf("UNIQUE constraint failed: libraries.name")
	err := ErrConflict.WithCause(cause).WithContext("library.create")

	require.True(t, Is(err, ErrConflict))
	assert.ErrorContains(t, err, "UNIQUE constraint failed")
	assert.Equal(t, cause, Unwrap(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeValidation, CodeOf(Validation("bad limit")))
	assert.Equal(t, CodeInternal, CodeOf(fmt.Errorf("raw failure")))
}

func TestInvalidScopeDistinctFromForbidden(t *testing.T) {
	// Both render as 403, but only INVALID_SCOPE triggers the admin retry.
	assert.False(t, Is(InvalidScope("missing grant"), ErrForbidden))
	assert.Equal(t, http.StatusForbidden, ErrInvalidScope.HTTPStatus())
}
