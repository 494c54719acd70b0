package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewConflict("slug already exists", nil))

	assert.Equal(t, Conflict, KindOf(wrapped))
	assert.True(t, IsConflict(wrapped))
	assert.Equal(t, Fault, KindOf(errors.New("boom")))
	assert.False(t, IsNotFound(nil))
}

func TestStatusCode(t *testing.T) {
	cases := map[*Error]int{
		NewNotFound("x"):               http.StatusNotFound,
		NewValidation("x"):             http.StatusBadRequest,
		NewConflict("x", nil):          http.StatusBadRequest,
		NewConstraint("x", nil):        http.StatusBadRequest,
		NewUnauthorized("x"):           http.StatusUnauthorized,
		NewForbidden("x"):              http.StatusForbidden,
		NewFault("x", errors.New("y")): http.StatusInternalServerError,
	}
	for err, status := range cases {
		assert.Equal(t, status, err.StatusCode(), err.Kind.String())
	}
}

func TestFrom(t *testing.T) {
	cause := errors.New("connection reset")
	err := From(cause)

	assert.Equal(t, Fault, err.Kind)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "StorageFault", err.Kind.String())

	invalid := NewInvalidFields("Validation failed", map[string]string{"name": "required"})
	assert.Same(t, invalid, From(invalid))
	assert.Equal(t, "ValidationError", From(invalid).Kind.String())
}
