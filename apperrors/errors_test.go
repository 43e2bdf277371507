package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Creation(t *testing.T) {
	err := NewValidationError("validation failed",
		ValidationDetail{Field: "items", Message: "must not be empty"},
		ValidationDetail{Field: "address", Message: "required field"},
	)

	assert.Equal(t, KindValidation, err.Kind)
	assert.Equal(t, "validation failed", err.Error())
	assert.Len(t, err.Details, 2)
}

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("transition order: %w", NewStaleStateError("order moved on"))

	assert.Equal(t, KindStaleState, KindOf(err))
	assert.True(t, IsKind(err, KindStaleState))
	assert.False(t, IsKind(err, KindNotFound))
}

func TestKindOf_UnclassifiedError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.False(t, IsKind(nil, KindInternal))
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("database error")
	err := NewInternalError("failed to query orders", cause)

	assert.Contains(t, err.Error(), "failed to query orders")
	assert.Contains(t, err.Error(), "database error")
	assert.True(t, errors.Is(err, cause))
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", NewForbiddenError("not your order"))

	appErr, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, "not your order", appErr.Message)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:                  http.StatusBadRequest,
		KindInvalidTransition:           http.StatusBadRequest,
		KindUnauthorized:                http.StatusUnauthorized,
		KindForbidden:                   http.StatusForbidden,
		KindNotFound:                    http.StatusNotFound,
		KindStaleState:                  http.StatusConflict,
		KindAssignmentConflict:          http.StatusConflict,
		KindConflict:                    http.StatusConflict,
		KindStoreUnavailable:            http.StatusServiceUnavailable,
		KindInternal:                    http.StatusInternalServerError,
		KindNotificationDeliveryFailure: http.StatusInternalServerError,
	}
	for kind, want := range cases {
		assert.Equal(t, want, HTTPStatus(kind), string(kind))
	}
}
