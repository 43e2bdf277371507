package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for clients. It is serialized as errorKind.
type Kind string

const (
	KindValidation                  Kind = "ValidationError"
	KindNotFound                    Kind = "NotFound"
	KindInvalidTransition           Kind = "InvalidTransition"
	KindStaleState                  Kind = "StaleState"
	KindAssignmentConflict          Kind = "AssignmentConflict"
	KindNotificationDeliveryFailure Kind = "NotificationDeliveryFailure"
	KindStoreUnavailable            Kind = "StoreUnavailable"
	KindUnauthorized                Kind = "Unauthorized"
	KindForbidden                   Kind = "Forbidden"
	KindConflict                    Kind = "Conflict"
	KindInternal                    Kind = "Internal"
)

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type Error struct {
	Kind    Kind
	Message string
	Details []ValidationDetail
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

func NewValidationError(message string, details ...ValidationDetail) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

func NewNotFoundError(message string) *Error {
	return newError(KindNotFound, message, nil)
}

func NewInvalidTransitionError(message string) *Error {
	return newError(KindInvalidTransition, message, nil)
}

func NewStaleStateError(message string) *Error {
	return newError(KindStaleState, message, nil)
}

func NewAssignmentConflictError(message string) *Error {
	return newError(KindAssignmentConflict, message, nil)
}

func NewNotificationDeliveryError(message string, cause error) *Error {
	return newError(KindNotificationDeliveryFailure, message, cause)
}

func NewStoreUnavailableError(message string, cause error) *Error {
	return newError(KindStoreUnavailable, message, cause)
}

func NewUnauthorizedError(message string) *Error {
	return newError(KindUnauthorized, message, nil)
}

func NewForbiddenError(message string) *Error {
	return newError(KindForbidden, message, nil)
}

func NewConflictError(message string) *Error {
	return newError(KindConflict, message, nil)
}

func NewInternalError(message string, cause error) *Error {
	return newError(KindInternal, message, cause)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal
// for errors that were never classified.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindInvalidTransition:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindStaleState, KindAssignmentConflict, KindConflict:
		return http.StatusConflict
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
