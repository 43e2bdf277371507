package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"food-delivery-orders/apperrors"

	"gorm.io/gorm"
)

// classify maps a raw store error onto the application taxonomy. Errors that
// are already classified pass through untouched.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NewNotFoundError(op + ": record not found")
	case isUnavailable(err):
		return apperrors.NewStoreUnavailableError(op+": store unavailable", err)
	default:
		return apperrors.NewInternalError(op, err)
	}
}

func notFound(entity, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFoundError(fmt.Sprintf("%s %s not found", entity, id))
	}
	return classify("get "+entity, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "sql: database is closed")
}
