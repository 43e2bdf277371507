package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"food-delivery-orders/apperrors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	assert.NoError(t, classify("op", nil))
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(classify("op", gorm.ErrRecordNotFound)))
	assert.Equal(t, apperrors.KindStoreUnavailable, apperrors.KindOf(classify("op", driver.ErrBadConn)))
	assert.Equal(t, apperrors.KindStoreUnavailable, apperrors.KindOf(classify("op", fmt.Errorf("exec: %w", context.DeadlineExceeded))))
	assert.Equal(t, apperrors.KindStoreUnavailable, apperrors.KindOf(classify("op", errors.New("database is locked (5) (SQLITE_BUSY)"))))
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(classify("op", errors.New("syntax error"))))

	stale := apperrors.NewStaleStateError("moved")
	assert.Same(t, stale, classify("op", stale))
}
