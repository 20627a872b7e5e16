package repository

import (
	"errors"
	"fmt"
	"testing"

	"go-supply-ledger/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateDBError(t *testing.T) {
	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, translateDBError(nil))
	})

	t.Run("record not found", func(t *testing.T) {
		err := translateDBError(gorm.ErrRecordNotFound)
		assert.ErrorIs(t, err, apperr.ErrNotFound)
	})

	t.Run("lock not available surfaces Busy", func(t *testing.T) {
		// GORM hands back the driver error wrapped; errors.As must still
		// reach the PgError underneath.
		driverErr := fmt.Errorf("exec failed: %w", &pgconn.PgError{
			Code:    pgLockNotAvailable,
			Message: "could not obtain lock on row",
		})
		err := translateDBError(driverErr)
		assert.ErrorIs(t, err, apperr.ErrBusy)
	})

	t.Run("unique violation surfaces Conflict with constraint", func(t *testing.T) {
		driverErr := fmt.Errorf("insert failed: %w", &pgconn.PgError{
			Code:           pgUniqueViolation,
			ConstraintName: "idx_stock_tx_supply_token",
		})
		err := translateDBError(driverErr)
		assert.ErrorIs(t, err, apperr.ErrConflict)
		assert.Contains(t, err.Error(), "idx_stock_tx_supply_token")
	})

	t.Run("other pg errors fold into StorageFailure", func(t *testing.T) {
		driverErr := &pgconn.PgError{Code: "57P01", Message: "terminating connection"}
		err := translateDBError(driverErr)
		assert.ErrorIs(t, err, apperr.ErrStorage)
	})

	t.Run("unknown errors fold into StorageFailure", func(t *testing.T) {
		err := translateDBError(errors.New("connection refused"))
		assert.ErrorIs(t, err, apperr.ErrStorage)
	})
}
