package repository

import (
	"errors"
	"fmt"

	"go-supply-ledger/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Postgres SQLSTATE codes the repositories care about.
const (
	pgLockNotAvailable = "55P03" // FOR UPDATE NOWAIT lost the race
	pgUniqueViolation  = "23505"
)

// translateDBError folds driver and GORM errors into the service taxonomy.
func translateDBError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgLockNotAvailable:
			return apperr.ErrBusy
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", apperr.ErrConflict, pgErr.ConstraintName)
		}
	}
	return fmt.Errorf("%w: %v", apperr.ErrStorage, err)
}
