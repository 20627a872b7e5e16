// Package apperr defines the error taxonomy shared by the ledger services and
// resolved to HTTP status codes at the handler boundary. Services wrap these
// sentinels with fmt.Errorf("%w: ...") so callers branch with errors.Is while
// the wrapped message stays user-visible.
package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

var (
	// ErrValidation marks malformed input. Never retried.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound marks an unknown supply, category, or transaction.
	ErrNotFound = errors.New("not found")

	// ErrInsufficientStock marks a mutation that would drive stock below the
	// floor under reject-policy. The operator must adjust, not retry.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrBusy marks lock contention on the supply row. Safe to retry with the
	// same request token.
	ErrBusy = errors.New("supply is locked by a concurrent mutation")

	// ErrConflict marks a uniqueness collision (duplicate item code or
	// request token racing its own retry).
	ErrConflict = errors.New("conflict")

	// ErrStorage marks an unavailable or failed persistence layer. The atomic
	// unit is guaranteed to have rolled back.
	ErrStorage = errors.New("storage failure")
)

// Validationf wraps ErrValidation with a formatted detail message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// NotFoundf wraps ErrNotFound with a formatted detail message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrNotFound}, args...)...)
}

// StatusCode maps a taxonomy error to the HTTP status the handlers return.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrInsufficientStock):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrBusy):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
