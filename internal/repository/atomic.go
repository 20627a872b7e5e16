package repository

import (
	"database/sql"

	"gorm.io/gorm"
)

// Atomic runs a function inside one all-or-nothing storage transaction.
// *gorm.DB satisfies it directly; the in-memory store used by tests satisfies
// it with a store-wide mutex, which gives the same serialization the Postgres
// row lock provides in production.
type Atomic interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
