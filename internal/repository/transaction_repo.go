package repository

import (
	"time"

	"go-supply-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HistoryFilter scopes a ledger listing. Zero-value pointers mean "no filter".
type HistoryFilter struct {
	SupplyID *uuid.UUID
	KindID   *uint
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

type TransactionRepository interface {
	// Append writes one ledger row inside tx. There is no update or delete
	// counterpart; the model's hooks reject both.
	Append(tx *gorm.DB, t *model.StockTransaction) error
	FindByID(id uuid.UUID) (*model.StockTransaction, error)
	// FindByRequestToken looks up a previously committed row for idempotent
	// replay. Runs inside tx so the check is covered by the supply row lock.
	FindByRequestToken(tx *gorm.DB, supplyID uuid.UUID, token string) (*model.StockTransaction, error)
	List(filter HistoryFilter) ([]model.StockTransaction, int64, error)
	// SumQuantities returns the signed ledger sum for a supply, used to audit
	// the materialized stock level against its source of truth. Runs inside
	// tx so the sum and the level it is checked against share one snapshot.
	SumQuantities(tx *gorm.DB, supplyID uuid.UUID) (int64, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Append(tx *gorm.DB, t *model.StockTransaction) error {
	return translateDBError(tx.Create(t).Error)
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.StockTransaction, error) {
	var t model.StockTransaction
	err := r.preloadRefs(r.db).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &t, nil
}

func (r *transactionRepo) FindByRequestToken(tx *gorm.DB, supplyID uuid.UUID, token string) (*model.StockTransaction, error) {
	var t model.StockTransaction
	err := tx.First(&t, "supply_id = ? AND request_token = ?", supplyID, token).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &t, nil
}

func (r *transactionRepo) List(filter HistoryFilter) ([]model.StockTransaction, int64, error) {
	q := r.db.Model(&model.StockTransaction{})
	if filter.SupplyID != nil {
		q = q.Where("supply_id = ?", *filter.SupplyID)
	}
	if filter.KindID != nil {
		q = q.Where("kind_id = ?", *filter.KindID)
	}
	if filter.DateFrom != nil {
		q = q.Where("created_at >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		q = q.Where("created_at <= ?", *filter.DateTo)
	}

	// Exact count before pagination; the UI does its page math from this.
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, translateDBError(err)
	}

	var rows []model.StockTransaction
	err := r.preloadRefs(q).
		Order("created_at DESC, id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, translateDBError(err)
	}
	return rows, total, nil
}

func (r *transactionRepo) SumQuantities(tx *gorm.DB, supplyID uuid.UUID) (int64, error) {
	db := tx
	if db == nil {
		db = r.db
	}
	var sum int64
	err := db.Model(&model.StockTransaction{}).
		Where("supply_id = ?", supplyID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, translateDBError(err)
	}
	return sum, nil
}

// preloadRefs joins the display references. Supply is loaded unscoped so
// history stays visible after a supply is retired.
func (r *transactionRepo) preloadRefs(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Supply", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Preload("Kind").
		Preload("ActingUser")
}
