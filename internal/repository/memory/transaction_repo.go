package memory

import (
	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepo struct {
	store *Store
}

var _ repository.TransactionRepository = (*transactionRepo)(nil)

func (r *transactionRepo) Append(tx *gorm.DB, t *model.StockTransaction) error {
	// Lock held by Store.Transaction. Enforce the per-supply token
	// uniqueness the partial index provides in Postgres.
	if t.RequestToken != nil {
		for _, existing := range r.store.transactions {
			if existing.SupplyID == t.SupplyID &&
				existing.RequestToken != nil &&
				*existing.RequestToken == *t.RequestToken {
				return apperr.ErrConflict
			}
		}
	}
	r.store.stamp(&t.BaseModel)
	cp := *t
	r.store.transactions = append(r.store.transactions, &cp)
	return nil
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.StockTransaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, t := range r.store.transactions {
		if t.ID == id {
			return r.withRefs(t), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *transactionRepo) FindByRequestToken(tx *gorm.DB, supplyID uuid.UUID, token string) (*model.StockTransaction, error) {
	// Lock held by Store.Transaction.
	for _, t := range r.store.transactions {
		if t.SupplyID == supplyID && t.RequestToken != nil && *t.RequestToken == token {
			return r.withRefs(t), nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *transactionRepo) List(filter repository.HistoryFilter) ([]model.StockTransaction, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	// Append order is commit order; newest-first is the reverse walk.
	var matched []*model.StockTransaction
	for i := len(r.store.transactions) - 1; i >= 0; i-- {
		t := r.store.transactions[i]
		if filter.SupplyID != nil && t.SupplyID != *filter.SupplyID {
			continue
		}
		if filter.KindID != nil && t.KindID != *filter.KindID {
			continue
		}
		if filter.DateFrom != nil && t.CreatedAt.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && t.CreatedAt.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, t)
	}

	total := int64(len(matched))
	start := (filter.Page - 1) * filter.PageSize
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + filter.PageSize
	if end > len(matched) {
		end = len(matched)
	}

	rows := make([]model.StockTransaction, 0, end-start)
	for _, t := range matched[start:end] {
		rows = append(rows, *r.withRefs(t))
	}
	return rows, total, nil
}

func (r *transactionRepo) SumQuantities(tx *gorm.DB, supplyID uuid.UUID) (int64, error) {
	// Lock held by Store.Transaction.
	var sum int64
	for _, t := range r.store.transactions {
		if t.SupplyID == supplyID {
			sum += int64(t.Quantity)
		}
	}
	return sum, nil
}

// withRefs mirrors the GORM preloads: supply joined unscoped, kind label
// resolved from the seeded catalog.
func (r *transactionRepo) withRefs(t *model.StockTransaction) *model.StockTransaction {
	cp := *t
	if s, ok := r.store.supplies[t.SupplyID]; ok {
		sc := *s
		cp.Supply = &sc
	}
	cp.Kind = &model.TransactionKind{ID: t.KindID, Name: model.KindName(t.KindID)}
	return &cp
}
