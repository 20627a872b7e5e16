package memory

import (
	"sort"
	"time"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type supplyRepo struct {
	store *Store
}

var _ repository.SupplyRepository = (*supplyRepo)(nil)

func (r *supplyRepo) Create(tx *gorm.DB, supply *model.Supply) error {
	// tx non-nil is impossible here; creation always runs inside
	// Store.Transaction, which already holds the lock.
	for _, existing := range r.store.supplies {
		if existing.ItemCode == supply.ItemCode {
			return apperr.ErrConflict
		}
	}
	r.store.stamp(&supply.BaseModel)
	cp := *supply
	r.store.supplies[supply.ID] = &cp
	return nil
}

func (r *supplyRepo) FindAll(categoryID *uuid.UUID) ([]model.Supply, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var out []model.Supply
	for _, s := range r.store.supplies {
		if s.DeletedAt.Valid {
			continue
		}
		if categoryID != nil && (s.CategoryID == nil || *s.CategoryID != *categoryID) {
			continue
		}
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemName < out[j].ItemName })
	return out, nil
}

func (r *supplyRepo) FindByID(id uuid.UUID) (*model.Supply, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.find(id)
}

func (r *supplyRepo) FindByItemCode(code string) (*model.Supply, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.supplies {
		if s.ItemCode == code && !s.DeletedAt.Valid {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (r *supplyRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Supply, error) {
	// Lock already held by Store.Transaction.
	return r.find(id)
}

func (r *supplyRepo) UpdateStockLevel(tx *gorm.DB, id uuid.UUID, newLevel int, updatedBy string) error {
	s, ok := r.store.supplies[id]
	if !ok || s.DeletedAt.Valid {
		return apperr.ErrNotFound
	}
	s.CurrentStockLevel = newLevel
	s.UpdatedBy = updatedBy
	s.UpdatedAt = time.Now()
	return nil
}

func (r *supplyRepo) UpdateMeta(supply *model.Supply) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.supplies[supply.ID]
	if !ok || s.DeletedAt.Valid {
		return apperr.ErrNotFound
	}
	s.ItemName = supply.ItemName
	s.UnitOfMeasure = supply.UnitOfMeasure
	s.Description = supply.Description
	s.ReorderLevel = supply.ReorderLevel
	s.CategoryID = supply.CategoryID
	s.UpdatedBy = supply.UpdatedBy
	s.UpdatedAt = time.Now()
	return nil
}

func (r *supplyRepo) Retire(id uuid.UUID, deletedBy string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	s, ok := r.store.supplies[id]
	if !ok || s.DeletedAt.Valid {
		return apperr.ErrNotFound
	}
	s.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	s.DeletedBy = deletedBy
	return nil
}

func (r *supplyRepo) CountBelowReorder(categoryID *uuid.UUID) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var count int64
	for _, s := range r.store.supplies {
		if s.DeletedAt.Valid {
			continue
		}
		if categoryID != nil && (s.CategoryID == nil || *s.CategoryID != *categoryID) {
			continue
		}
		if s.CurrentStockLevel <= s.ReorderLevel || s.CurrentStockLevel <= 0 {
			count++
		}
	}
	return count, nil
}

func (r *supplyRepo) find(id uuid.UUID) (*model.Supply, error) {
	s, ok := r.store.supplies[id]
	if !ok || s.DeletedAt.Valid {
		return nil, apperr.ErrNotFound
	}
	cp := *s
	return &cp, nil
}
