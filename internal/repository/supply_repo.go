package repository

import (
	"go-supply-ledger/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SupplyRepository interface {
	Create(tx *gorm.DB, supply *model.Supply) error
	FindAll(categoryID *uuid.UUID) ([]model.Supply, error)
	FindByID(id uuid.UUID) (*model.Supply, error)
	FindByItemCode(code string) (*model.Supply, error)
	// FindForUpdate takes the per-supply row lock inside tx. Contention
	// surfaces immediately as apperr.ErrBusy rather than queueing.
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Supply, error)
	// UpdateStockLevel writes the materialized level. Ledger service only,
	// always inside the same tx as the ledger append.
	UpdateStockLevel(tx *gorm.DB, id uuid.UUID, newLevel int, updatedBy string) error
	UpdateMeta(supply *model.Supply) error
	Retire(id uuid.UUID, deletedBy string) error
	CountBelowReorder(categoryID *uuid.UUID) (int64, error)
}

type supplyRepo struct {
	db *gorm.DB
}

func NewSupplyRepo(db *gorm.DB) SupplyRepository {
	return &supplyRepo{db}
}

func (r *supplyRepo) Create(tx *gorm.DB, supply *model.Supply) error {
	if tx == nil {
		tx = r.db
	}
	return translateDBError(tx.Create(supply).Error)
}

func (r *supplyRepo) FindAll(categoryID *uuid.UUID) ([]model.Supply, error) {
	var supplies []model.Supply
	q := r.db.Preload("Category").Order("item_name ASC")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Find(&supplies).Error; err != nil {
		return nil, translateDBError(err)
	}
	return supplies, nil
}

func (r *supplyRepo) FindByID(id uuid.UUID) (*model.Supply, error) {
	var supply model.Supply
	if err := r.db.Preload("Category").First(&supply, "id = ?", id).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &supply, nil
}

func (r *supplyRepo) FindByItemCode(code string) (*model.Supply, error) {
	var supply model.Supply
	if err := r.db.First(&supply, "item_code = ?", code).Error; err != nil {
		return nil, translateDBError(err)
	}
	return &supply, nil
}

func (r *supplyRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Supply, error) {
	var supply model.Supply
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Options: "NOWAIT"}).
		First(&supply, "id = ?", id).Error
	if err != nil {
		return nil, translateDBError(err)
	}
	return &supply, nil
}

func (r *supplyRepo) UpdateStockLevel(tx *gorm.DB, id uuid.UUID, newLevel int, updatedBy string) error {
	err := tx.Model(&model.Supply{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"current_stock_level": newLevel,
			"updated_by":          updatedBy,
		}).Error
	return translateDBError(err)
}

// UpdateMeta saves catalog metadata only. The stock column is deliberately
// absent from the update set.
func (r *supplyRepo) UpdateMeta(supply *model.Supply) error {
	err := r.db.Model(supply).
		Select("item_name", "unit_of_measure", "description", "reorder_level", "category_id", "updated_by").
		Updates(supply).Error
	return translateDBError(err)
}

// Retire stamps deleted_by and soft-deletes in one transaction; a partial
// failure must not leave the stamp on a live row.
func (r *supplyRepo) Retire(id uuid.UUID, deletedBy string) error {
	return translateDBError(r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Supply{}).
			Where("id = ?", id).
			Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.Supply{}, "id = ?", id).Error
	}))
}

func (r *supplyRepo) CountBelowReorder(categoryID *uuid.UUID) (int64, error) {
	var count int64
	q := r.db.Model(&model.Supply{}).
		Where("current_stock_level <= reorder_level OR current_stock_level <= 0")
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, translateDBError(err)
	}
	return count, nil
}
