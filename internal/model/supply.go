package model

import "github.com/google/uuid"

// Supply is one trackable catalog item (hearing aids, batteries, earmolds).
//
// CurrentStockLevel is a materialized view of the ledger: opening balance plus
// the signed sum of all StockTransaction quantities for this supply. Only the
// ledger service writes it, and always in the same DB transaction as the
// ledger append.
type Supply struct {
	BaseModel
	ItemCode          string `gorm:"type:varchar(20);uniqueIndex;not null" json:"item_code"`
	ItemName          string `gorm:"type:varchar(255);not null" json:"item_name" validate:"required"`
	UnitOfMeasure     string `gorm:"type:varchar(30);not null" json:"unit_of_measure" validate:"required"`
	Description       string `json:"description"`
	CurrentStockLevel int    `gorm:"not null;default:0" json:"current_stock_level"`
	ReorderLevel      int    `gorm:"not null;default:0" json:"reorder_level" validate:"gte=0"`

	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id,omitempty"`
	Category   *Category  `json:"category,omitempty" validate:"-"`

	Transactions []StockTransaction `json:"transactions,omitempty" validate:"-"`
}
