package model

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionKind is a fixed lookup row, seeded at boot. Kinds classify a
// ledger entry; they never determine the sign of its quantity.
type TransactionKind struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"type:varchar(30);uniqueIndex;not null" json:"name"`
}

// Seeded kind IDs.
const (
	KindReceived    uint = 1
	KindUsed        uint = 2
	KindTransferred uint = 3
)

// KindName maps a seeded kind ID to its display label.
func KindName(id uint) string {
	switch id {
	case KindReceived:
		return "Received"
	case KindUsed:
		return "Used"
	case KindTransferred:
		return "Transferred"
	}
	return ""
}

var ErrImmutableTransaction = errors.New("stock transactions are append-only")

// StockTransaction is one immutable ledger row. Quantity is the signed delta
// already resolved by the caller (usage comes in negative). Corrections are
// appended as compensating rows, never edits.
type StockTransaction struct {
	BaseModel
	SupplyID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_stock_tx_supply_token" json:"supply_id" validate:"uuid_required"`
	Supply   *Supply   `json:"supply,omitempty" validate:"-"`

	KindID uint             `gorm:"not null;index" json:"kind_id" validate:"required"`
	Kind   *TransactionKind `json:"kind,omitempty" validate:"-"`

	ActingUserID uuid.UUID `gorm:"type:uuid;not null" json:"acting_user_id"`
	ActingUser   *User     `gorm:"foreignKey:ActingUserID" json:"acting_user,omitempty" validate:"-"`

	Quantity int    `gorm:"not null" json:"quantity" validate:"required"`
	Notes    string `json:"notes"`

	// Provenance. Patient and phase are opaque references owned by the
	// external patient system; they are stored, never validated there.
	RelatedEventType string  `gorm:"type:varchar(100)" json:"related_event_type"`
	PatientID        *string `gorm:"type:varchar(64)" json:"patient_id,omitempty"`
	PhaseID          *int    `json:"phase_id,omitempty" validate:"omitempty,min=1,max=3"`

	// Client-generated token for duplicate-submit collapse. The partial
	// unique index (NULL tokens exempt) makes replay detection race-safe.
	RequestToken *string `gorm:"type:varchar(64);uniqueIndex:idx_stock_tx_supply_token" json:"request_token,omitempty"`
}

// BeforeUpdate blocks every update path through GORM. The ledger is
// append-only; compensating rows are the only correction mechanism.
func (t *StockTransaction) BeforeUpdate(tx *gorm.DB) error {
	return ErrImmutableTransaction
}

// BeforeDelete blocks hard and soft deletes alike.
func (t *StockTransaction) BeforeDelete(tx *gorm.DB) error {
	return ErrImmutableTransaction
}
