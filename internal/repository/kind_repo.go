package repository

import (
	"errors"

	"go-supply-ledger/internal/model"

	"gorm.io/gorm"
)

// SeedTransactionKinds inserts the fixed kind catalog (Received, Used,
// Transferred). Kinds are not user-definable; this is the only write path.
func SeedTransactionKinds(db *gorm.DB) error {
	for _, id := range []uint{model.KindReceived, model.KindUsed, model.KindTransferred} {
		var existing model.TransactionKind
		err := db.First(&existing, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			kind := model.TransactionKind{ID: id, Name: model.KindName(id)}
			if err := db.Create(&kind).Error; err != nil {
				return translateDBError(err)
			}
		} else if err != nil {
			return translateDBError(err)
		}
	}
	return nil
}
