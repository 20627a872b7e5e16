package memory

import (
	"errors"
	"testing"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"

	"gorm.io/gorm"
)

func TestTransaction_RollsBackOnError(t *testing.T) {
	store := NewStore()
	supplyRepo := store.SupplyRepo()
	txRepo := store.TransactionRepo()

	supply := &model.Supply{ItemCode: "SUP-TEST0001", ItemName: "Battery", UnitOfMeasure: "piece"}
	if err := store.Transaction(func(tx *gorm.DB) error {
		return supplyRepo.Create(tx, supply)
	}); err != nil {
		t.Fatalf("Failed to create supply: %v", err)
	}

	boom := errors.New("boom")
	err := store.Transaction(func(tx *gorm.DB) error {
		if err := supplyRepo.UpdateStockLevel(tx, supply.ID, 50, "tester"); err != nil {
			return err
		}
		if err := txRepo.Append(tx, &model.StockTransaction{
			SupplyID: supply.ID,
			KindID:   model.KindReceived,
			Quantity: 50,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Expected boom, got %v", err)
	}

	got, err := supplyRepo.FindByID(supply.ID)
	if err != nil {
		t.Fatalf("Failed to re-read supply: %v", err)
	}
	if got.CurrentStockLevel != 0 {
		t.Errorf("Expected level 0 after rollback, got %d", got.CurrentStockLevel)
	}

	var sum int64
	err = store.Transaction(func(tx *gorm.DB) error {
		var serr error
		sum, serr = txRepo.SumQuantities(tx, supply.ID)
		return serr
	})
	if err != nil {
		t.Fatalf("Failed to sum quantities: %v", err)
	}
	if sum != 0 {
		t.Errorf("Expected empty ledger after rollback, got sum %d", sum)
	}
}

func TestAppend_EnforcesTokenUniquenessPerSupply(t *testing.T) {
	store := NewStore()
	supplyRepo := store.SupplyRepo()
	txRepo := store.TransactionRepo()

	a := &model.Supply{ItemCode: "SUP-TESTA", ItemName: "A", UnitOfMeasure: "piece"}
	b := &model.Supply{ItemCode: "SUP-TESTB", ItemName: "B", UnitOfMeasure: "piece"}
	err := store.Transaction(func(tx *gorm.DB) error {
		if err := supplyRepo.Create(tx, a); err != nil {
			return err
		}
		return supplyRepo.Create(tx, b)
	})
	if err != nil {
		t.Fatalf("Failed to create supplies: %v", err)
	}

	token := "tok-1"
	entry := func(supply *model.Supply) *model.StockTransaction {
		return &model.StockTransaction{
			SupplyID:     supply.ID,
			KindID:       model.KindReceived,
			Quantity:     1,
			RequestToken: &token,
		}
	}

	if err := store.Transaction(func(tx *gorm.DB) error { return txRepo.Append(tx, entry(a)) }); err != nil {
		t.Fatalf("First append failed: %v", err)
	}
	err = store.Transaction(func(tx *gorm.DB) error { return txRepo.Append(tx, entry(a)) })
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("Expected conflict on duplicate token, got %v", err)
	}

	// Same token on a different supply is fine; the index is per supply.
	if err := store.Transaction(func(tx *gorm.DB) error { return txRepo.Append(tx, entry(b)) }); err != nil {
		t.Fatalf("Append on other supply failed: %v", err)
	}
}
