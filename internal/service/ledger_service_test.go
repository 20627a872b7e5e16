package service

import (
	"sync"
	"testing"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyTransaction_UpdatesLevelAndAppendsLedgerRow(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	supply := env.mustCreateSupply("Earmold", 10, 3)

	result, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID: supply.ID,
		KindID:   model.KindUsed,
		Quantity: -4,
		Notes:    "fitting session",
	}, env.actor)
	require.NoError(t, err)

	assert.Equal(t, 6, result.Supply.CurrentStockLevel)
	assert.Equal(t, -4, result.Transaction.Quantity)
	assert.Equal(t, model.KindUsed, result.Transaction.KindID)
	assert.False(t, result.Replayed)

	audit, err := env.ledger.AuditSupply(supply.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestApplyTransaction_RejectsZeroQuantity(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	supply := env.mustCreateSupply("Battery", 10, 3)

	_, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID: supply.ID,
		KindID:   model.KindTransferred,
		Quantity: 0,
	}, env.actor)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestApplyTransaction_RejectsUnknownSupply(t *testing.T) {
	env := newTestEnv(LedgerConfig{})

	_, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID: uuid.New(),
		KindID:   model.KindReceived,
		Quantity: 5,
	}, env.actor)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestApplyTransaction_RejectsOutOfRangePhase(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	supply := env.mustCreateSupply("Battery", 10, 3)

	phase := 4
	_, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID: supply.ID,
		KindID:   model.KindUsed,
		Quantity: -1,
		PhaseID:  &phase,
	}, env.actor)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestApplyTransaction_FloorRejection(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	supply := env.mustCreateSupply("Hearing Aid", 5, 10)

	_, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID: supply.ID,
		KindID:   model.KindUsed,
		Quantity: -6,
	}, env.actor)
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)

	// Rollback must leave the level and the ledger untouched.
	current, err := env.catalog.GetSupply(supply.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, current.CurrentStockLevel)

	page, err := env.history.ListTransactions(repository.HistoryFilter{SupplyID: &supply.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total) // only the opening balance row
}

func TestApplyTransaction_NegativeTrackingWhenAllowed(t *testing.T) {
	env := newTestEnv(LedgerConfig{AllowNegativeStock: true})
	supply := env.mustCreateSupply("Tubing", 5, 10)

	result, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID: supply.ID,
		KindID:   model.KindUsed,
		Quantity: -8,
	}, env.actor)
	require.NoError(t, err)
	assert.Equal(t, -3, result.Supply.CurrentStockLevel)
	assert.Equal(t, StatusOutOfStock, Classify(result.Supply))

	audit, err := env.ledger.AuditSupply(supply.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestApplyTransaction_IdempotentReplay(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	supply := env.mustCreateSupply("Battery", 50, 10)

	token := "restock-form-7f3a"
	req := &ApplyRequest{
		SupplyID:     supply.ID,
		KindID:       model.KindReceived,
		Quantity:     25,
		RequestToken: &token,
	}

	first, err := env.ledger.ApplyTransaction(req, env.actor)
	require.NoError(t, err)
	require.False(t, first.Replayed)
	assert.Equal(t, 75, first.Supply.CurrentStockLevel)

	second, err := env.ledger.ApplyTransaction(req, env.actor)
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, 75, second.Supply.CurrentStockLevel)

	page, err := env.history.ListTransactions(repository.HistoryFilter{SupplyID: &supply.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total) // opening balance + one restock
}

func TestApplyTransaction_NoLostUpdatesUnderConcurrency(t *testing.T) {
	env := newTestEnv(LedgerConfig{AllowNegativeStock: true})
	supply := env.mustCreateSupply("AA Battery", 1000, 50)

	deltas := make([]int, 60)
	total := 0
	for i := range deltas {
		if i%3 == 0 {
			deltas[i] = -(i + 1)
		} else {
			deltas[i] = i + 1
		}
		total += deltas[i]
	}

	var wg sync.WaitGroup
	for _, d := range deltas {
		wg.Add(1)
		go func(delta int) {
			defer wg.Done()
			kind := model.KindReceived
			if delta < 0 {
				kind = model.KindUsed
			}
			_, err := env.ledger.ApplyTransaction(&ApplyRequest{
				SupplyID: supply.ID,
				KindID:   kind,
				Quantity: delta,
			}, env.actor)
			assert.NoError(t, err)
		}(d)
	}
	wg.Wait()

	current, err := env.catalog.GetSupply(supply.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000+total, current.CurrentStockLevel)

	page, err := env.history.ListTransactions(repository.HistoryFilter{SupplyID: &supply.ID, PageSize: 100})
	require.NoError(t, err)
	assert.EqualValues(t, len(deltas)+1, page.Total)

	audit, err := env.ledger.AuditSupply(supply.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestAuditSupply_ConsistentWhileMutationsCommit(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	supply := env.mustCreateSupply("AA Battery", 100, 10)

	// Level read and ledger sum share one snapshot, so an audit racing the
	// mutation stream must never see a half-applied state.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 40; i++ {
			_, err := env.ledger.ApplyTransaction(&ApplyRequest{
				SupplyID: supply.ID,
				KindID:   model.KindReceived,
				Quantity: 1,
			}, env.actor)
			assert.NoError(t, err)
		}
	}()

	for running := true; running; {
		select {
		case <-done:
			running = false
		default:
			audit, err := env.ledger.AuditSupply(supply.ID)
			require.NoError(t, err)
			assert.True(t, audit.Consistent, "level %d vs sum %d", audit.CurrentStockLevel, audit.LedgerSum)
		}
	}

	audit, err := env.ledger.AuditSupply(supply.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.EqualValues(t, 140, audit.LedgerSum)
}

func TestEndToEnd_AABatteryScenario(t *testing.T) {
	env := newTestEnv(LedgerConfig{})

	supply := env.mustCreateSupply("AA Battery", 100, 20)
	assert.Equal(t, 100, supply.CurrentStockLevel)

	result, err := env.ledger.ApplyTransaction(&ApplyRequest{
		SupplyID:         supply.ID,
		KindID:           model.KindUsed,
		Quantity:         -85,
		RelatedEventType: "Fitting",
	}, env.actor)
	require.NoError(t, err)

	assert.Equal(t, 15, result.Supply.CurrentStockLevel)
	assert.Equal(t, StatusLowStock, Classify(result.Supply))

	page, err := env.history.ListTransactions(repository.HistoryFilter{SupplyID: &supply.ID})
	require.NoError(t, err)
	require.EqualValues(t, 2, page.Total)

	// Newest first: the usage row, then the auditable opening balance.
	assert.Equal(t, -85, page.Rows[0].Quantity)
	assert.Equal(t, "Used", page.Rows[0].Kind)
	assert.Equal(t, 100, page.Rows[1].Quantity)
	assert.Equal(t, "Received", page.Rows[1].Kind)

	audit, err := env.ledger.AuditSupply(supply.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.EqualValues(t, 15, audit.LedgerSum)
}
