package service

import (
	"testing"
	"time"

	"go-supply-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_Boundaries(t *testing.T) {
	tests := []struct {
		name         string
		level        int
		reorderLevel int
		want         StockStatus
	}{
		{"below reorder level", 5, 10, StatusLowStock},
		{"exactly at reorder level", 10, 10, StatusLowStock},
		{"zero stock", 0, 10, StatusOutOfStock},
		{"negative stock", -2, 10, StatusOutOfStock},
		{"just above reorder level", 11, 10, StatusInStock},
		{"zero reorder level with stock", 3, 0, StatusInStock},
		{"zero reorder level without stock", 0, 0, StatusOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			supply := &model.Supply{CurrentStockLevel: tt.level, ReorderLevel: tt.reorderLevel}
			assert.Equal(t, tt.want, Classify(supply))
		})
	}
}

func TestCountLowStock(t *testing.T) {
	env := newTestEnv(LedgerConfig{})

	env.mustCreateSupply("Plenty", 100, 10)
	env.mustCreateSupply("Low", 5, 10)
	env.mustCreateSupply("Empty", 0, 10)

	count, err := env.monitor.CountLowStock(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestCountLowStock_CategoryFilter(t *testing.T) {
	env := newTestEnv(LedgerConfig{})

	category := &model.Category{Name: "Batteries"}
	require.NoError(t, env.catalog.CreateCategory(category, env.actor))

	low, err := env.catalog.CreateSupply(&CreateSupplyRequest{
		ItemName:      "AA Battery",
		UnitOfMeasure: "piece",
		InitialStock:  2,
		ReorderLevel:  10,
		CategoryID:    &category.ID,
	}, env.actor)
	require.NoError(t, err)
	_ = low

	env.mustCreateSupply("Uncategorized Low", 1, 10)

	count, err := env.monitor.CountLowStock(&category.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestCountLowStock_UnknownCategoryIsZero(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	env.mustCreateSupply("Low", 1, 10)

	other := uuid.New()
	count, err := env.monitor.CountLowStock(&other)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestCountLowStock_CacheServesWithinTTL(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	cached := NewMonitorService(env.store.SupplyRepo(), time.Minute)

	env.mustCreateSupply("Low", 1, 10)

	count, err := cached.CountLowStock(nil)
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	// A second low supply appears but the badge count holds until the TTL
	// lapses; polling tolerates that much staleness.
	env.mustCreateSupply("Also Low", 2, 10)

	count, err = cached.CountLowStock(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	fresh, err := env.monitor.CountLowStock(nil)
	require.NoError(t, err)
	assert.EqualValues(t, 2, fresh)
}

func TestListSupplies_IncludesClassification(t *testing.T) {
	env := newTestEnv(LedgerConfig{})
	env.mustCreateSupply("Plenty", 100, 10)
	env.mustCreateSupply("Low", 5, 10)

	statuses, err := env.monitor.ListSupplies(nil)
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	byName := map[string]StockStatus{}
	for _, s := range statuses {
		byName[s.ItemName] = s.Status
	}
	assert.Equal(t, StatusLowStock, byName["Low"])
	assert.Equal(t, StatusInStock, byName["Plenty"])
}
