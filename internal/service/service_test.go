package service

import (
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository/memory"
	"go-supply-ledger/pkg/logging"

	"github.com/google/uuid"
)

// testEnv wires the services against the in-memory store the way cmd/api
// wires them against Postgres.
type testEnv struct {
	store   *memory.Store
	ledger  LedgerService
	catalog CatalogService
	monitor MonitorService
	history HistoryService
	actor   uuid.UUID
}

func newTestEnv(cfg LedgerConfig) *testEnv {
	store := memory.NewStore()
	supplyRepo := store.SupplyRepo()
	txRepo := store.TransactionRepo()
	categoryRepo := store.CategoryRepo()

	ledger := NewLedgerService(store, supplyRepo, txRepo, nil, cfg, logging.WithModule("ledger-test"))
	return &testEnv{
		store:   store,
		ledger:  ledger,
		catalog: NewCatalogService(store, supplyRepo, categoryRepo, ledger, logging.WithModule("catalog-test")),
		monitor: NewMonitorService(supplyRepo, 0),
		history: NewHistoryService(txRepo),
		actor:   uuid.New(),
	}
}

// mustCreateSupply seeds a catalog entry for tests that exercise the engine.
func (env *testEnv) mustCreateSupply(name string, initialStock, reorderLevel int) *model.Supply {
	supply, err := env.catalog.CreateSupply(&CreateSupplyRequest{
		ItemName:      name,
		UnitOfMeasure: "piece",
		InitialStock:  initialStock,
		ReorderLevel:  reorderLevel,
	}, env.actor)
	if err != nil {
		panic(err)
	}
	return supply
}
