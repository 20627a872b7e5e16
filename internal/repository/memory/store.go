// Package memory provides in-memory implementations of the ledger
// repositories for service tests. A store-wide mutex held for the duration of
// each Transaction stands in for the per-row FOR UPDATE lock, so the same
// service code paths run unchanged against it.
package memory

import (
	"database/sql"
	"sync"
	"time"

	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store holds all tables behind one mutex.
//
// Locking convention: repository methods that take a tx argument are only
// called inside Transaction and assume the lock is already held; all other
// methods take it themselves.
type Store struct {
	mu           sync.Mutex
	supplies     map[uuid.UUID]*model.Supply
	categories   map[uuid.UUID]*model.Category
	transactions []*model.StockTransaction
}

var _ repository.Atomic = (*Store)(nil)

func NewStore() *Store {
	return &Store{
		supplies:   make(map[uuid.UUID]*model.Supply),
		categories: make(map[uuid.UUID]*model.Category),
	}
}

// Transaction serializes the atomic unit. The tx handle passed through is nil;
// the memory repositories never touch it.
func (s *Store) Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshot for rollback on error.
	savedSupplies := make(map[uuid.UUID]*model.Supply, len(s.supplies))
	for id, sp := range s.supplies {
		cp := *sp
		savedSupplies[id] = &cp
	}
	savedTxLen := len(s.transactions)

	if err := fc(nil); err != nil {
		s.supplies = savedSupplies
		s.transactions = s.transactions[:savedTxLen]
		return err
	}
	return nil
}

// SupplyRepo returns the supply repository view of the store.
func (s *Store) SupplyRepo() repository.SupplyRepository {
	return &supplyRepo{store: s}
}

// TransactionRepo returns the ledger repository view of the store.
func (s *Store) TransactionRepo() repository.TransactionRepository {
	return &transactionRepo{store: s}
}

// CategoryRepo returns the category repository view of the store.
func (s *Store) CategoryRepo() repository.CategoryRepository {
	return &categoryRepo{store: s}
}

func (s *Store) stamp(base *model.BaseModel) {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	now := time.Now()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
}
