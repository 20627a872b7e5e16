package service

import (
	"sync"
	"time"

	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
)

// StockStatus classifies a supply against its reorder threshold.
type StockStatus string

const (
	StatusInStock    StockStatus = "IN_STOCK"
	StatusLowStock   StockStatus = "LOW_STOCK"
	StatusOutOfStock StockStatus = "OUT_OF_STOCK"
)

// Classify derives the badge state from the current level. Pure; no reads.
func Classify(s *model.Supply) StockStatus {
	switch {
	case s.CurrentStockLevel <= 0:
		return StatusOutOfStock
	case s.CurrentStockLevel <= s.ReorderLevel:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// SupplyStatus is a catalog row with its derived classification, the shape
// the stock table renders.
type SupplyStatus struct {
	model.Supply
	Status StockStatus `json:"status"`
}

// MonitorService serves the low-stock read side: per-supply classification
// and the aggregate badge count the sidebar polls.
type MonitorService interface {
	ListSupplies(categoryID *uuid.UUID) ([]SupplyStatus, error)
	CountLowStock(categoryID *uuid.UUID) (int64, error)
}

type monitorService struct {
	supplyRepo repository.SupplyRepository

	// The badge count is polled roughly once a minute per client; a short
	// TTL keeps a burst of tabs from hammering the count query while staying
	// far fresher than the poll interval. TTL zero disables caching.
	cacheTTL time.Duration
	mu       sync.Mutex
	cache    map[string]countEntry
}

type countEntry struct {
	count   int64
	expires time.Time
}

func NewMonitorService(supplyRepo repository.SupplyRepository, cacheTTL time.Duration) MonitorService {
	return &monitorService{
		supplyRepo: supplyRepo,
		cacheTTL:   cacheTTL,
		cache:      make(map[string]countEntry),
	}
}

func (s *monitorService) ListSupplies(categoryID *uuid.UUID) ([]SupplyStatus, error) {
	supplies, err := s.supplyRepo.FindAll(categoryID)
	if err != nil {
		return nil, err
	}
	statuses := make([]SupplyStatus, len(supplies))
	for i, supply := range supplies {
		statuses[i] = SupplyStatus{Supply: supply, Status: Classify(&supply)}
	}
	return statuses, nil
}

func (s *monitorService) CountLowStock(categoryID *uuid.UUID) (int64, error) {
	key := ""
	if categoryID != nil {
		key = categoryID.String()
	}

	if s.cacheTTL > 0 {
		s.mu.Lock()
		entry, ok := s.cache[key]
		s.mu.Unlock()
		if ok && time.Now().Before(entry.expires) {
			return entry.count, nil
		}
	}

	count, err := s.supplyRepo.CountBelowReorder(categoryID)
	if err != nil {
		return 0, err
	}

	if s.cacheTTL > 0 {
		s.mu.Lock()
		s.cache[key] = countEntry{count: count, expires: time.Now().Add(s.cacheTTL)}
		s.mu.Unlock()
	}
	return count, nil
}
