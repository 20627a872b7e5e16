package service

import (
	"time"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// HistoryRow is one ledger entry flattened for display: the supply and actor
// references resolved to labels so the UI renders rows directly.
type HistoryRow struct {
	ID               uuid.UUID `json:"id"`
	SupplyID         uuid.UUID `json:"supply_id"`
	SupplyName       string    `json:"supply_name"`
	SupplyItemCode   string    `json:"supply_item_code"`
	UnitOfMeasure    string    `json:"unit_of_measure"`
	Kind             string    `json:"kind"`
	Quantity         int       `json:"quantity"`
	Notes            string    `json:"notes"`
	RelatedEventType string    `json:"related_event_type"`
	PatientID        *string   `json:"patient_id,omitempty"`
	PhaseID          *int      `json:"phase_id,omitempty"`
	ActorID          uuid.UUID `json:"actor_id"`
	ActorName        string    `json:"actor_name"`
	CreatedAt        time.Time `json:"created_at"`
}

// HistoryPage is a page of ledger rows plus the exact filtered total.
type HistoryPage struct {
	Rows     []HistoryRow `json:"rows"`
	Total    int64        `json:"total"`
	Page     int          `json:"page"`
	PageSize int          `json:"page_size"`
}

// HistoryService is the read side of the ledger. Never mutates state; rows
// for retired supplies stay visible.
type HistoryService interface {
	ListTransactions(filter repository.HistoryFilter) (*HistoryPage, error)
	GetTransaction(id uuid.UUID) (*HistoryRow, error)
}

type historyService struct {
	txRepo repository.TransactionRepository
}

func NewHistoryService(txRepo repository.TransactionRepository) HistoryService {
	return &historyService{txRepo: txRepo}
}

func (s *historyService) ListTransactions(filter repository.HistoryFilter) (*HistoryPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = defaultPageSize
	}
	if filter.PageSize > maxPageSize {
		filter.PageSize = maxPageSize
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, apperr.Validationf("date_to precedes date_from")
	}

	rows, total, err := s.txRepo.List(filter)
	if err != nil {
		return nil, err
	}

	page := &HistoryPage{
		Rows:     make([]HistoryRow, len(rows)),
		Total:    total,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	for i := range rows {
		page.Rows[i] = toHistoryRow(&rows[i])
	}
	return page, nil
}

func (s *historyService) GetTransaction(id uuid.UUID) (*HistoryRow, error) {
	t, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	row := toHistoryRow(t)
	return &row, nil
}

func toHistoryRow(t *model.StockTransaction) HistoryRow {
	row := HistoryRow{
		ID:               t.ID,
		SupplyID:         t.SupplyID,
		Kind:             model.KindName(t.KindID),
		Quantity:         t.Quantity,
		Notes:            t.Notes,
		RelatedEventType: t.RelatedEventType,
		PatientID:        t.PatientID,
		PhaseID:          t.PhaseID,
		ActorID:          t.ActingUserID,
		CreatedAt:        t.CreatedAt,
	}
	if t.Supply != nil {
		row.SupplyName = t.Supply.ItemName
		row.SupplyItemCode = t.Supply.ItemCode
		row.UnitOfMeasure = t.Supply.UnitOfMeasure
	}
	if t.Kind != nil {
		row.Kind = t.Kind.Name
	}
	if t.ActingUser != nil {
		row.ActorName = t.ActingUser.FullName
	}
	return row
}
