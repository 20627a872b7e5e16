package service

import (
	"errors"
	"fmt"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"
	"go-supply-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Broadcaster pushes committed stock updates to connected UIs.
type Broadcaster interface {
	BroadcastJSON(v interface{})
}

// ApplyRequest is one stock mutation. Quantity is the signed delta already
// resolved by the caller: the UI sends usage as a negative number, restock as
// positive. The kind classifies the row; it never re-signs the quantity.
type ApplyRequest struct {
	SupplyID         uuid.UUID `json:"supply_id" validate:"uuid_required"`
	KindID           uint      `json:"kind_id" validate:"required,oneof=1 2 3"`
	Quantity         int       `json:"quantity" validate:"required"`
	Notes            string    `json:"notes"`
	RelatedEventType string    `json:"related_event_type" validate:"omitempty,max=100"`
	PatientID        *string   `json:"patient_id" validate:"omitempty,max=64"`
	PhaseID          *int      `json:"phase_id" validate:"omitempty,min=1,max=3"`
	RequestToken     *string   `json:"request_token" validate:"omitempty,min=1,max=64"`
}

// ApplyResult pairs the updated supply with the ledger row that explains it.
type ApplyResult struct {
	Supply      *model.Supply           `json:"supply"`
	Transaction *model.StockTransaction `json:"transaction"`
	// Replayed is true when the request token matched an earlier commit and
	// no new delta was applied.
	Replayed bool `json:"replayed"`
}

// LedgerAudit reports the reconstruction check for one supply.
type LedgerAudit struct {
	SupplyID          uuid.UUID `json:"supply_id"`
	CurrentStockLevel int       `json:"current_stock_level"`
	LedgerSum         int64     `json:"ledger_sum"`
	Consistent        bool      `json:"consistent"`
}

// LedgerService is the single write path for stock levels.
type LedgerService interface {
	ApplyTransaction(req *ApplyRequest, actorID uuid.UUID) (*ApplyResult, error)
	// ApplyTransactionTx runs the same mutation inside a caller-owned
	// transaction; the catalog uses it to seed opening balances atomically
	// with supply creation.
	ApplyTransactionTx(tx *gorm.DB, req *ApplyRequest, actorID uuid.UUID) (*ApplyResult, error)
	// AuditSupply recomputes the ledger sum and compares it to the
	// materialized level.
	AuditSupply(supplyID uuid.UUID) (*LedgerAudit, error)
}

// LedgerConfig carries the declared policy switches.
type LedgerConfig struct {
	// AllowNegativeStock switches the floor policy from reject to backorder
	// tracking. Off by default: field sites should not go negative silently.
	AllowNegativeStock bool
}

type ledgerService struct {
	db         repository.Atomic
	supplyRepo repository.SupplyRepository
	txRepo     repository.TransactionRepository
	hub        Broadcaster
	cfg        LedgerConfig
	log        *logrus.Entry
}

func NewLedgerService(db repository.Atomic, sRepo repository.SupplyRepository, tRepo repository.TransactionRepository, hub Broadcaster, cfg LedgerConfig, log *logrus.Entry) LedgerService {
	return &ledgerService{
		db:         db,
		supplyRepo: sRepo,
		txRepo:     tRepo,
		hub:        hub,
		cfg:        cfg,
		log:        log,
	}
}

func (s *ledgerService) ApplyTransaction(req *ApplyRequest, actorID uuid.UUID) (*ApplyResult, error) {
	var result *ApplyResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		result, err = s.apply(tx, req, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.announce(result, actorID)
	return result, nil
}

func (s *ledgerService) ApplyTransactionTx(tx *gorm.DB, req *ApplyRequest, actorID uuid.UUID) (*ApplyResult, error) {
	return s.apply(tx, req, actorID)
}

// apply executes the mutation steps under the supply row lock. Any error
// rolls back the whole unit: level and ledger move together or not at all.
func (s *ledgerService) apply(tx *gorm.DB, req *ApplyRequest, actorID uuid.UUID) (*ApplyResult, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field '%s' failed on '%s'", first.FailedField, first.Tag)
	}
	if req.Quantity == 0 {
		return nil, apperr.Validationf("quantity must be non-zero")
	}
	if actorID == uuid.Nil {
		return nil, apperr.Validationf("acting user is required")
	}

	supply, err := s.supplyRepo.FindForUpdate(tx, req.SupplyID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.NotFoundf("supply %s", req.SupplyID)
		}
		return nil, err
	}

	// Double-submit collapse: the lock is held, so the token check and the
	// append below cannot race another call for this supply.
	if req.RequestToken != nil {
		existing, err := s.txRepo.FindByRequestToken(tx, supply.ID, *req.RequestToken)
		if err == nil {
			return &ApplyResult{Supply: supply, Transaction: existing, Replayed: true}, nil
		}
		if !errors.Is(err, apperr.ErrNotFound) {
			return nil, err
		}
	}

	newLevel := supply.CurrentStockLevel + req.Quantity
	if newLevel < 0 && !s.cfg.AllowNegativeStock {
		return nil, fmt.Errorf("%w: level %d cannot absorb %d", apperr.ErrInsufficientStock, supply.CurrentStockLevel, req.Quantity)
	}

	if err := s.supplyRepo.UpdateStockLevel(tx, supply.ID, newLevel, actorID.String()); err != nil {
		return nil, err
	}

	entry := &model.StockTransaction{
		SupplyID:         supply.ID,
		KindID:           req.KindID,
		ActingUserID:     actorID,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
		RelatedEventType: req.RelatedEventType,
		PatientID:        req.PatientID,
		PhaseID:          req.PhaseID,
		RequestToken:     req.RequestToken,
	}
	entry.CreatedBy = actorID.String()
	entry.UpdatedBy = actorID.String()
	if err := s.txRepo.Append(tx, entry); err != nil {
		return nil, err
	}

	supply.CurrentStockLevel = newLevel
	supply.UpdatedBy = actorID.String()
	return &ApplyResult{Supply: supply, Transaction: entry}, nil
}

func (s *ledgerService) AuditSupply(supplyID uuid.UUID) (*LedgerAudit, error) {
	// Both reads run under the supply row lock so a mutation committing
	// between them cannot skew the comparison.
	var audit *LedgerAudit
	err := s.db.Transaction(func(tx *gorm.DB) error {
		supply, err := s.supplyRepo.FindForUpdate(tx, supplyID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.NotFoundf("supply %s", supplyID)
			}
			return err
		}
		sum, err := s.txRepo.SumQuantities(tx, supplyID)
		if err != nil {
			return err
		}
		audit = &LedgerAudit{
			SupplyID:          supplyID,
			CurrentStockLevel: supply.CurrentStockLevel,
			LedgerSum:         sum,
			Consistent:        int64(supply.CurrentStockLevel) == sum,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return audit, nil
}

// announce pushes the committed state. Runs after commit so a rollback can
// never leak a phantom level to the UI.
func (s *ledgerService) announce(result *ApplyResult, actorID uuid.UUID) {
	if result.Replayed {
		return
	}
	s.log.WithFields(logrus.Fields{
		"supply_id": result.Supply.ID,
		"item_code": result.Supply.ItemCode,
		"kind":      model.KindName(result.Transaction.KindID),
		"quantity":  result.Transaction.Quantity,
		"new_level": result.Supply.CurrentStockLevel,
		"actor_id":  actorID,
	}).Info("stock transaction committed")

	if s.hub == nil {
		return
	}
	go s.hub.BroadcastJSON(map[string]interface{}{
		"type":   "stock_update",
		"action": "transaction_created",
		"supply": map[string]interface{}{
			"id":                  result.Supply.ID,
			"item_code":           result.Supply.ItemCode,
			"item_name":           result.Supply.ItemName,
			"current_stock_level": result.Supply.CurrentStockLevel,
			"status":              Classify(result.Supply),
		},
		"transaction": map[string]interface{}{
			"id":       result.Transaction.ID,
			"kind":     model.KindName(result.Transaction.KindID),
			"quantity": result.Transaction.Quantity,
		},
		"actor_id": actorID.String(),
	})
}
