package service

import (
	"fmt"
	"strings"

	"go-supply-ledger/internal/apperr"
	"go-supply-ledger/internal/model"
	"go-supply-ledger/internal/repository"
	"go-supply-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CreateSupplyRequest is the catalog-admin input for a new supply.
// InitialStock is not written to the stock column: a positive opening balance
// is seeded through a Received ledger entry so it is itself auditable.
type CreateSupplyRequest struct {
	ItemName      string     `json:"item_name" validate:"required,max=255"`
	UnitOfMeasure string     `json:"unit_of_measure" validate:"required,max=30"`
	Description   string     `json:"description"`
	ReorderLevel  int        `json:"reorder_level" validate:"gte=0"`
	InitialStock  int        `json:"initial_stock" validate:"gte=0"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

// UpdateSupplyRequest carries metadata-only edits. Nil fields are left
// untouched. There is deliberately no stock field; the handler additionally
// rejects raw bodies that try to smuggle one in.
type UpdateSupplyRequest struct {
	ItemName      *string    `json:"item_name" validate:"omitempty,min=1,max=255"`
	UnitOfMeasure *string    `json:"unit_of_measure" validate:"omitempty,min=1,max=30"`
	Description   *string    `json:"description"`
	ReorderLevel  *int       `json:"reorder_level" validate:"omitempty,gte=0"`
	CategoryID    *uuid.UUID `json:"category_id"`
}

type CatalogService interface {
	CreateSupply(req *CreateSupplyRequest, actorID uuid.UUID) (*model.Supply, error)
	UpdateSupplyMeta(id uuid.UUID, req *UpdateSupplyRequest, actorID uuid.UUID) (*model.Supply, error)
	RetireSupply(id uuid.UUID, actorID uuid.UUID) error
	GetSupply(id uuid.UUID) (*model.Supply, error)
	CreateCategory(category *model.Category, actorID uuid.UUID) error
	GetCategories() ([]model.Category, error)
}

type catalogService struct {
	db           repository.Atomic
	supplyRepo   repository.SupplyRepository
	categoryRepo repository.CategoryRepository
	ledger       LedgerService
	log          *logrus.Entry
}

func NewCatalogService(db repository.Atomic, sRepo repository.SupplyRepository, cRepo repository.CategoryRepository, ledger LedgerService, log *logrus.Entry) CatalogService {
	return &catalogService{
		db:           db,
		supplyRepo:   sRepo,
		categoryRepo: cRepo,
		ledger:       ledger,
		log:          log,
	}
}

func (s *catalogService) CreateSupply(req *CreateSupplyRequest, actorID uuid.UUID) (*model.Supply, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field '%s' failed on '%s'", first.FailedField, first.Tag)
	}
	if strings.TrimSpace(req.ItemName) == "" {
		return nil, apperr.Validationf("item name must not be blank")
	}
	if strings.TrimSpace(req.UnitOfMeasure) == "" {
		return nil, apperr.Validationf("unit of measure must not be blank")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			return nil, apperr.NotFoundf("category %s", *req.CategoryID)
		}
	}

	// Pre-assign the ID so the item code can be derived from it. The unique
	// index on item_code backs up the negligible collision odds.
	id := uuid.New()
	supply := &model.Supply{
		ItemName:      strings.TrimSpace(req.ItemName),
		UnitOfMeasure: strings.TrimSpace(req.UnitOfMeasure),
		Description:   req.Description,
		ReorderLevel:  req.ReorderLevel,
		CategoryID:    req.CategoryID,
		ItemCode:      itemCodeFor(id),
	}
	supply.ID = id
	supply.CreatedBy = actorID.String()
	supply.UpdatedBy = actorID.String()

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.supplyRepo.Create(tx, supply); err != nil {
			return err
		}
		if req.InitialStock > 0 {
			bootstrap := &ApplyRequest{
				SupplyID: supply.ID,
				KindID:   model.KindReceived,
				Quantity: req.InitialStock,
				Notes:    "Opening balance",
			}
			result, err := s.ledger.ApplyTransactionTx(tx, bootstrap, actorID)
			if err != nil {
				return err
			}
			supply.CurrentStockLevel = result.Supply.CurrentStockLevel
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"supply_id": supply.ID,
		"item_code": supply.ItemCode,
		"actor_id":  actorID,
	}).Info("supply created")
	return supply, nil
}

func (s *catalogService) UpdateSupplyMeta(id uuid.UUID, req *UpdateSupplyRequest, actorID uuid.UUID) (*model.Supply, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.Validationf("field '%s' failed on '%s'", first.FailedField, first.Tag)
	}

	supply, err := s.supplyRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if req.ItemName != nil {
		if strings.TrimSpace(*req.ItemName) == "" {
			return nil, apperr.Validationf("item name must not be blank")
		}
		supply.ItemName = strings.TrimSpace(*req.ItemName)
	}
	if req.UnitOfMeasure != nil {
		if strings.TrimSpace(*req.UnitOfMeasure) == "" {
			return nil, apperr.Validationf("unit of measure must not be blank")
		}
		supply.UnitOfMeasure = strings.TrimSpace(*req.UnitOfMeasure)
	}
	if req.Description != nil {
		supply.Description = *req.Description
	}
	if req.ReorderLevel != nil {
		supply.ReorderLevel = *req.ReorderLevel
	}
	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(*req.CategoryID); err != nil {
			return nil, apperr.NotFoundf("category %s", *req.CategoryID)
		}
		supply.CategoryID = req.CategoryID
	}
	supply.UpdatedBy = actorID.String()

	if err := s.supplyRepo.UpdateMeta(supply); err != nil {
		return nil, err
	}
	return supply, nil
}

func (s *catalogService) RetireSupply(id uuid.UUID, actorID uuid.UUID) error {
	if err := s.supplyRepo.Retire(id, actorID.String()); err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{
		"supply_id": id,
		"actor_id":  actorID,
	}).Info("supply retired")
	return nil
}

func (s *catalogService) GetSupply(id uuid.UUID) (*model.Supply, error) {
	return s.supplyRepo.FindByID(id)
}

func (s *catalogService) CreateCategory(category *model.Category, actorID uuid.UUID) error {
	if errs := validator.ValidateStruct(category); len(errs) > 0 {
		first := errs[0]
		return apperr.Validationf("field '%s' failed on '%s'", first.FailedField, first.Tag)
	}
	category.CreatedBy = actorID.String()
	category.UpdatedBy = actorID.String()
	return s.categoryRepo.Create(category)
}

func (s *catalogService) GetCategories() ([]model.Category, error) {
	return s.categoryRepo.FindAll()
}

// itemCodeFor derives the human item code from the row UUID.
func itemCodeFor(id uuid.UUID) string {
	return fmt.Sprintf("SUP-%s", strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8]))
}
