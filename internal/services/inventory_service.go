package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
	"github.com/dentara/practice-api/internal/repository"
)

// InventoryService handles business logic for branch stock
type InventoryService struct {
	inventory *repository.InventoryRepository
	audit     *AuditService
}

// NewInventoryService creates a new inventory service
func NewInventoryService(inventory *repository.InventoryRepository, audit *AuditService) *InventoryService {
	return &InventoryService{inventory: inventory, audit: audit}
}

// Restock adds stock to the scope's branch, creating the item on first use.
func (s *InventoryService) Restock(ctx context.Context, scope models.RequestScope, req models.RestockRequest) (*models.InventoryItem, error) {
	if scope.BranchID == nil {
		return nil, apperr.BadRequestf("no active branch context")
	}
	if req.Category != "" {
		switch req.Category {
		case models.CategoryConsumable, models.CategoryInstrument, models.CategoryEquipment, models.CategoryMedicine:
		default:
			return nil, apperr.BadRequestf("unknown inventory category %q", req.Category)
		}
	}
	item, err := s.inventory.Restock(ctx, scope, req, scope.UserID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "RESTOCK_INVENTORY", "inventory_item", item.ID.String(), item.Name)
	return item, nil
}

// Consume deducts stock. Insufficient stock is a conflict, not a negative
// balance.
func (s *InventoryService) Consume(ctx context.Context, scope models.RequestScope, itemID uuid.UUID, req models.ConsumeRequest) (*models.InventoryItem, error) {
	item, err := s.inventory.Consume(ctx, scope, itemID, req.Quantity, req.Reason, scope.UserID)
	if err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "CONSUME_INVENTORY", "inventory_item", item.ID.String(), item.Name)
	return item, nil
}

// List returns stock visible to the scope.
func (s *InventoryService) List(ctx context.Context, scope models.RequestScope) ([]models.InventoryItem, error) {
	return s.inventory.List(ctx, scope)
}

// Get returns one stock item.
func (s *InventoryService) Get(ctx context.Context, scope models.RequestScope, id uuid.UUID) (*models.InventoryItem, error) {
	return s.inventory.GetByID(ctx, scope, id)
}

// Update modifies item metadata. Quantity changes go through Restock and
// Consume only.
func (s *InventoryService) Update(ctx context.Context, scope models.RequestScope, id uuid.UUID, req models.UpdateInventoryRequest) (*models.InventoryItem, error) {
	item, err := s.inventory.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.SKU != nil {
		item.SKU = *req.SKU
	}
	if req.Supplier != nil {
		item.Supplier = *req.Supplier
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.LowStockThreshold != nil {
		item.LowStockThreshold = *req.LowStockThreshold
	}
	if req.ExpiryDate != nil {
		item.ExpiryDate = req.ExpiryDate
	}
	if req.CostPerUnit != nil {
		item.CostPerUnit = *req.CostPerUnit
	}
	if err := s.inventory.Update(ctx, scope, item); err != nil {
		return nil, err
	}
	s.audit.Record(ctx, scope, "UPDATE_INVENTORY", "inventory_item", item.ID.String(), item.Name)
	return item, nil
}

// Delete removes a stock item.
func (s *InventoryService) Delete(ctx context.Context, scope models.RequestScope, id uuid.UUID) error {
	if err := s.inventory.Delete(ctx, scope, id); err != nil {
		return err
	}
	s.audit.Record(ctx, scope, "DELETE_INVENTORY", "inventory_item", id.String(), "")
	return nil
}

// LowStock returns items at or below their threshold.
func (s *InventoryService) LowStock(ctx context.Context, scope models.RequestScope) ([]models.InventoryItem, error) {
	return s.inventory.LowStock(ctx, scope)
}

// Logs returns stock movement history.
func (s *InventoryService) Logs(ctx context.Context, scope models.RequestScope, itemID *uuid.UUID) ([]models.InventoryLog, error) {
	return s.inventory.Logs(ctx, scope, itemID)
}
