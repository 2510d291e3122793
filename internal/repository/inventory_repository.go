package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/database"
	"github.com/dentara/practice-api/internal/models"
)

// InventoryRepository handles stock database operations
type InventoryRepository struct{}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

// Restock tops up an existing item by name in the scope's branch or creates
// it, and writes the movement log in the same transaction. Returns the item
// after the change.
func (r *InventoryRepository) Restock(ctx context.Context, s models.RequestScope, req models.RestockRequest, performedBy uuid.UUID) (*models.InventoryItem, error) {
	var result models.InventoryItem
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item models.InventoryItem
		err := branchScoped(tx, s).Where("name = ?", req.Name).First(&item).Error
		switch {
		case err == nil:
			updates := map[string]interface{}{
				"quantity":       gorm.Expr("quantity + ?", req.Quantity),
				"last_restocked": time.Now().UTC(),
			}
			if req.CostPerUnit > 0 {
				updates["cost_per_unit"] = req.CostPerUnit
			}
			if req.Supplier != "" {
				updates["supplier"] = req.Supplier
			}
			if req.ExpiryDate != nil {
				updates["expiry_date"] = req.ExpiryDate
			}
			if err := tx.Model(&item).Updates(updates).Error; err != nil {
				return translate(err, "inventory item")
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = models.InventoryItem{
				ClinicID:          s.ClinicID,
				BranchID:          *s.BranchID,
				Name:              req.Name,
				Category:          req.Category,
				SKU:               req.SKU,
				Supplier:          req.Supplier,
				Quantity:          req.Quantity,
				Unit:              req.Unit,
				LowStockThreshold: req.LowStockThreshold,
				ExpiryDate:        req.ExpiryDate,
				CostPerUnit:       req.CostPerUnit,
			}
			if item.Category == "" {
				item.Category = models.CategoryConsumable
			}
			if item.Unit == "" {
				item.Unit = "pcs"
			}
			if item.LowStockThreshold == 0 {
				item.LowStockThreshold = 10
			}
			if err := tx.Create(&item).Error; err != nil {
				return translate(err, "inventory item")
			}
		default:
			return translate(err, "inventory item")
		}

		log := models.InventoryLog{
			ClinicID:       s.ClinicID,
			BranchID:       item.BranchID,
			ItemID:         item.ID,
			ItemName:       item.Name,
			Action:         models.StockRestock,
			QuantityChange: req.Quantity,
			PerformedBy:    performedBy,
		}
		if err := tx.Create(&log).Error; err != nil {
			return translate(err, "inventory log")
		}

		return branchScoped(tx, s).Where("id = ?", item.ID).First(&result).Error
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Consume deducts stock with a conditional decrement: the quantity check
// rides in the WHERE clause, so two concurrent consumers can never drive
// stock negative. Zero rows affected means either not enough stock or a
// record outside the scope.
func (r *InventoryRepository) Consume(ctx context.Context, s models.RequestScope, itemID uuid.UUID, qty int, reason string, performedBy uuid.UUID) (*models.InventoryItem, error) {
	var result models.InventoryItem
	err := database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := branchScoped(tx, s).
			Model(&models.InventoryItem{}).
			Where("id = ? AND quantity >= ?", itemID, qty).
			Update("quantity", gorm.Expr("quantity - ?", qty))
		if res.Error != nil {
			return translate(res.Error, "inventory item")
		}
		if res.RowsAffected == 0 {
			// Distinguish missing item from insufficient stock.
			var item models.InventoryItem
			err := branchScoped(tx, s).Where("id = ?", itemID).First(&item).Error
			if err != nil {
				return translate(err, "inventory item")
			}
			return apperr.Conflictf("insufficient stock: %d %s available", item.Quantity, item.Unit)
		}

		if err := branchScoped(tx, s).Where("id = ?", itemID).First(&result).Error; err != nil {
			return translate(err, "inventory item")
		}
		log := models.InventoryLog{
			ClinicID:       s.ClinicID,
			BranchID:       result.BranchID,
			ItemID:         result.ID,
			ItemName:       result.Name,
			Action:         models.StockConsumed,
			QuantityChange: -qty,
			PerformedBy:    performedBy,
			Notes:          reason,
		}
		return translate(tx.Create(&log).Error, "inventory log")
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// List returns stock visible to the scope.
func (r *InventoryRepository) List(ctx context.Context, s models.RequestScope) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := branchScoped(database.DB.WithContext(ctx), s).
		Order("name ASC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "inventory items")
	}
	return items, nil
}

// GetByID retrieves one stock item visible to the scope.
func (r *InventoryRepository) GetByID(ctx context.Context, s models.RequestScope, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		return nil, translate(err, "inventory item")
	}
	return &item, nil
}

// Update persists mutable item fields. Quantity is excluded; stock moves
// through Restock and Consume so every change is logged.
func (r *InventoryRepository) Update(ctx context.Context, s models.RequestScope, item *models.InventoryItem) error {
	err := database.DB.WithContext(ctx).
		Omit("clinic_id", "branch_id", "quantity").
		Save(item).Error
	if err != nil {
		return translate(err, "inventory item")
	}
	return nil
}

// Delete removes a stock item visible to the scope.
func (r *InventoryRepository) Delete(ctx context.Context, s models.RequestScope, id uuid.UUID) error {
	res := branchScoped(database.DB.WithContext(ctx), s).
		Where("id = ?", id).
		Delete(&models.InventoryItem{})
	if res.Error != nil {
		return translate(res.Error, "inventory item")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFoundf("inventory item not found")
	}
	return nil
}

// LowStock returns items at or below their low-stock threshold.
func (r *InventoryRepository) LowStock(ctx context.Context, s models.RequestScope) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	err := branchScoped(database.DB.WithContext(ctx), s).
		Where("quantity <= low_stock_threshold").
		Order("quantity ASC").
		Find(&items).Error
	if err != nil {
		return nil, translate(err, "inventory items")
	}
	return items, nil
}

// Logs returns stock movements visible to the scope, newest first,
// optionally limited to one item.
func (r *InventoryRepository) Logs(ctx context.Context, s models.RequestScope, itemID *uuid.UUID) ([]models.InventoryLog, error) {
	q := branchScoped(database.DB.WithContext(ctx), s)
	if itemID != nil {
		q = q.Where("item_id = ?", *itemID)
	}
	var logs []models.InventoryLog
	err := q.Order("created_at DESC").Limit(200).Find(&logs).Error
	if err != nil {
		return nil, translate(err, "inventory logs")
	}
	return logs, nil
}
