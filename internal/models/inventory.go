package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryCategory is the closed set of stock categories.
type InventoryCategory string

const (
	CategoryConsumable InventoryCategory = "Consumable"
	CategoryInstrument InventoryCategory = "Instrument"
	CategoryEquipment  InventoryCategory = "Equipment"
	CategoryMedicine   InventoryCategory = "Medicine"
)

// InventoryAction is the closed set of stock movement types.
type InventoryAction string

const (
	StockRestock    InventoryAction = "Restock"
	StockConsumed   InventoryAction = "Consumed"
	StockAdjustment InventoryAction = "Adjustment"
	StockExpired    InventoryAction = "Expired"
	StockReturn     InventoryAction = "Return"
)

// InventoryItem is branch-scoped stock. Names are unique per branch; two
// branches of the same clinic may each carry "Gloves".
type InventoryItem struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_inventory_name" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_inventory_name" json:"branch_id"`

	Name     string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_inventory_name" json:"name"`
	Category InventoryCategory `gorm:"type:varchar(20);default:'Consumable'" json:"category"`
	SKU      string            `gorm:"type:varchar(100)" json:"sku,omitempty"`
	Supplier string            `gorm:"type:varchar(255)" json:"supplier,omitempty"`

	Quantity int    `gorm:"default:0" json:"quantity"`
	Unit     string `gorm:"type:varchar(20);default:'pcs'" json:"unit"`

	LowStockThreshold int        `gorm:"default:10" json:"low_stock_threshold"`
	ExpiryDate        *time.Time `json:"expiry_date,omitempty"`

	CostPerUnit   float64   `gorm:"default:0" json:"cost_per_unit"`
	LastRestocked time.Time `json:"last_restocked"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// BeforeCreate hook
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	if i.LastRestocked.IsZero() {
		i.LastRestocked = time.Now().UTC()
	}
	return nil
}

// InventoryLog records every stock movement for audit.
type InventoryLog struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ClinicID uuid.UUID `gorm:"type:uuid;not null;index" json:"clinic_id"`
	BranchID uuid.UUID `gorm:"type:uuid;not null;index" json:"branch_id"`

	ItemID   uuid.UUID `gorm:"type:uuid;not null;index" json:"item_id"`
	ItemName string    `gorm:"type:varchar(255)" json:"item_name"` // snapshot, survives item deletion

	Action         InventoryAction `gorm:"type:varchar(20);not null" json:"action"`
	QuantityChange int             `gorm:"not null" json:"quantity_change"` // +10 or -5
	PerformedBy    uuid.UUID       `gorm:"type:uuid" json:"performed_by"`
	Notes          string          `gorm:"type:text" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (InventoryLog) TableName() string {
	return "inventory_logs"
}

// BeforeCreate hook
func (l *InventoryLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// RestockRequest adds stock; an existing item with the same name in the
// branch is topped up, otherwise a new item is created.
type RestockRequest struct {
	Name              string            `json:"name" validate:"required"`
	Category          InventoryCategory `json:"category"`
	SKU               string            `json:"sku"`
	Supplier          string            `json:"supplier"`
	Quantity          int               `json:"quantity" validate:"required,gt=0"`
	Unit              string            `json:"unit"`
	LowStockThreshold int               `json:"low_stock_threshold" validate:"omitempty,min=0"`
	ExpiryDate        *time.Time        `json:"expiry_date"`
	CostPerUnit       float64           `json:"cost_per_unit" validate:"min=0"`
}

// ConsumeRequest deducts stock.
type ConsumeRequest struct {
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Reason   string `json:"reason"`
}

// UpdateInventoryRequest carries the mutable item fields. Quantity is not
// editable here; stock changes go through restock/consume so every movement
// is logged.
type UpdateInventoryRequest struct {
	Name              *string            `json:"name"`
	Category          *InventoryCategory `json:"category"`
	SKU               *string            `json:"sku"`
	Supplier          *string            `json:"supplier"`
	Unit              *string            `json:"unit"`
	LowStockThreshold *int               `json:"low_stock_threshold" validate:"omitempty,min=0"`
	ExpiryDate        *time.Time         `json:"expiry_date"`
	CostPerUnit       *float64           `json:"cost_per_unit" validate:"omitempty,min=0"`
}
