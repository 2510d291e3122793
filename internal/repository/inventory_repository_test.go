package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentara/practice-api/internal/apperr"
	"github.com/dentara/practice-api/internal/models"
)

func TestRestockCreatesThenTopsUp(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-4001")
	scope := branchScope(clinic, branch)

	repo := NewInventoryRepository()
	ctx := context.Background()
	actor := uuid.New()

	item, err := repo.Restock(ctx, scope, models.RestockRequest{
		Name:     "Composite Resin",
		Quantity: 20,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
	assert.Equal(t, models.CategoryConsumable, item.Category)
	assert.Equal(t, "pcs", item.Unit)
	assert.Equal(t, 10, item.LowStockThreshold)

	// A second restock by the same name tops up instead of duplicating.
	item, err = repo.Restock(ctx, scope, models.RestockRequest{
		Name:     "Composite Resin",
		Quantity: 5,
	}, actor)
	require.NoError(t, err)
	assert.Equal(t, 25, item.Quantity)

	items, err := repo.List(ctx, scope)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	logs, err := repo.Logs(ctx, scope, &item.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.StockRestock, logs[0].Action)
	assert.Equal(t, actor, logs[0].PerformedBy)
}

func TestConsumeDeductsAndLogs(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-4002")
	scope := branchScope(clinic, branch)

	repo := NewInventoryRepository()
	ctx := context.Background()
	actor := uuid.New()

	item, err := repo.Restock(ctx, scope, models.RestockRequest{Name: "Gloves", Quantity: 10}, actor)
	require.NoError(t, err)

	after, err := repo.Consume(ctx, scope, item.ID, 4, "Procedure use", actor)
	require.NoError(t, err)
	assert.Equal(t, 6, after.Quantity)

	logs, err := repo.Logs(ctx, scope, &item.ID)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.StockConsumed, logs[0].Action)
	assert.Equal(t, -4, logs[0].QuantityChange)
	assert.Equal(t, "Procedure use", logs[0].Notes)
}

func TestConsumeInsufficientStockIsConflict(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-4003")
	scope := branchScope(clinic, branch)

	repo := NewInventoryRepository()
	ctx := context.Background()

	item, err := repo.Restock(ctx, scope, models.RestockRequest{Name: "Anesthetic", Quantity: 3}, uuid.New())
	require.NoError(t, err)

	_, err = repo.Consume(ctx, scope, item.ID, 5, "", uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))
	assert.Contains(t, apperr.ClientMessage(err), "insufficient stock")

	// The failed consume must not have touched the quantity.
	reloaded, err := repo.GetByID(ctx, scope, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, reloaded.Quantity)
}

func TestConsumeUnknownItemIsNotFound(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-4004")
	scope := branchScope(clinic, branch)

	repo := NewInventoryRepository()
	_, err := repo.Consume(context.Background(), scope, uuid.New(), 1, "", uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))
}

func TestInventoryIsBranchIsolated(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-4005")
	scope := branchScope(clinic, branch)

	repo := NewInventoryRepository()
	branches := NewBranchRepository(NewSequenceRepository())
	ctx := context.Background()

	item, err := repo.Restock(ctx, scope, models.RestockRequest{Name: "Sutures", Quantity: 8}, uuid.New())
	require.NoError(t, err)

	other := &models.Branch{ClinicID: clinic.ID, Name: "North", IsActive: true}
	require.NoError(t, branches.Create(ctx, other))
	otherScope := branchScope(clinic, other)

	_, err = repo.GetByID(ctx, otherScope, item.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	items, err := repo.List(ctx, otherScope)
	require.NoError(t, err)
	assert.Empty(t, items)

	// Clinic-wide admin scope sees stock across branches.
	all, err := repo.List(ctx, adminScope(clinic))
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestLowStockThreshold(t *testing.T) {
	db := setupDB(t)
	clinic, branch := seedClinic(t, db, "CL-4006")
	scope := branchScope(clinic, branch)

	repo := NewInventoryRepository()
	ctx := context.Background()
	actor := uuid.New()

	low, err := repo.Restock(ctx, scope, models.RestockRequest{Name: "Burs", Quantity: 2, LowStockThreshold: 5}, actor)
	require.NoError(t, err)
	_, err = repo.Restock(ctx, scope, models.RestockRequest{Name: "Masks", Quantity: 100, LowStockThreshold: 5}, actor)
	require.NoError(t, err)

	items, err := repo.LowStock(ctx, scope)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, low.ID, items[0].ID)
}
