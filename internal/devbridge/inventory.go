package devbridge

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type inventoryRepo struct {
	db *gorm.DB
}

func (r *inventoryRepo) List(ctx context.Context) ([]types.InventoryItem, error) {
	var rows []InventoryItem
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, mapErr(err, "inventory item")
	}
	out := make([]types.InventoryItem, len(rows))
	for i, row := range rows {
		out[i] = toInventoryItem(row)
	}
	return out, nil
}

func (r *inventoryRepo) Create(ctx context.Context, input types.InventoryItemInput) (types.InventoryItem, error) {
	row := InventoryItem{
		Name:         input.Name,
		Category:     input.Category,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		CostPerUnit:  input.CostPerUnit,
		MinimumStock: input.MinimumStock,
		ExpiryDate:   input.ExpiryDate,
		Supplier:     input.Supplier,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return types.InventoryItem{}, mapErr(err, "inventory item")
	}
	return toInventoryItem(row), nil
}

func (r *inventoryRepo) Update(ctx context.Context, id uuid.UUID, patch types.InventoryItemPatch) (types.InventoryItem, error) {
	var row InventoryItem
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return types.InventoryItem{}, mapErr(err, "inventory item")
	}
	if patch.Name != nil {
		row.Name = *patch.Name
	}
	if patch.Category != nil {
		row.Category = *patch.Category
	}
	if patch.Quantity != nil {
		row.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		row.Unit = *patch.Unit
	}
	if patch.CostPerUnit != nil {
		row.CostPerUnit = *patch.CostPerUnit
	}
	if patch.MinimumStock != nil {
		row.MinimumStock = *patch.MinimumStock
	}
	if patch.ExpiryDate != nil {
		row.ExpiryDate = patch.ExpiryDate
	}
	if patch.Supplier != nil {
		row.Supplier = *patch.Supplier
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return types.InventoryItem{}, mapErr(err, "inventory item")
	}
	return toInventoryItem(row), nil
}

func (r *inventoryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&InventoryItem{})
	if res.Error != nil {
		return mapErr(res.Error, "inventory item")
	}
	if res.RowsAffected == 0 {
		return mapErr(gorm.ErrRecordNotFound, "inventory item")
	}
	return nil
}

func toInventoryItem(row InventoryItem) types.InventoryItem {
	return types.InventoryItem{
		ID:           row.ID,
		Name:         row.Name,
		Category:     row.Category,
		Quantity:     row.Quantity,
		Unit:         row.Unit,
		CostPerUnit:  row.CostPerUnit,
		MinimumStock: row.MinimumStock,
		ExpiryDate:   row.ExpiryDate,
		Supplier:     row.Supplier,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
