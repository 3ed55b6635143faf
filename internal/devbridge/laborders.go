package devbridge

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type labOrderRepo struct {
	db *gorm.DB
}

func (r *labOrderRepo) List(ctx context.Context) ([]types.LabOrder, error) {
	var rows []LabOrder
	if err := r.db.WithContext(ctx).Order("order_date DESC").Find(&rows).Error; err != nil {
		return nil, mapErr(err, "lab order")
	}
	out := make([]types.LabOrder, len(rows))
	for i, row := range rows {
		out[i] = toLabOrder(row)
	}
	return out, nil
}

func (r *labOrderRepo) Create(ctx context.Context, input types.LabOrderInput) (types.LabOrder, error) {
	priority := input.Priority
	if priority == "" {
		priority = enums.LabOrderPriorityNormal
	}
	row := LabOrder{
		LabID:                input.LabID,
		PatientID:            input.PatientID,
		ServiceName:          input.ServiceName,
		Cost:                 input.Cost,
		PaidAmount:           input.PaidAmount,
		Status:               enums.LabOrderStatusPending,
		Priority:             priority,
		Material:             input.Material,
		Shade:                input.Shade,
		OrderDate:            input.OrderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return types.LabOrder{}, mapErr(err, "lab order")
	}
	return toLabOrder(row), nil
}

func (r *labOrderRepo) Update(ctx context.Context, id uuid.UUID, patch types.LabOrderPatch) (types.LabOrder, error) {
	var row LabOrder
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		return types.LabOrder{}, mapErr(err, "lab order")
	}
	if patch.ServiceName != nil {
		row.ServiceName = *patch.ServiceName
	}
	if patch.Cost != nil {
		row.Cost = *patch.Cost
	}
	if patch.PaidAmount != nil {
		row.PaidAmount = *patch.PaidAmount
	}
	if patch.Status != nil {
		if !patch.Status.IsValid() {
			return types.LabOrder{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown lab order status")
		}
		row.Status = *patch.Status
	}
	if patch.Priority != nil {
		row.Priority = *patch.Priority
	}
	if patch.Material != nil {
		row.Material = *patch.Material
	}
	if patch.Shade != nil {
		row.Shade = *patch.Shade
	}
	if patch.ExpectedDeliveryDate != nil {
		row.ExpectedDeliveryDate = patch.ExpectedDeliveryDate
	}
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return types.LabOrder{}, mapErr(err, "lab order")
	}
	return toLabOrder(row), nil
}

func (r *labOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&LabOrder{})
	if res.Error != nil {
		return mapErr(res.Error, "lab order")
	}
	if res.RowsAffected == 0 {
		return mapErr(gorm.ErrRecordNotFound, "lab order")
	}
	return nil
}

func toLabOrder(row LabOrder) types.LabOrder {
	return types.LabOrder{
		ID:                   row.ID,
		LabID:                row.LabID,
		LabName:              row.LabName,
		PatientID:            row.PatientID,
		ServiceName:          row.ServiceName,
		Cost:                 row.Cost,
		PaidAmount:           row.PaidAmount,
		RemainingBalance:     row.Cost.Sub(row.PaidAmount),
		Status:               row.Status,
		Priority:             row.Priority,
		Material:             row.Material,
		Shade:                row.Shade,
		OrderDate:            row.OrderDate,
		ExpectedDeliveryDate: row.ExpectedDeliveryDate,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}
