package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
)

// LabOrder is work sent to an external dental lab. RemainingBalance is
// recomputed client-side as Cost minus PaidAmount on every merge.
type LabOrder struct {
	ID                   uuid.UUID              `json:"id"`
	LabID                uuid.UUID              `json:"lab_id"`
	LabName              string                 `json:"lab_name,omitempty"`
	PatientID            uuid.UUID              `json:"patient_id"`
	ServiceName          string                 `json:"service_name"`
	Cost                 decimal.Decimal        `json:"cost"`
	PaidAmount           decimal.Decimal        `json:"paid_amount"`
	RemainingBalance     decimal.Decimal        `json:"remaining_balance"`
	Status               enums.LabOrderStatus   `json:"status"`
	Priority             enums.LabOrderPriority `json:"priority"`
	Material             string                 `json:"material,omitempty"`
	Shade                string                 `json:"shade,omitempty"`
	OrderDate            time.Time              `json:"order_date"`
	ExpectedDeliveryDate *time.Time             `json:"expected_delivery_date,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

// Settled reports whether the lab has been fully paid for this order.
func (l LabOrder) Settled() bool {
	return l.Cost.Sub(l.PaidAmount).LessThanOrEqual(decimal.Zero)
}

// LabOrderInput is the create payload from the new-order dialog.
type LabOrderInput struct {
	LabID                uuid.UUID              `json:"lab_id" validate:"required"`
	PatientID            uuid.UUID              `json:"patient_id" validate:"required"`
	ServiceName          string                 `json:"service_name" validate:"required,min=2"`
	Cost                 decimal.Decimal        `json:"cost"`
	PaidAmount           decimal.Decimal        `json:"paid_amount"`
	Priority             enums.LabOrderPriority `json:"priority" validate:"omitempty,oneof=low normal high urgent"`
	Material             string                 `json:"material,omitempty"`
	Shade                string                 `json:"shade,omitempty"`
	OrderDate            time.Time              `json:"order_date"`
	ExpectedDeliveryDate *time.Time             `json:"expected_delivery_date,omitempty"`
}

// LabOrderPatch carries only the fields being changed.
type LabOrderPatch struct {
	ServiceName          *string                 `json:"service_name,omitempty" validate:"omitempty,min=2"`
	Cost                 *decimal.Decimal        `json:"cost,omitempty"`
	PaidAmount           *decimal.Decimal        `json:"paid_amount,omitempty"`
	Status               *enums.LabOrderStatus   `json:"status,omitempty"`
	Priority             *enums.LabOrderPriority `json:"priority,omitempty" validate:"omitempty,oneof=low normal high urgent"`
	Material             *string                 `json:"material,omitempty"`
	Shade                *string                 `json:"shade,omitempty"`
	ExpectedDeliveryDate *time.Time              `json:"expected_delivery_date,omitempty"`
}
