package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
)

// Payment is one front-desk receipt. TotalAmountDue, AmountPaid and
// RemainingBalance are supplied by the bridge from the patient's sibling
// payment rows; the store only classifies and totals them.
type Payment struct {
	ID               uuid.UUID           `json:"id"`
	PatientID        uuid.UUID           `json:"patient_id"`
	AppointmentID    *uuid.UUID          `json:"appointment_id,omitempty"`
	ToothTreatmentID *uuid.UUID          `json:"tooth_treatment_id,omitempty"`
	Amount           decimal.Decimal     `json:"amount"`
	Discount         decimal.Decimal     `json:"discount"`
	Tax              decimal.Decimal     `json:"tax"`
	TotalAmountDue   decimal.Decimal     `json:"total_amount_due"`
	AmountPaid       decimal.Decimal     `json:"amount_paid"`
	RemainingBalance decimal.Decimal     `json:"remaining_balance"`
	Status           enums.PaymentStatus `json:"status"`
	Method           enums.PaymentMethod `json:"method,omitempty"`
	ReceiptNumber    string              `json:"receipt_number,omitempty"`
	PaymentDate      time.Time           `json:"payment_date"`
	Notes            string              `json:"notes,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// PaymentInput is the create payload from the receive-payment dialog.
type PaymentInput struct {
	PatientID        uuid.UUID           `json:"patient_id" validate:"required"`
	AppointmentID    *uuid.UUID          `json:"appointment_id,omitempty"`
	ToothTreatmentID *uuid.UUID          `json:"tooth_treatment_id,omitempty"`
	Amount           decimal.Decimal     `json:"amount"`
	Discount         decimal.Decimal     `json:"discount"`
	Tax              decimal.Decimal     `json:"tax"`
	Method           enums.PaymentMethod `json:"method,omitempty" validate:"omitempty,oneof=cash card bank_transfer"`
	PaymentDate      time.Time           `json:"payment_date"`
	Notes            string              `json:"notes,omitempty"`
}

// PaymentPatch carries only the fields being changed.
type PaymentPatch struct {
	Amount      *decimal.Decimal     `json:"amount,omitempty"`
	Discount    *decimal.Decimal     `json:"discount,omitempty"`
	Tax         *decimal.Decimal     `json:"tax,omitempty"`
	Method      *enums.PaymentMethod `json:"method,omitempty" validate:"omitempty,oneof=cash card bank_transfer"`
	PaymentDate *time.Time           `json:"payment_date,omitempty"`
	Notes       *string              `json:"notes,omitempty"`
}
