package types

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/enums"
)

// Appointment is a booked slot on the clinic calendar. PatientName is a
// denormalized copy supplied by the bridge; Patient is the richer embedded
// snapshot and may be absent.
type Appointment struct {
	ID          uuid.UUID               `json:"id"`
	PatientID   uuid.UUID               `json:"patient_id"`
	Title       string                  `json:"title"`
	StartTime   time.Time               `json:"start_time"`
	EndTime     time.Time               `json:"end_time"`
	Status      enums.AppointmentStatus `json:"status"`
	Cost        decimal.Decimal         `json:"cost"`
	Notes       string                  `json:"notes,omitempty"`
	PatientName string                  `json:"patient_name,omitempty"`
	Patient     *Patient                `json:"patient,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// AppointmentInput is the create payload from the booking dialog.
type AppointmentInput struct {
	PatientID uuid.UUID       `json:"patient_id" validate:"required"`
	Title     string          `json:"title" validate:"required,min=2"`
	StartTime time.Time       `json:"start_time" validate:"required"`
	EndTime   time.Time       `json:"end_time" validate:"required,gtfield=StartTime"`
	Cost      decimal.Decimal `json:"cost"`
	Notes     string          `json:"notes,omitempty"`
}

// AppointmentPatch carries only the fields being changed; the bridge returns
// the merged record.
type AppointmentPatch struct {
	Title     *string                  `json:"title,omitempty" validate:"omitempty,min=2"`
	StartTime *time.Time               `json:"start_time,omitempty"`
	EndTime   *time.Time               `json:"end_time,omitempty"`
	Status    *enums.AppointmentStatus `json:"status,omitempty"`
	Cost      *decimal.Decimal         `json:"cost,omitempty"`
	Notes     *string                  `json:"notes,omitempty"`
}
