// Package bridge defines the data contract the stores depend on. The
// production implementation lives in the host process and is reached over a
// local RPC endpoint; an embedded GORM-backed implementation ships for local
// runs and tests.
package bridge

import (
	"context"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// AppointmentBridge is the CRUD surface for appointments.
type AppointmentBridge interface {
	List(ctx context.Context) ([]types.Appointment, error)
	Create(ctx context.Context, input types.AppointmentInput) (types.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, patch types.AppointmentPatch) (types.Appointment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PatientBridge is the CRUD surface for patients.
type PatientBridge interface {
	List(ctx context.Context) ([]types.Patient, error)
	Create(ctx context.Context, input types.PatientInput) (types.Patient, error)
	Update(ctx context.Context, id uuid.UUID, patch types.PatientPatch) (types.Patient, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// InventoryBridge is the CRUD surface for stock items.
type InventoryBridge interface {
	List(ctx context.Context) ([]types.InventoryItem, error)
	Create(ctx context.Context, input types.InventoryItemInput) (types.InventoryItem, error)
	Update(ctx context.Context, id uuid.UUID, patch types.InventoryItemPatch) (types.InventoryItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentBridge is the CRUD surface for payments.
type PaymentBridge interface {
	List(ctx context.Context) ([]types.Payment, error)
	Create(ctx context.Context, input types.PaymentInput) (types.Payment, error)
	Update(ctx context.Context, id uuid.UUID, patch types.PaymentPatch) (types.Payment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// LabOrderBridge is the CRUD surface for lab orders.
type LabOrderBridge interface {
	List(ctx context.Context) ([]types.LabOrder, error)
	Create(ctx context.Context, input types.LabOrderInput) (types.LabOrder, error)
	Update(ctx context.Context, id uuid.UUID, patch types.LabOrderPatch) (types.LabOrder, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingsBridge reads and writes the single clinic settings record.
type SettingsBridge interface {
	Get(ctx context.Context) (types.ClinicSettings, error)
	Update(ctx context.Context, patch types.ClinicSettingsPatch) (types.ClinicSettings, error)
}

// Bridge aggregates the per-domain surfaces behind one capability object.
type Bridge interface {
	Appointments() AppointmentBridge
	Patients() PatientBridge
	Inventory() InventoryBridge
	Payments() PaymentBridge
	LabOrders() LabOrderBridge
	Settings() SettingsBridge
}
