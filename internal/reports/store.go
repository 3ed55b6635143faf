package reports

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/inventory"
	"github.com/clinicdesk/clinicdesk/internal/laborders"
	"github.com/clinicdesk/clinicdesk/internal/payments"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// AppointmentSource is the slice of the appointment store the reports need.
type AppointmentSource interface {
	Load(ctx context.Context) error
	Totals() appointments.Totals
}

// PatientSource is the slice of the patient store the reports need.
type PatientSource interface {
	Load(ctx context.Context) error
	Items() []types.Patient
}

// InventorySource is the slice of the inventory store the reports need.
type InventorySource interface {
	Load(ctx context.Context) error
	Summary() inventory.Summary
	Alerts() inventory.Alerts
}

// PaymentSource is the slice of the payment store the reports need.
type PaymentSource interface {
	Load(ctx context.Context) error
	Totals() payments.Totals
}

// LabOrderSource is the slice of the lab order store the reports need.
type LabOrderSource interface {
	Load(ctx context.Context) error
	Summary() laborders.Summary
}

// AlertCounts flattens the inventory warning sets for the dashboard tiles.
type AlertCounts struct {
	LowStock     int
	ExpiringSoon int
	Expired      int
}

// Snapshot is one cross-store report. It is assembled from whatever the
// sibling stores hold after a refresh, never fetched as its own bridge call.
type Snapshot struct {
	GeneratedAt     time.Time
	Appointments    appointments.Totals
	PatientCount    int
	Inventory       inventory.Summary
	InventoryAlerts AlertCounts
	Payments        payments.Totals
	LabOrders       laborders.Summary
}

// StoreParams groups dependencies for the reports store.
type StoreParams struct {
	Appointments AppointmentSource
	Patients     PatientSource
	Inventory    InventorySource
	Payments     PaymentSource
	LabOrders    LabOrderSource
	Logger       *logger.Logger
}

// Store assembles cross-domain report snapshots from the sibling stores.
type Store struct {
	appointments AppointmentSource
	patients     PatientSource
	inventory    InventorySource
	payments     PaymentSource
	labOrders    LabOrderSource
	logg         *logger.Logger

	mu       sync.Mutex
	snapshot Snapshot
	loaded   bool
	lastErr  string
}

// NewStore builds a reports store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Appointments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment source is required")
	}
	if params.Patients == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient source is required")
	}
	if params.Inventory == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory source is required")
	}
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment source is required")
	}
	if params.LabOrders == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lab order source is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Store{
		appointments: params.Appointments,
		patients:     params.Patients,
		inventory:    params.Inventory,
		payments:     params.Payments,
		labOrders:    params.LabOrders,
		logg:         params.Logger,
	}, nil
}

// Refresh reloads every source and assembles a new snapshot from whatever
// they hold afterwards. Source failures are aggregated and returned, and the
// snapshot is still rebuilt so a single failing domain does not blank the
// whole dashboard.
func (s *Store) Refresh(ctx context.Context) error {
	var err error
	err = multierr.Append(err, s.appointments.Load(ctx))
	err = multierr.Append(err, s.patients.Load(ctx))
	err = multierr.Append(err, s.inventory.Load(ctx))
	err = multierr.Append(err, s.payments.Load(ctx))
	err = multierr.Append(err, s.labOrders.Load(ctx))

	alerts := s.inventory.Alerts()
	snapshot := Snapshot{
		GeneratedAt:  time.Now().UTC(),
		Appointments: s.appointments.Totals(),
		PatientCount: len(s.patients.Items()),
		Inventory:    s.inventory.Summary(),
		InventoryAlerts: AlertCounts{
			LowStock:     len(alerts.LowStock),
			ExpiringSoon: len(alerts.ExpiringSoon),
			Expired:      len(alerts.Expired),
		},
		Payments:  s.payments.Totals(),
		LabOrders: s.labOrders.Summary(),
	}

	s.mu.Lock()
	s.snapshot = snapshot
	s.loaded = true
	if err != nil {
		s.lastErr = pkgerrors.DisplayMessage(err)
	} else {
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		s.logg.Error(s.logg.WithStore(ctx, "reports"), "report refresh incomplete", err)
	}
	return err
}

// Snapshot returns the last assembled report and whether one exists yet.
func (s *Store) Snapshot() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot, s.loaded
}

// Err returns the last refresh's display error, empty after a clean refresh.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}
