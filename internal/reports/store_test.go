package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/inventory"
	"github.com/clinicdesk/clinicdesk/internal/laborders"
	"github.com/clinicdesk/clinicdesk/internal/payments"
	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type fakeAppointments struct {
	loads   int
	loadErr error
	totals  appointments.Totals
}

func (f *fakeAppointments) Load(ctx context.Context) error {
	f.loads++
	return f.loadErr
}

func (f *fakeAppointments) Totals() appointments.Totals { return f.totals }

type fakePatients struct {
	loads int
	items []types.Patient
}

func (f *fakePatients) Load(ctx context.Context) error {
	f.loads++
	return nil
}

func (f *fakePatients) Items() []types.Patient { return f.items }

type fakeInventory struct {
	loads   int
	summary inventory.Summary
	alerts  inventory.Alerts
}

func (f *fakeInventory) Load(ctx context.Context) error {
	f.loads++
	return nil
}

func (f *fakeInventory) Summary() inventory.Summary { return f.summary }
func (f *fakeInventory) Alerts() inventory.Alerts   { return f.alerts }

type fakePayments struct {
	loads  int
	totals payments.Totals
}

func (f *fakePayments) Load(ctx context.Context) error {
	f.loads++
	return nil
}

func (f *fakePayments) Totals() payments.Totals { return f.totals }

type fakeLabOrders struct {
	loads   int
	summary laborders.Summary
}

func (f *fakeLabOrders) Load(ctx context.Context) error {
	f.loads++
	return nil
}

func (f *fakeLabOrders) Summary() laborders.Summary { return f.summary }

type fixtures struct {
	appointments *fakeAppointments
	patients     *fakePatients
	inventory    *fakeInventory
	payments     *fakePayments
	labOrders    *fakeLabOrders
}

func newTestStore(t *testing.T) (*Store, *fixtures) {
	t.Helper()
	f := &fixtures{
		appointments: &fakeAppointments{totals: appointments.Totals{
			CountByStatus: map[enums.AppointmentStatus]int{enums.AppointmentStatusCompleted: 2},
			TotalRevenue:  decimal.RequireFromString("250"),
		}},
		patients: &fakePatients{items: []types.Patient{{FullName: "Omar Khalil"}, {FullName: "Lina Aziz"}}},
		inventory: &fakeInventory{
			summary: inventory.Summary{TotalItems: 4, TotalValue: decimal.RequireFromString("90")},
			alerts: inventory.Alerts{
				LowStock: []types.InventoryItem{{Name: "gloves"}},
				Expired:  []types.InventoryItem{{Name: "anesthetic"}},
			},
		},
		payments: &fakePayments{totals: payments.Totals{
			Outstanding: decimal.RequireFromString("130"),
		}},
		labOrders: &fakeLabOrders{summary: laborders.Summary{
			TotalOrders:   1,
			UnpaidBalance: decimal.RequireFromString("200"),
		}},
	}
	store, err := NewStore(StoreParams{
		Appointments: f.appointments,
		Patients:     f.patients,
		Inventory:    f.inventory,
		Payments:     f.payments,
		LabOrders:    f.labOrders,
		Logger:       logger.New(logger.Options{ServiceName: "test"}),
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, f
}

func TestRefreshReloadsEverySourceAndAssemblesSnapshot(t *testing.T) {
	store, f := newTestStore(t)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	for name, loads := range map[string]int{
		"appointments": f.appointments.loads,
		"patients":     f.patients.loads,
		"inventory":    f.inventory.loads,
		"payments":     f.payments.loads,
		"lab orders":   f.labOrders.loads,
	} {
		if loads != 1 {
			t.Fatalf("%s loaded %d times, want 1", name, loads)
		}
	}

	snapshot, ok := store.Snapshot()
	if !ok {
		t.Fatal("expected a snapshot after refresh")
	}
	if snapshot.PatientCount != 2 {
		t.Fatalf("PatientCount = %d, want 2", snapshot.PatientCount)
	}
	if !snapshot.Appointments.TotalRevenue.Equal(decimal.RequireFromString("250")) {
		t.Fatalf("TotalRevenue = %s, want 250", snapshot.Appointments.TotalRevenue)
	}
	if snapshot.InventoryAlerts.LowStock != 1 || snapshot.InventoryAlerts.Expired != 1 || snapshot.InventoryAlerts.ExpiringSoon != 0 {
		t.Fatalf("unexpected alert counts: %+v", snapshot.InventoryAlerts)
	}
	if !snapshot.LabOrders.UnpaidBalance.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("UnpaidBalance = %s, want 200", snapshot.LabOrders.UnpaidBalance)
	}
	if snapshot.GeneratedAt.IsZero() {
		t.Fatal("GeneratedAt must be stamped")
	}
}

func TestRefreshStillAssemblesOnPartialFailure(t *testing.T) {
	store, f := newTestStore(t)
	f.appointments.loadErr = errors.New("bridge down")

	err := store.Refresh(context.Background())
	if err == nil {
		t.Fatal("expected aggregated refresh error")
	}

	if f.payments.loads != 1 || f.labOrders.loads != 1 {
		t.Fatal("remaining sources must still be reloaded")
	}
	snapshot, ok := store.Snapshot()
	if !ok {
		t.Fatal("partial failure must still produce a snapshot")
	}
	if snapshot.PatientCount != 2 {
		t.Fatalf("PatientCount = %d, want 2", snapshot.PatientCount)
	}
	if store.Err() == "" {
		t.Fatal("expected display error after partial failure")
	}

	f.appointments.loadErr = nil
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh after recovery: %v", err)
	}
	if store.Err() != "" {
		t.Fatal("display error must clear after a clean refresh")
	}
}
