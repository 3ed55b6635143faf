// Package app assembles the state layer: one bus, one store per domain, the
// reports poller. Construction wires every subscription before any load or
// mutation runs, so no store can miss a cross-store event.
package app

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/clinicdesk/clinicdesk/internal/appointments"
	"github.com/clinicdesk/clinicdesk/internal/inventory"
	"github.com/clinicdesk/clinicdesk/internal/laborders"
	"github.com/clinicdesk/clinicdesk/internal/patients"
	"github.com/clinicdesk/clinicdesk/internal/payments"
	"github.com/clinicdesk/clinicdesk/internal/reports"
	"github.com/clinicdesk/clinicdesk/internal/settings"
	"github.com/clinicdesk/clinicdesk/pkg/bridge"
	"github.com/clinicdesk/clinicdesk/pkg/bus"
	"github.com/clinicdesk/clinicdesk/pkg/config"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
)

// Params configure the application assembly.
type Params struct {
	Config   *config.Config
	Bridge   bridge.Bridge
	Logger   *logger.Logger
	Registry *prometheus.Registry
}

// App owns the assembled stores and their shared plumbing.
type App struct {
	Bus          *bus.Bus
	Appointments *appointments.Store
	Patients     *patients.Store
	Inventory    *inventory.Store
	Payments     *payments.Store
	LabOrders    *laborders.Store
	Settings     *settings.Store
	Reports      *reports.Store
	Poller       *reports.Poller
}

// New wires every store against the shared bridge, bus and metrics.
func New(params Params) (*App, error) {
	if params.Config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "config is required")
	}
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bridge is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}

	eventBus := bus.New(params.Logger)
	storeMetrics := metrics.NewStoreMetrics(params.Registry)
	refreshMetrics := metrics.NewRefreshJobMetrics(params.Registry)

	appointmentStore, err := appointments.NewStore(appointments.StoreParams{
		Bridge:  params.Bridge.Appointments(),
		Bus:     eventBus,
		Logger:  params.Logger,
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	patientStore, err := patients.NewStore(patients.StoreParams{
		Bridge:  params.Bridge.Patients(),
		Bus:     eventBus,
		Logger:  params.Logger,
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	inventoryStore, err := inventory.NewStore(inventory.StoreParams{
		Bridge:  params.Bridge.Inventory(),
		Bus:     eventBus,
		Logger:  params.Logger,
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	paymentStore, err := payments.NewStore(payments.StoreParams{
		Bridge:  params.Bridge.Payments(),
		Bus:     eventBus,
		Logger:  params.Logger,
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	labOrderStore, err := laborders.NewStore(laborders.StoreParams{
		Bridge:  params.Bridge.LabOrders(),
		Bus:     eventBus,
		Logger:  params.Logger,
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	settingsStore, err := settings.NewStore(settings.StoreParams{
		Bridge:  params.Bridge.Settings(),
		Bus:     eventBus,
		Logger:  params.Logger,
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	reportsStore, err := reports.NewStore(reports.StoreParams{
		Appointments: appointmentStore,
		Patients:     patientStore,
		Inventory:    inventoryStore,
		Payments:     paymentStore,
		LabOrders:    labOrderStore,
		Logger:       params.Logger,
	})
	if err != nil {
		return nil, err
	}
	poller, err := reports.NewPoller(reports.PollerParams{
		Store:    reportsStore,
		Logger:   params.Logger,
		Metrics:  refreshMetrics,
		Interval: params.Config.Reports.RefreshInterval,
	})
	if err != nil {
		return nil, err
	}

	return &App{
		Bus:          eventBus,
		Appointments: appointmentStore,
		Patients:     patientStore,
		Inventory:    inventoryStore,
		Payments:     paymentStore,
		LabOrders:    labOrderStore,
		Settings:     settingsStore,
		Reports:      reportsStore,
		Poller:       poller,
	}, nil
}

// LoadAll primes every store once at startup. Failures are aggregated so one
// unreachable domain does not stop the rest from loading.
func (a *App) LoadAll(ctx context.Context) error {
	var err error
	err = multierr.Append(err, a.Patients.Load(ctx))
	err = multierr.Append(err, a.Appointments.Load(ctx))
	err = multierr.Append(err, a.Inventory.Load(ctx))
	err = multierr.Append(err, a.Payments.Load(ctx))
	err = multierr.Append(err, a.LabOrders.Load(ctx))
	err = multierr.Append(err, a.Settings.Load(ctx))
	return err
}
