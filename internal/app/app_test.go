package app

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/internal/devbridge"
	"github.com/clinicdesk/clinicdesk/pkg/config"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	client, err := devbridge.New(context.Background(), config.DevBridgeConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		AutoMigrate:  true,
		MaxOpenConns: 1,
	}, logg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	application, err := New(Params{
		Config:   &config.Config{Reports: config.ReportsConfig{RefreshInterval: time.Minute}},
		Bridge:   client,
		Logger:   logg,
		Registry: prometheus.NewRegistry(),
	})
	require.NoError(t, err)
	return application
}

func TestLoadAllPrimesEveryStore(t *testing.T) {
	application := newTestApp(t)
	require.NoError(t, application.LoadAll(context.Background()))

	current, ok := application.Settings.Current()
	require.True(t, ok)
	assert.NotEmpty(t, current.ClinicName)
}

func TestPatientDeleteCascadesAcrossStores(t *testing.T) {
	application := newTestApp(t)
	ctx := context.Background()
	require.NoError(t, application.LoadAll(ctx))

	patient, err := application.Patients.Create(ctx, types.PatientInput{FullName: "Omar Khalil"})
	require.NoError(t, err)

	appt, err := application.Appointments.Create(ctx, types.AppointmentInput{
		PatientID: patient.ID,
		Title:     "Cleaning",
		StartTime: time.Date(2026, 9, 2, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 2, 10, 30, 0, 0, time.UTC),
		Cost:      decimal.RequireFromString("60"),
	})
	require.NoError(t, err)
	application.Appointments.Select(appt.ID)

	_, err = application.Payments.Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("60"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, application.Patients.Delete(ctx, patient.ID))

	assert.Empty(t, application.Appointments.Items(), "appointments must be pruned")
	assert.Nil(t, application.Appointments.Selected(), "selection must clear with its patient")
	assert.Empty(t, application.Payments.ForPatient(patient.ID), "payments must be pruned")
}

func TestReportsRefreshSeesStoreData(t *testing.T) {
	application := newTestApp(t)
	ctx := context.Background()

	patient, err := application.Patients.Create(ctx, types.PatientInput{FullName: "Lina Aziz"})
	require.NoError(t, err)
	_, err = application.Appointments.Create(ctx, types.AppointmentInput{
		PatientID: patient.ID,
		Title:     "Filling",
		StartTime: time.Date(2026, 9, 3, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 3, 9, 45, 0, 0, time.UTC),
		Cost:      decimal.RequireFromString("90"),
	})
	require.NoError(t, err)

	require.NoError(t, application.Reports.Refresh(ctx))
	snapshot, ok := application.Reports.Snapshot()
	require.True(t, ok)
	assert.Equal(t, 1, snapshot.PatientCount)
}
