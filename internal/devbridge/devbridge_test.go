package devbridge

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/pkg/config"
	"github.com/clinicdesk/clinicdesk/pkg/enums"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

func setupTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DevBridgeConfig{
		Driver:       "sqlite",
		DSN:          ":memory:",
		AutoMigrate:  true,
		MaxOpenConns: 1,
	}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func createTestPatient(t *testing.T, client *Client, name string) types.Patient {
	t.Helper()
	patient, err := client.Patients().Create(context.Background(), types.PatientInput{
		FullName: name,
		Phone:    "0791234567",
	})
	require.NoError(t, err)
	return patient
}

func TestPatientCRUDRoundTrip(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Omar Khalil")
	require.NotEqual(t, uuid.Nil, patient.ID)

	newName := "Omar K. Khalil"
	updated, err := client.Patients().Update(ctx, patient.ID, types.PatientPatch{FullName: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, updated.FullName)

	list, err := client.Patients().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, client.Patients().Delete(ctx, patient.ID))
	list, err = client.Patients().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPatientDeleteCascades(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Lina Aziz")
	_, err := client.Appointments().Create(ctx, types.AppointmentInput{
		PatientID: patient.ID,
		Title:     "Root canal",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
		Cost:      decimal.RequireFromString("120"),
	})
	require.NoError(t, err)
	_, err = client.Payments().Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("50"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = client.LabOrders().Create(ctx, types.LabOrderInput{
		LabID:       uuid.New(),
		PatientID:   patient.ID,
		ServiceName: "Zirconia crown",
		Cost:        decimal.RequireFromString("200"),
		OrderDate:   time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, client.Patients().Delete(ctx, patient.ID))

	appts, err := client.Appointments().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, appts)
	payments, err := client.Payments().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)
	orders, err := client.LabOrders().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestAppointmentCreateEmbedsPatient(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Omar Khalil")
	appt, err := client.Appointments().Create(ctx, types.AppointmentInput{
		PatientID: patient.ID,
		Title:     "Cleaning",
		StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.AppointmentStatusScheduled, appt.Status)
	require.NotNil(t, appt.Patient)
	assert.Equal(t, "Omar Khalil", appt.PatientName)
}

func TestAppointmentUpdateRejectsInvertedTimes(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Omar Khalil")
	appt, err := client.Appointments().Create(ctx, types.AppointmentInput{
		PatientID: patient.ID,
		Title:     "Cleaning",
		StartTime: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	badEnd := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	_, err = client.Appointments().Update(ctx, appt.ID, types.AppointmentPatch{EndTime: &badEnd})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestPaymentBalancesDeriveFromAppointments(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Lina Aziz")
	_, err := client.Appointments().Create(ctx, types.AppointmentInput{
		PatientID: patient.ID,
		Title:     "Filling",
		StartTime: time.Now(),
		EndTime:   time.Now().Add(time.Hour),
		Cost:      decimal.RequireFromString("200"),
	})
	require.NoError(t, err)

	payment, err := client.Payments().Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("80"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	assert.True(t, payment.TotalAmountDue.Equal(decimal.RequireFromString("200")), "due %s", payment.TotalAmountDue)
	assert.True(t, payment.AmountPaid.Equal(decimal.RequireFromString("80")), "paid %s", payment.AmountPaid)
	assert.True(t, payment.RemainingBalance.Equal(decimal.RequireFromString("120")), "remaining %s", payment.RemainingBalance)
	assert.Equal(t, enums.PaymentStatusPartial, payment.Status)
	assert.Equal(t, "RCP-000001", payment.ReceiptNumber)

	second, err := client.Payments().Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("120"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.PaymentStatusCompleted, second.Status)
	assert.Equal(t, "RCP-000002", second.ReceiptNumber)
}

func TestReceiptNumbersStayUniqueAfterDelete(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Lina Aziz")
	first, err := client.Payments().Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("10"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	_, err = client.Payments().Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("20"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, client.Payments().Delete(ctx, first.ID))

	third, err := client.Payments().Create(ctx, types.PaymentInput{
		PatientID:   patient.ID,
		Amount:      decimal.RequireFromString("30"),
		PaymentDate: time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, "RCP-000003", third.ReceiptNumber)
}

func TestLabOrderBalanceAndNotFound(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	patient := createTestPatient(t, client, "Omar Khalil")
	order, err := client.LabOrders().Create(ctx, types.LabOrderInput{
		LabID:       uuid.New(),
		PatientID:   patient.ID,
		ServiceName: "Denture",
		Cost:        decimal.RequireFromString("350"),
		PaidAmount:  decimal.RequireFromString("100"),
		OrderDate:   time.Now(),
	})
	require.NoError(t, err)
	assert.Equal(t, enums.LabOrderStatusPending, order.Status)
	assert.Equal(t, enums.LabOrderPriorityNormal, order.Priority)
	assert.True(t, order.RemainingBalance.Equal(decimal.RequireFromString("250")))

	_, err = client.LabOrders().Update(ctx, uuid.New(), types.LabOrderPatch{})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSettingsSeedAndUpdate(t *testing.T) {
	client := setupTestClient(t)
	ctx := context.Background()

	current, err := client.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "My Clinic", current.ClinicName)
	assert.Equal(t, "JOD", current.Currency)

	name := "Amman Dental Center"
	updated, err := client.Settings().Update(ctx, types.ClinicSettingsPatch{ClinicName: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.ClinicName)

	again, err := client.Settings().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated.ID, again.ID)
}
