package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicdesk/clinicdesk/pkg/config"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := New(config.BridgeConfig{
		Mode:     config.BridgeModeRPC,
		Endpoint: srv.URL,
		Timeout:  5 * time.Second,
	}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return client
}

func TestAppointmentListDecodesEnvelope(t *testing.T) {
	id := uuid.New()
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/appointments", r.URL.Path)
		json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: []map[string]any{
			{"id": id.String(), "title": "Cleaning", "status": "scheduled"},
		}})
	}))

	items, err := client.Appointments().List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "Cleaning", items[0].Title)
}

func TestCreateSendsJSONBody(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: map[string]any{
			"id":        uuid.NewString(),
			"full_name": received["full_name"],
		}})
	}))

	patient, err := client.Patients().Create(context.Background(), types.PatientInput{FullName: "Sara Haddad"})
	require.NoError(t, err)
	assert.Equal(t, "Sara Haddad", received["full_name"])
	assert.Equal(t, "Sara Haddad", patient.FullName)
}

func TestErrorEnvelopeMapsToTypedError(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(types.ErrorEnvelope{Error: types.APIError{
			Code:    "NOT_FOUND",
			Message: "patient not found",
		}})
	}))

	err := client.Patients().Delete(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "patient not found", typed.Message())
}

func TestNonEnvelopeErrorStillTyped(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway exploded", http.StatusBadGateway)
	}))

	_, err := client.Inventory().List(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestUnreachableEndpointIsDependencyError(t *testing.T) {
	client, err := New(config.BridgeConfig{
		Endpoint: "http://127.0.0.1:1",
		Timeout:  200 * time.Millisecond,
	}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)

	_, err = client.Payments().List(context.Background())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}
