// Package rpc implements the bridge contract over the host process's local
// HTTP endpoint. One request per action, no retry: a failed call surfaces
// straight back to the store that made it.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/bridge"
	"github.com/clinicdesk/clinicdesk/pkg/config"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

// Client talks to the host bridge endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logg    *logger.Logger
}

// New builds a bridge client from configuration.
func New(cfg config.BridgeConfig, logg *logger.Logger) (*Client, error) {
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "bridge endpoint is required")
	}
	return &Client{
		baseURL: endpoint,
		http:    &http.Client{Timeout: cfg.Timeout},
		logg:    logg,
	}, nil
}

var _ bridge.Bridge = (*Client)(nil)

// Ping checks that the host bridge endpoint is answering.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/healthz", nil, nil)
}

func (c *Client) Appointments() bridge.AppointmentBridge {
	return &appointmentClient{c}
}

func (c *Client) Patients() bridge.PatientBridge {
	return &patientClient{c}
}

func (c *Client) Inventory() bridge.InventoryBridge {
	return &inventoryClient{c}
}

func (c *Client) Payments() bridge.PaymentBridge {
	return &paymentClient{c}
}

func (c *Client) LabOrders() bridge.LabOrderBridge {
	return &labOrderClient{c}
}

func (c *Client) Settings() bridge.SettingsBridge {
	return &settingsClient{c}
}

func (c *Client) do(ctx context.Context, method, path string, body any, dest any) error {
	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode bridge request")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build bridge request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "bridge call failed")
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}

	if dest == nil {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode bridge response")
	}
	if err := json.Unmarshal(envelope.Data, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode bridge payload")
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	code := pkgerrors.CodeForStatus(resp.StatusCode)
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || envelope.Error.Message == "" {
		return pkgerrors.New(code, fmt.Sprintf("bridge returned status %d", resp.StatusCode))
	}
	return pkgerrors.New(code, envelope.Error.Message).WithDetails(envelope.Error.Details)
}

type appointmentClient struct{ c *Client }

func (a *appointmentClient) List(ctx context.Context) ([]types.Appointment, error) {
	var out []types.Appointment
	err := a.c.do(ctx, http.MethodGet, "/api/v1/appointments", nil, &out)
	return out, err
}

func (a *appointmentClient) Create(ctx context.Context, input types.AppointmentInput) (types.Appointment, error) {
	var out types.Appointment
	err := a.c.do(ctx, http.MethodPost, "/api/v1/appointments", input, &out)
	return out, err
}

func (a *appointmentClient) Update(ctx context.Context, id uuid.UUID, patch types.AppointmentPatch) (types.Appointment, error) {
	var out types.Appointment
	err := a.c.do(ctx, http.MethodPatch, "/api/v1/appointments/"+id.String(), patch, &out)
	return out, err
}

func (a *appointmentClient) Delete(ctx context.Context, id uuid.UUID) error {
	return a.c.do(ctx, http.MethodDelete, "/api/v1/appointments/"+id.String(), nil, nil)
}

type patientClient struct{ c *Client }

func (p *patientClient) List(ctx context.Context) ([]types.Patient, error) {
	var out []types.Patient
	err := p.c.do(ctx, http.MethodGet, "/api/v1/patients", nil, &out)
	return out, err
}

func (p *patientClient) Create(ctx context.Context, input types.PatientInput) (types.Patient, error) {
	var out types.Patient
	err := p.c.do(ctx, http.MethodPost, "/api/v1/patients", input, &out)
	return out, err
}

func (p *patientClient) Update(ctx context.Context, id uuid.UUID, patch types.PatientPatch) (types.Patient, error) {
	var out types.Patient
	err := p.c.do(ctx, http.MethodPatch, "/api/v1/patients/"+id.String(), patch, &out)
	return out, err
}

func (p *patientClient) Delete(ctx context.Context, id uuid.UUID) error {
	return p.c.do(ctx, http.MethodDelete, "/api/v1/patients/"+id.String(), nil, nil)
}

type inventoryClient struct{ c *Client }

func (i *inventoryClient) List(ctx context.Context) ([]types.InventoryItem, error) {
	var out []types.InventoryItem
	err := i.c.do(ctx, http.MethodGet, "/api/v1/inventory", nil, &out)
	return out, err
}

func (i *inventoryClient) Create(ctx context.Context, input types.InventoryItemInput) (types.InventoryItem, error) {
	var out types.InventoryItem
	err := i.c.do(ctx, http.MethodPost, "/api/v1/inventory", input, &out)
	return out, err
}

func (i *inventoryClient) Update(ctx context.Context, id uuid.UUID, patch types.InventoryItemPatch) (types.InventoryItem, error) {
	var out types.InventoryItem
	err := i.c.do(ctx, http.MethodPatch, "/api/v1/inventory/"+id.String(), patch, &out)
	return out, err
}

func (i *inventoryClient) Delete(ctx context.Context, id uuid.UUID) error {
	return i.c.do(ctx, http.MethodDelete, "/api/v1/inventory/"+id.String(), nil, nil)
}

type paymentClient struct{ c *Client }

func (p *paymentClient) List(ctx context.Context) ([]types.Payment, error) {
	var out []types.Payment
	err := p.c.do(ctx, http.MethodGet, "/api/v1/payments", nil, &out)
	return out, err
}

func (p *paymentClient) Create(ctx context.Context, input types.PaymentInput) (types.Payment, error) {
	var out types.Payment
	err := p.c.do(ctx, http.MethodPost, "/api/v1/payments", input, &out)
	return out, err
}

func (p *paymentClient) Update(ctx context.Context, id uuid.UUID, patch types.PaymentPatch) (types.Payment, error) {
	var out types.Payment
	err := p.c.do(ctx, http.MethodPatch, "/api/v1/payments/"+id.String(), patch, &out)
	return out, err
}

func (p *paymentClient) Delete(ctx context.Context, id uuid.UUID) error {
	return p.c.do(ctx, http.MethodDelete, "/api/v1/payments/"+id.String(), nil, nil)
}

type labOrderClient struct{ c *Client }

func (l *labOrderClient) List(ctx context.Context) ([]types.LabOrder, error) {
	var out []types.LabOrder
	err := l.c.do(ctx, http.MethodGet, "/api/v1/lab-orders", nil, &out)
	return out, err
}

func (l *labOrderClient) Create(ctx context.Context, input types.LabOrderInput) (types.LabOrder, error) {
	var out types.LabOrder
	err := l.c.do(ctx, http.MethodPost, "/api/v1/lab-orders", input, &out)
	return out, err
}

func (l *labOrderClient) Update(ctx context.Context, id uuid.UUID, patch types.LabOrderPatch) (types.LabOrder, error) {
	var out types.LabOrder
	err := l.c.do(ctx, http.MethodPatch, "/api/v1/lab-orders/"+id.String(), patch, &out)
	return out, err
}

func (l *labOrderClient) Delete(ctx context.Context, id uuid.UUID) error {
	return l.c.do(ctx, http.MethodDelete, "/api/v1/lab-orders/"+id.String(), nil, nil)
}

type settingsClient struct{ c *Client }

func (s *settingsClient) Get(ctx context.Context) (types.ClinicSettings, error) {
	var out types.ClinicSettings
	err := s.c.do(ctx, http.MethodGet, "/api/v1/settings", nil, &out)
	return out, err
}

func (s *settingsClient) Update(ctx context.Context, patch types.ClinicSettingsPatch) (types.ClinicSettings, error) {
	var out types.ClinicSettings
	err := s.c.do(ctx, http.MethodPatch, "/api/v1/settings", patch, &out)
	return out, err
}
