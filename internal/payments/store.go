package payments

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/bridge"
	"github.com/clinicdesk/clinicdesk/pkg/bus"
	"github.com/clinicdesk/clinicdesk/pkg/enums"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
	"github.com/clinicdesk/clinicdesk/pkg/types"
	"github.com/clinicdesk/clinicdesk/pkg/validators"
)

const storeName = "payments"

// Totals is the aggregate money view recomputed on every mutation.
type Totals struct {
	TotalDue      decimal.Decimal
	TotalPaid     decimal.Decimal
	Outstanding   decimal.Decimal
	CountByStatus map[enums.PaymentStatus]int
}

// StoreParams groups dependencies for the payment store.
type StoreParams struct {
	Bridge  bridge.PaymentBridge
	Bus     *bus.Bus
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store caches the payment collection and mediates all bridge calls for it.
// Balance figures come from the bridge; the store only classifies and totals
// them. It prunes its own list when a patient is deleted elsewhere.
type Store struct {
	bridge  bridge.PaymentBridge
	bus     *bus.Bus
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu      sync.Mutex
	items   []types.Payment
	loading bool
	lastErr string
	totals  Totals
}

// NewStore builds a payment store and subscribes it to patient-deleted.
func NewStore(params StoreParams) (*Store, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment bridge is required")
	}
	if params.Bus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event bus is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	s := &Store{
		bridge:  params.Bridge,
		bus:     params.Bus,
		logg:    params.Logger,
		metrics: params.Metrics,
		totals:  emptyTotals(),
	}
	params.Bus.Subscribe(enums.EventPatientDeleted, s.onPatientDeleted)
	return s, nil
}

// Load replaces the cached list with a fresh fetch.
func (s *Store) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	start := time.Now()
	items, err := s.bridge.List(ctx)
	s.metrics.ObserveAction(storeName, "load", time.Since(start))
	if err != nil {
		return s.fail(ctx, "load", err)
	}

	s.mu.Lock()
	s.items = items
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()
	return nil
}

// Create records a payment and merges the returned record into the cache.
func (s *Store) Create(ctx context.Context, input types.PaymentInput) (types.Payment, error) {
	if err := validators.Struct(input); err != nil {
		return types.Payment{}, s.fail(ctx, "create", err)
	}

	start := time.Now()
	payment, err := s.bridge.Create(ctx, input)
	s.metrics.ObserveAction(storeName, "create", time.Since(start))
	if err != nil {
		return types.Payment{}, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.items = append(s.items, payment)
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(payment.ID, payment)
	return payment, nil
}

// Update patches a payment and replaces the matching cache entry.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch types.PaymentPatch) (types.Payment, error) {
	if err := validators.Struct(patch); err != nil {
		return types.Payment{}, s.fail(ctx, "update", err)
	}

	start := time.Now()
	payment, err := s.bridge.Update(ctx, id, patch)
	s.metrics.ObserveAction(storeName, "update", time.Since(start))
	if err != nil {
		return types.Payment{}, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = payment
			break
		}
	}
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(payment.ID, payment)
	return payment, nil
}

// Delete removes a payment after the bridge confirms.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.bridge.Delete(ctx, id)
	s.metrics.ObserveAction(storeName, "delete", time.Since(start))
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, payment := range s.items {
		if payment.ID != id {
			filtered = append(filtered, payment)
		}
	}
	s.items = filtered
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(id, nil)
	return nil
}

// Items returns a snapshot of the cached list.
func (s *Store) Items() []types.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Payment, len(s.items))
	copy(out, s.items)
	return out
}

// ForPatient returns the cached payments belonging to one patient.
func (s *Store) ForPatient(patientID uuid.UUID) []types.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Payment
	for _, payment := range s.items {
		if payment.PatientID == patientID {
			out = append(out, payment)
		}
	}
	return out
}

// StatusOf classifies one payment from its balance figures.
func (s *Store) StatusOf(payment types.Payment) enums.PaymentStatus {
	return ClassifyStatus(payment)
}

// Totals returns the aggregate money view from the last recompute.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[enums.PaymentStatus]int, len(s.totals.CountByStatus))
	for k, v := range s.totals.CountByStatus {
		counts[k] = v
	}
	return Totals{
		TotalDue:      s.totals.TotalDue,
		TotalPaid:     s.totals.TotalPaid,
		Outstanding:   s.totals.Outstanding,
		CountByStatus: counts,
	}
}

// Err returns the last action's display error, empty after a success.
func (s *Store) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Loading reports whether a load is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Store) onPatientDeleted(event bus.Event) {
	s.mu.Lock()
	filtered := s.items[:0]
	for _, payment := range s.items {
		if payment.PatientID != event.EntityID {
			filtered = append(filtered, payment)
		}
	}
	s.items = filtered
	s.recomputeLocked()
	s.mu.Unlock()
}

func emptyTotals() Totals {
	return Totals{
		TotalDue:      decimal.Zero,
		TotalPaid:     decimal.Zero,
		Outstanding:   decimal.Zero,
		CountByStatus: map[enums.PaymentStatus]int{},
	}
}

func (s *Store) recomputeLocked() {
	totals := emptyTotals()
	for _, payment := range s.items {
		totals.TotalDue = totals.TotalDue.Add(payment.TotalAmountDue)
		totals.TotalPaid = totals.TotalPaid.Add(payment.AmountPaid)
		totals.Outstanding = totals.Outstanding.Add(payment.RemainingBalance)
		totals.CountByStatus[ClassifyStatus(payment)]++
	}
	s.totals = totals
}

func (s *Store) publish(id uuid.UUID, payload any) {
	s.bus.Publish(bus.Event{Type: enums.EventPaymentChanged, EntityID: id, Payload: payload})
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) fail(ctx context.Context, action string, err error) error {
	s.mu.Lock()
	s.lastErr = pkgerrors.DisplayMessage(err)
	s.mu.Unlock()
	s.metrics.IncFailure(storeName, action)
	ctx = s.logg.WithStore(ctx, storeName)
	ctx = s.logg.WithAction(ctx, action)
	s.logg.Error(ctx, "store action failed", err)
	return err
}
