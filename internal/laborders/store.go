package laborders

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

const storeName = "lab_orders"

// Summary aggregates the order list for the lab dashboard.
type Summary struct {
	TotalOrders     int
	UnpaidBalance   decimal.Decimal
	CountByStatus   map[enums.LabOrderStatus]int
	CountByPriority map[enums.LabOrderPriority]int
}

// StoreParams groups dependencies for the lab order store.
type StoreParams struct {
	Bridge  bridge.LabOrderBridge
	Bus     *bus.Bus
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store caches lab orders and mediates all bridge calls for them. The
// remaining balance is recomputed from cost and paid amount on every merge
// so a stale bridge figure can never reach the UI.
type Store struct {
	bridge  bridge.LabOrderBridge
	bus     *bus.Bus
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu      sync.Mutex
	items   []types.LabOrder
	loading bool
	lastErr string
	summary Summary
}

// NewStore builds a lab order store and subscribes it to patient-deleted.
func NewStore(params StoreParams) (*Store, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lab order bridge is required")
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
		summary: emptySummary(),
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
	s.items = normalizeAll(items)
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()
	return nil
}

// Create sends a new order to the lab and merges the returned record.
func (s *Store) Create(ctx context.Context, input types.LabOrderInput) (types.LabOrder, error) {
	if err := validators.Struct(input); err != nil {
		return types.LabOrder{}, s.fail(ctx, "create", err)
	}

	start := time.Now()
	order, err := s.bridge.Create(ctx, input)
	s.metrics.ObserveAction(storeName, "create", time.Since(start))
	if err != nil {
		return types.LabOrder{}, s.fail(ctx, "create", err)
	}
	order = normalize(order)

	s.mu.Lock()
	s.items = append(s.items, order)
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(order.ID, order)
	return order, nil
}

// Update patches an order and replaces the matching cache entry.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch types.LabOrderPatch) (types.LabOrder, error) {
	if err := validators.Struct(patch); err != nil {
		return types.LabOrder{}, s.fail(ctx, "update", err)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		err := pkgerrors.New(pkgerrors.CodeValidation, "unknown lab order status")
		return types.LabOrder{}, s.fail(ctx, "update", err)
	}

	start := time.Now()
	order, err := s.bridge.Update(ctx, id, patch)
	s.metrics.ObserveAction(storeName, "update", time.Since(start))
	if err != nil {
		return types.LabOrder{}, s.fail(ctx, "update", err)
	}
	order = normalize(order)

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = order
			break
		}
	}
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(order.ID, order)
	return order, nil
}

// RecordPayment adds a lab payment through the regular update path. The new
// paid amount is clamped nowhere; overpaying a lab is a bookkeeping choice,
// not an error.
func (s *Store) RecordPayment(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (types.LabOrder, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		err := pkgerrors.New(pkgerrors.CodeValidation, "payment amount must be positive")
		return types.LabOrder{}, s.fail(ctx, "record_payment", err)
	}

	s.mu.Lock()
	var current *types.LabOrder
	for i := range s.items {
		if s.items[i].ID == id {
			order := s.items[i]
			current = &order
			break
		}
	}
	s.mu.Unlock()

	if current == nil {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "lab order not found")
		return types.LabOrder{}, s.fail(ctx, "record_payment", err)
	}

	paid := current.PaidAmount.Add(amount)
	return s.Update(ctx, id, types.LabOrderPatch{PaidAmount: &paid})
}

// Delete removes an order after the bridge confirms.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.bridge.Delete(ctx, id)
	s.metrics.ObserveAction(storeName, "delete", time.Since(start))
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, order := range s.items {
		if order.ID != id {
			filtered = append(filtered, order)
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
func (s *Store) Items() []types.LabOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.LabOrder, len(s.items))
	copy(out, s.items)
	return out
}

// ForPatient returns the cached orders belonging to one patient.
func (s *Store) ForPatient(patientID uuid.UUID) []types.LabOrder {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.LabOrder
	for _, order := range s.items {
		if order.PatientID == patientID {
			out = append(out, order)
		}
	}
	return out
}

// Summary returns the aggregate view from the last recompute.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[enums.LabOrderStatus]int, len(s.summary.CountByStatus))
	for k, v := range s.summary.CountByStatus {
		counts[k] = v
	}
	priorities := make(map[enums.LabOrderPriority]int, len(s.summary.CountByPriority))
	for k, v := range s.summary.CountByPriority {
		priorities[k] = v
	}
	return Summary{
		TotalOrders:     s.summary.TotalOrders,
		UnpaidBalance:   s.summary.UnpaidBalance,
		CountByStatus:   counts,
		CountByPriority: priorities,
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
	for _, order := range s.items {
		if order.PatientID != event.EntityID {
			filtered = append(filtered, order)
		}
	}
	s.items = filtered
	s.recomputeLocked()
	s.mu.Unlock()
}

func normalize(order types.LabOrder) types.LabOrder {
	order.RemainingBalance = order.Cost.Sub(order.PaidAmount)
	return order
}

func normalizeAll(orders []types.LabOrder) []types.LabOrder {
	for i := range orders {
		orders[i] = normalize(orders[i])
	}
	return orders
}

func emptySummary() Summary {
	return Summary{
		UnpaidBalance:   decimal.Zero,
		CountByStatus:   map[enums.LabOrderStatus]int{},
		CountByPriority: map[enums.LabOrderPriority]int{},
	}
}

func (s *Store) recomputeLocked() {
	summary := emptySummary()
	summary.TotalOrders = len(s.items)
	for _, order := range s.items {
		summary.CountByStatus[order.Status]++
		summary.CountByPriority[order.Priority]++
		if !order.Settled() {
			summary.UnpaidBalance = summary.UnpaidBalance.Add(order.RemainingBalance)
		}
	}
	s.summary = summary
}

func (s *Store) publish(id uuid.UUID, payload any) {
	s.bus.Publish(bus.Event{Type: enums.EventLabOrderChanged, EntityID: id, Payload: payload})
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
