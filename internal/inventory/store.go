package inventory

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

const storeName = "inventory"

// Summary is the aggregate view recomputed from the full item list on every
// mutation.
type Summary struct {
	TotalItems    int
	TotalValue    decimal.Decimal
	CountByStatus map[enums.InventoryStatus]int
}

// StoreParams groups dependencies for the inventory store.
type StoreParams struct {
	Bridge  bridge.InventoryBridge
	Bus     *bus.Bus
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
	Now     func() time.Time
}

// Store caches the stock item collection and mediates all bridge calls for it.
type Store struct {
	bridge  bridge.InventoryBridge
	bus     *bus.Bus
	logg    *logger.Logger
	metrics *metrics.StoreMetrics
	now     func() time.Time

	mu       sync.Mutex
	items    []types.InventoryItem
	loading  bool
	lastErr  string
	selected *types.InventoryItem
	summary  Summary
	alerts   Alerts
}

// NewStore builds an inventory store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "inventory bridge is required")
	}
	if params.Bus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event bus is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		bridge:  params.Bridge,
		bus:     params.Bus,
		logg:    params.Logger,
		metrics: params.Metrics,
		now:     now,
		summary: Summary{TotalValue: decimal.Zero, CountByStatus: map[enums.InventoryStatus]int{}},
	}, nil
}

// Load replaces the cached list with a fresh fetch. One attempt, no retry.
func (s *Store) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	start := s.now()
	items, err := s.bridge.List(ctx)
	s.observe("load", start)
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

// Create persists a new item through the bridge and merges the returned
// record into the cache.
func (s *Store) Create(ctx context.Context, input types.InventoryItemInput) (types.InventoryItem, error) {
	if err := validators.Struct(input); err != nil {
		return types.InventoryItem{}, s.fail(ctx, "create", err)
	}

	start := s.now()
	item, err := s.bridge.Create(ctx, input)
	s.observe("create", start)
	if err != nil {
		return types.InventoryItem{}, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(item.ID, item)
	return item, nil
}

// Update patches an item and replaces the matching cache entry with the
// bridge's merged record.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch types.InventoryItemPatch) (types.InventoryItem, error) {
	if err := validators.Struct(patch); err != nil {
		return types.InventoryItem{}, s.fail(ctx, "update", err)
	}

	start := s.now()
	item, err := s.bridge.Update(ctx, id, patch)
	s.observe("update", start)
	if err != nil {
		return types.InventoryItem{}, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = item
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = &item
	}
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(item.ID, item)
	return item, nil
}

// Delete removes an item after the bridge confirms the deletion.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	start := s.now()
	err := s.bridge.Delete(ctx, id)
	s.observe("delete", start)
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(id, nil)
	return nil
}

// RecordUsage deducts used stock from an item through the regular update path.
func (s *Store) RecordUsage(ctx context.Context, id uuid.UUID, used int) (types.InventoryItem, error) {
	if used <= 0 {
		err := pkgerrors.New(pkgerrors.CodeValidation, "used quantity must be positive")
		return types.InventoryItem{}, s.fail(ctx, "record_usage", err)
	}

	s.mu.Lock()
	var current *types.InventoryItem
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			current = &item
			break
		}
	}
	s.mu.Unlock()

	if current == nil {
		err := pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		return types.InventoryItem{}, s.fail(ctx, "record_usage", err)
	}
	if used > current.Quantity {
		err := pkgerrors.New(pkgerrors.CodeStateConflict, "cannot use more than the available quantity")
		return types.InventoryItem{}, s.fail(ctx, "record_usage", err)
	}

	remaining := current.Quantity - used
	return s.Update(ctx, id, types.InventoryItemPatch{Quantity: &remaining})
}

// Items returns a snapshot of the cached list.
func (s *Store) Items() []types.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// StatusOf classifies one cached item against the store's clock.
func (s *Store) StatusOf(item types.InventoryItem) enums.InventoryStatus {
	return Classify(item, s.now())
}

// Summary returns the aggregate counts from the last recompute.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[enums.InventoryStatus]int, len(s.summary.CountByStatus))
	for k, v := range s.summary.CountByStatus {
		counts[k] = v
	}
	return Summary{
		TotalItems:    s.summary.TotalItems,
		TotalValue:    s.summary.TotalValue,
		CountByStatus: counts,
	}
}

// Alerts returns the dashboard warning sets from the last recompute.
func (s *Store) Alerts() Alerts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alerts{
		LowStock:     append([]types.InventoryItem(nil), s.alerts.LowStock...),
		ExpiringSoon: append([]types.InventoryItem(nil), s.alerts.ExpiringSoon...),
		Expired:      append([]types.InventoryItem(nil), s.alerts.Expired...),
	}
}

// Select sets the UI selection; passing uuid.Nil clears it.
func (s *Store) Select(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == uuid.Nil {
		s.selected = nil
		return
	}
	for i := range s.items {
		if s.items[i].ID == id {
			item := s.items[i]
			s.selected = &item
			return
		}
	}
}

// Selected returns the current UI selection.
func (s *Store) Selected() *types.InventoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	item := *s.selected
	return &item
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

func (s *Store) recomputeLocked() {
	now := s.now()
	summary := Summary{
		TotalItems:    len(s.items),
		TotalValue:    decimal.Zero,
		CountByStatus: map[enums.InventoryStatus]int{},
	}
	for _, item := range s.items {
		summary.CountByStatus[Classify(item, now)]++
		summary.TotalValue = summary.TotalValue.Add(item.CostPerUnit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.summary = summary
	s.alerts = BuildAlerts(s.items, now)
}

func (s *Store) publish(id uuid.UUID, payload any) {
	s.bus.Publish(bus.Event{
		Type:     enums.EventInventoryChanged,
		EntityID: id,
		Payload:  payload,
	})
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

func (s *Store) observe(action string, start time.Time) {
	s.metrics.ObserveAction(storeName, action, s.now().Sub(start))
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
