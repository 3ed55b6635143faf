package appointments

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

const storeName = "appointments"

// Totals is the aggregate view recomputed on every mutation.
type Totals struct {
	CountByStatus map[enums.AppointmentStatus]int
	TotalRevenue  decimal.Decimal
}

// StoreParams groups dependencies for the appointment store.
type StoreParams struct {
	Bridge  bridge.AppointmentBridge
	Bus     *bus.Bus
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store caches the appointment collection, mediates all bridge calls for it
// and derives the calendar view. It prunes its own list when a patient is
// deleted elsewhere.
type Store struct {
	bridge  bridge.AppointmentBridge
	bus     *bus.Bus
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu       sync.Mutex
	items    []types.Appointment
	loading  bool
	lastErr  string
	selected *types.Appointment
	view     enums.CalendarView
	calendar []CalendarEvent
	totals   Totals
}

// NewStore builds an appointment store and subscribes it to patient-deleted.
func NewStore(params StoreParams) (*Store, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment bridge is required")
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
		view:    enums.CalendarViewWeek,
		totals:  Totals{CountByStatus: map[enums.AppointmentStatus]int{}, TotalRevenue: decimal.Zero},
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

// Create books an appointment and merges the returned record into the cache.
func (s *Store) Create(ctx context.Context, input types.AppointmentInput) (types.Appointment, error) {
	if err := validators.Struct(input); err != nil {
		return types.Appointment{}, s.fail(ctx, "create", err)
	}

	start := time.Now()
	apt, err := s.bridge.Create(ctx, input)
	s.metrics.ObserveAction(storeName, "create", time.Since(start))
	if err != nil {
		return types.Appointment{}, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.items = append(s.items, apt)
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(enums.EventAppointmentAdded, apt.ID, apt)
	return apt, nil
}

// Update patches an appointment, merges the bridge's record, then re-runs
// Load to reconcile denormalized patient names only a fresh fetch supplies.
// The error is returned to the caller so an edit dialog can stay open.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch types.AppointmentPatch) (types.Appointment, error) {
	if err := validators.Struct(patch); err != nil {
		return types.Appointment{}, s.fail(ctx, "update", err)
	}

	start := time.Now()
	apt, err := s.bridge.Update(ctx, id, patch)
	s.metrics.ObserveAction(storeName, "update", time.Since(start))
	if err != nil {
		return types.Appointment{}, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = apt
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = &apt
	}
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(enums.EventAppointmentUpdated, apt.ID, apt)

	if err := s.Load(ctx); err != nil {
		// The mutation itself succeeded; the reconciling fetch is
		// best-effort and its failure is already recorded on the store.
		ctx = s.logg.WithStore(ctx, storeName)
		s.logg.Warn(ctx, "post-update reload failed")
	}
	return apt, nil
}

// Delete removes an appointment after the bridge confirms.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.bridge.Delete(ctx, id)
	s.metrics.ObserveAction(storeName, "delete", time.Since(start))
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, apt := range s.items {
		if apt.ID != id {
			filtered = append(filtered, apt)
		}
	}
	s.items = filtered
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.lastErr = ""
	s.recomputeLocked()
	s.mu.Unlock()

	s.publish(enums.EventAppointmentDeleted, id, nil)
	return nil
}

// MarkCompleted transitions an appointment to completed.
func (s *Store) MarkCompleted(ctx context.Context, id uuid.UUID) (types.Appointment, error) {
	return s.transition(ctx, id, enums.AppointmentStatusCompleted)
}

// MarkCancelled transitions an appointment to cancelled.
func (s *Store) MarkCancelled(ctx context.Context, id uuid.UUID) (types.Appointment, error) {
	return s.transition(ctx, id, enums.AppointmentStatusCancelled)
}

// MarkNoShow transitions an appointment to no-show.
func (s *Store) MarkNoShow(ctx context.Context, id uuid.UUID) (types.Appointment, error) {
	return s.transition(ctx, id, enums.AppointmentStatusNoShow)
}

func (s *Store) transition(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) (types.Appointment, error) {
	return s.Update(ctx, id, types.AppointmentPatch{Status: &status})
}

// Items returns a snapshot of the cached list.
func (s *Store) Items() []types.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Appointment, len(s.items))
	copy(out, s.items)
	return out
}

// CalendarEvents returns the derived calendar view from the last recompute.
func (s *Store) CalendarEvents() []CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]CalendarEvent, len(s.calendar))
	copy(out, s.calendar)
	return out
}

// Totals returns the aggregate counts from the last recompute.
func (s *Store) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[enums.AppointmentStatus]int, len(s.totals.CountByStatus))
	for k, v := range s.totals.CountByStatus {
		counts[k] = v
	}
	return Totals{CountByStatus: counts, TotalRevenue: s.totals.TotalRevenue}
}

// SetView switches the active calendar scale.
func (s *Store) SetView(view enums.CalendarView) {
	if !view.IsValid() {
		return
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
}

// View returns the active calendar scale.
func (s *Store) View() enums.CalendarView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
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
			apt := s.items[i]
			s.selected = &apt
			return
		}
	}
}

// Selected returns the current UI selection.
func (s *Store) Selected() *types.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	apt := *s.selected
	return &apt
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

// onPatientDeleted drops every appointment belonging to the deleted patient
// and clears the selection iff it belonged to that patient.
func (s *Store) onPatientDeleted(event bus.Event) {
	s.mu.Lock()
	filtered := s.items[:0]
	for _, apt := range s.items {
		if apt.PatientID != event.EntityID {
			filtered = append(filtered, apt)
		}
	}
	s.items = filtered
	if s.selected != nil && s.selected.PatientID == event.EntityID {
		s.selected = nil
	}
	s.recomputeLocked()
	s.mu.Unlock()
}

func (s *Store) recomputeLocked() {
	totals := Totals{
		CountByStatus: map[enums.AppointmentStatus]int{},
		TotalRevenue:  decimal.Zero,
	}
	for _, apt := range s.items {
		totals.CountByStatus[apt.Status]++
		if apt.Status == enums.AppointmentStatusCompleted {
			totals.TotalRevenue = totals.TotalRevenue.Add(apt.Cost)
		}
	}
	s.totals = totals
	s.calendar = BuildCalendar(s.items)
}

func (s *Store) publish(eventType enums.ClinicEventType, id uuid.UUID, payload any) {
	s.bus.Publish(bus.Event{Type: eventType, EntityID: id, Payload: payload})
	s.bus.Publish(bus.Event{Type: enums.EventAppointmentChanged, EntityID: id, Payload: payload})
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
