package patients

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/bridge"
	"github.com/clinicdesk/clinicdesk/pkg/bus"
	"github.com/clinicdesk/clinicdesk/pkg/enums"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/metrics"
	"github.com/clinicdesk/clinicdesk/pkg/types"
	"github.com/clinicdesk/clinicdesk/pkg/validators"
)

const storeName = "patients"

// StoreParams groups dependencies for the patient store.
type StoreParams struct {
	Bridge  bridge.PatientBridge
	Bus     *bus.Bus
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store caches the patient collection and mediates all bridge calls for it.
// Deleting a patient broadcasts patient-deleted so dependent stores can prune
// their own lists.
type Store struct {
	bridge  bridge.PatientBridge
	bus     *bus.Bus
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu       sync.Mutex
	items    []types.Patient
	loading  bool
	lastErr  string
	selected *types.Patient
}

// NewStore builds a patient store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "patient bridge is required")
	}
	if params.Bus == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "event bus is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Store{
		bridge:  params.Bridge,
		bus:     params.Bus,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
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
	s.mu.Unlock()
	return nil
}

// Create registers a new patient and merges the returned record into the cache.
func (s *Store) Create(ctx context.Context, input types.PatientInput) (types.Patient, error) {
	if err := validators.Struct(input); err != nil {
		return types.Patient{}, s.fail(ctx, "create", err)
	}

	start := time.Now()
	patient, err := s.bridge.Create(ctx, input)
	s.metrics.ObserveAction(storeName, "create", time.Since(start))
	if err != nil {
		return types.Patient{}, s.fail(ctx, "create", err)
	}

	s.mu.Lock()
	s.items = append(s.items, patient)
	s.lastErr = ""
	s.mu.Unlock()
	return patient, nil
}

// Update patches a patient record and replaces the matching cache entry.
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch types.PatientPatch) (types.Patient, error) {
	if err := validators.Struct(patch); err != nil {
		return types.Patient{}, s.fail(ctx, "update", err)
	}

	start := time.Now()
	patient, err := s.bridge.Update(ctx, id, patch)
	s.metrics.ObserveAction(storeName, "update", time.Since(start))
	if err != nil {
		return types.Patient{}, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i] = patient
			break
		}
	}
	if s.selected != nil && s.selected.ID == id {
		s.selected = &patient
	}
	s.lastErr = ""
	s.mu.Unlock()
	return patient, nil
}

// Delete removes a patient after the bridge confirms, then broadcasts
// patient-deleted for dependent stores.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := s.bridge.Delete(ctx, id)
	s.metrics.ObserveAction(storeName, "delete", time.Since(start))
	if err != nil {
		return s.fail(ctx, "delete", err)
	}

	s.mu.Lock()
	filtered := s.items[:0]
	for _, patient := range s.items {
		if patient.ID != id {
			filtered = append(filtered, patient)
		}
	}
	s.items = filtered
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.lastErr = ""
	s.mu.Unlock()

	s.bus.Publish(bus.Event{
		Type:     enums.EventPatientDeleted,
		EntityID: id,
	})
	return nil
}

// Items returns a snapshot of the cached list.
func (s *Store) Items() []types.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Patient, len(s.items))
	copy(out, s.items)
	return out
}

// Find returns the cached patient with the given id, if any.
func (s *Store) Find(id uuid.UUID) (types.Patient, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, patient := range s.items {
		if patient.ID == id {
			return patient, true
		}
	}
	return types.Patient{}, false
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
			patient := s.items[i]
			s.selected = &patient
			return
		}
	}
}

// Selected returns the current UI selection.
func (s *Store) Selected() *types.Patient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return nil
	}
	patient := *s.selected
	return &patient
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
