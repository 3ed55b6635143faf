package settings

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

const storeName = "settings"

// StoreParams groups dependencies for the settings store.
type StoreParams struct {
	Bridge  bridge.SettingsBridge
	Bus     *bus.Bus
	Logger  *logger.Logger
	Metrics *metrics.StoreMetrics
}

// Store caches the single clinic settings record. There is no list and no
// delete; the record always exists on the bridge side.
type Store struct {
	bridge  bridge.SettingsBridge
	bus     *bus.Bus
	logg    *logger.Logger
	metrics *metrics.StoreMetrics

	mu      sync.Mutex
	current types.ClinicSettings
	loaded  bool
	loading bool
	lastErr string
}

// NewStore builds a settings store with the required dependencies.
func NewStore(params StoreParams) (*Store, error) {
	if params.Bridge == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "settings bridge is required")
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

// Load fetches the settings record from the bridge.
func (s *Store) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	start := time.Now()
	current, err := s.bridge.Get(ctx)
	s.metrics.ObserveAction(storeName, "load", time.Since(start))
	if err != nil {
		return s.fail(ctx, "load", err)
	}

	s.mu.Lock()
	s.current = current
	s.loaded = true
	s.lastErr = ""
	s.mu.Unlock()
	return nil
}

// Update patches the settings record and replaces the cached copy.
func (s *Store) Update(ctx context.Context, patch types.ClinicSettingsPatch) (types.ClinicSettings, error) {
	if err := validators.Struct(patch); err != nil {
		return types.ClinicSettings{}, s.fail(ctx, "update", err)
	}

	start := time.Now()
	current, err := s.bridge.Update(ctx, patch)
	s.metrics.ObserveAction(storeName, "update", time.Since(start))
	if err != nil {
		return types.ClinicSettings{}, s.fail(ctx, "update", err)
	}

	s.mu.Lock()
	s.current = current
	s.loaded = true
	s.lastErr = ""
	s.mu.Unlock()

	s.publish(current.ID, current)
	return current, nil
}

// Current returns the cached record and whether a load has succeeded yet.
func (s *Store) Current() (types.ClinicSettings, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.loaded
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

func (s *Store) publish(id uuid.UUID, payload any) {
	s.bus.Publish(bus.Event{Type: enums.EventSettingsChanged, EntityID: id, Payload: payload})
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
