package settings

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinicdesk/pkg/bus"
	"github.com/clinicdesk/clinicdesk/pkg/enums"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type fakeSettingsBridge struct {
	record types.ClinicSettings
	getErr error
}

func (f *fakeSettingsBridge) Get(ctx context.Context) (types.ClinicSettings, error) {
	if f.getErr != nil {
		return types.ClinicSettings{}, f.getErr
	}
	return f.record, nil
}

func (f *fakeSettingsBridge) Update(ctx context.Context, patch types.ClinicSettingsPatch) (types.ClinicSettings, error) {
	if patch.ClinicName != nil {
		f.record.ClinicName = *patch.ClinicName
	}
	if patch.Currency != nil {
		f.record.Currency = *patch.Currency
	}
	if patch.Language != nil {
		f.record.Language = *patch.Language
	}
	return f.record, nil
}

func newTestStore(t *testing.T, fake *fakeSettingsBridge) (*Store, *bus.Bus) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	eventBus := bus.New(logg)
	store, err := NewStore(StoreParams{Bridge: fake, Bus: eventBus, Logger: logg})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, eventBus
}

func TestCurrentReportsNotLoadedBeforeFirstLoad(t *testing.T) {
	store, _ := newTestStore(t, &fakeSettingsBridge{})

	if _, ok := store.Current(); ok {
		t.Fatal("expected not-loaded before first Load")
	}
}

func TestLoadCachesRecord(t *testing.T) {
	record := types.ClinicSettings{ID: uuid.New(), ClinicName: "Amman Dental", Currency: "JOD", Language: "ar"}
	store, _ := newTestStore(t, &fakeSettingsBridge{record: record})

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	got, ok := store.Current()
	if !ok || got.ClinicName != "Amman Dental" {
		t.Fatalf("expected cached record, got %+v loaded=%v", got, ok)
	}
}

func TestUpdatePublishesSettingsChanged(t *testing.T) {
	record := types.ClinicSettings{ID: uuid.New(), ClinicName: "Amman Dental", Currency: "JOD", Language: "ar"}
	store, eventBus := newTestStore(t, &fakeSettingsBridge{record: record})

	var got bus.Event
	eventBus.Subscribe(enums.EventSettingsChanged, func(e bus.Event) { got = e })

	name := "Amman Dental Center"
	updated, err := store.Update(context.Background(), types.ClinicSettingsPatch{ClinicName: &name})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.ClinicName != name {
		t.Fatalf("ClinicName = %q, want %q", updated.ClinicName, name)
	}
	if got.Type != enums.EventSettingsChanged || got.EntityID != record.ID {
		t.Fatalf("expected settings-changed event for %s, got %+v", record.ID, got)
	}
}

func TestUpdateRejectsInvalidPatch(t *testing.T) {
	fake := &fakeSettingsBridge{record: types.ClinicSettings{ID: uuid.New(), ClinicName: "Amman Dental"}}
	store, _ := newTestStore(t, fake)

	badCurrency := "DINAR"
	if _, err := store.Update(context.Background(), types.ClinicSettingsPatch{Currency: &badCurrency}); err == nil {
		t.Fatal("expected validation error for non ISO currency code")
	}
	if fake.record.Currency != "" {
		t.Fatal("invalid patch must not reach the bridge")
	}
	if store.Err() == "" {
		t.Fatal("expected display error to be recorded")
	}
}
