package inventory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/clinicdesk/clinicdesk/pkg/bus"
	"github.com/clinicdesk/clinicdesk/pkg/enums"
	pkgerrors "github.com/clinicdesk/clinicdesk/pkg/errors"
	"github.com/clinicdesk/clinicdesk/pkg/logger"
	"github.com/clinicdesk/clinicdesk/pkg/types"
)

type fakeInventoryBridge struct {
	items     []types.InventoryItem
	listErr   error
	createErr error
	updateErr error
	deleteErr error
}

func (f *fakeInventoryBridge) List(ctx context.Context) ([]types.InventoryItem, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]types.InventoryItem, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeInventoryBridge) Create(ctx context.Context, input types.InventoryItemInput) (types.InventoryItem, error) {
	if f.createErr != nil {
		return types.InventoryItem{}, f.createErr
	}
	item := types.InventoryItem{
		ID:           uuid.New(),
		Name:         input.Name,
		Category:     input.Category,
		Quantity:     input.Quantity,
		Unit:         input.Unit,
		CostPerUnit:  input.CostPerUnit,
		MinimumStock: input.MinimumStock,
		ExpiryDate:   input.ExpiryDate,
		Supplier:     input.Supplier,
	}
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeInventoryBridge) Update(ctx context.Context, id uuid.UUID, patch types.InventoryItemPatch) (types.InventoryItem, error) {
	if f.updateErr != nil {
		return types.InventoryItem{}, f.updateErr
	}
	for i := range f.items {
		if f.items[i].ID != id {
			continue
		}
		if patch.Name != nil {
			f.items[i].Name = *patch.Name
		}
		if patch.Quantity != nil {
			f.items[i].Quantity = *patch.Quantity
		}
		if patch.MinimumStock != nil {
			f.items[i].MinimumStock = *patch.MinimumStock
		}
		return f.items[i], nil
	}
	return types.InventoryItem{}, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}

func (f *fakeInventoryBridge) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}

func newTestStore(t *testing.T, fake *fakeInventoryBridge) (*Store, *bus.Bus) {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test"})
	eventBus := bus.New(logg)
	store, err := NewStore(StoreParams{
		Bridge: fake,
		Bus:    eventBus,
		Logger: logg,
		Now:    func() time.Time { return statusNow },
	})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store, eventBus
}

func seedItem(name string, qty, minStock int) types.InventoryItem {
	return types.InventoryItem{
		ID:           uuid.New(),
		Name:         name,
		Quantity:     qty,
		MinimumStock: minStock,
		CostPerUnit:  decimal.NewFromInt(10),
	}
}

func TestLoadReplacesItemsAndClearsLoading(t *testing.T) {
	fake := &fakeInventoryBridge{items: []types.InventoryItem{seedItem("Gloves", 100, 20), seedItem("Composite", 3, 5)}}
	store, _ := newTestStore(t, fake)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	if got := len(store.Items()); got != 2 {
		t.Fatalf("expected 2 items, got %d", got)
	}
	if store.Loading() {
		t.Fatal("loading flag must clear after load")
	}
	if store.Err() != "" {
		t.Fatalf("expected clean error state, got %q", store.Err())
	}

	summary := store.Summary()
	if summary.CountByStatus[enums.InventoryStatusLowStock] != 1 {
		t.Fatalf("expected one low stock item, got %d", summary.CountByStatus[enums.InventoryStatusLowStock])
	}
}

func TestLoadFailureKeepsPriorState(t *testing.T) {
	fake := &fakeInventoryBridge{items: []types.InventoryItem{seedItem("Gloves", 100, 20)}}
	store, _ := newTestStore(t, fake)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	fake.listErr = errors.New("bridge down")
	if err := store.Load(context.Background()); err == nil {
		t.Fatal("expected load error")
	}

	if got := len(store.Items()); got != 1 {
		t.Fatalf("failed load must leave prior items, got %d", got)
	}
	if store.Err() == "" {
		t.Fatal("expected error string to be recorded")
	}
	if store.Loading() {
		t.Fatal("loading flag must clear even on failure")
	}
}

func TestCreateAppendsBridgeResult(t *testing.T) {
	fake := &fakeInventoryBridge{}
	store, eventBus := newTestStore(t, fake)

	events := 0
	eventBus.Subscribe(enums.EventInventoryChanged, func(bus.Event) { events++ })

	item, err := store.Create(context.Background(), types.InventoryItemInput{
		Name:         "Anesthetic carpules",
		Quantity:     40,
		MinimumStock: 10,
		CostPerUnit:  decimal.NewFromFloat(1.5),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != item.ID {
		t.Fatalf("expected created item in cache, got %+v", items)
	}
	if events != 1 {
		t.Fatalf("expected one inventory-changed event, got %d", events)
	}
}

func TestCreateValidationFailureLeavesListUntouched(t *testing.T) {
	fake := &fakeInventoryBridge{}
	store, _ := newTestStore(t, fake)

	_, err := store.Create(context.Background(), types.InventoryItemInput{Name: "x", Quantity: -1})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if len(store.Items()) != 0 {
		t.Fatal("failed create must not mutate the cache")
	}
	if len(fake.items) != 0 {
		t.Fatal("validation failures must not reach the bridge")
	}
}

func TestUpdateReplacesExactlyOneEntry(t *testing.T) {
	a, b := seedItem("Gloves", 100, 20), seedItem("Masks", 50, 10)
	fake := &fakeInventoryBridge{items: []types.InventoryItem{a, b}}
	store, _ := newTestStore(t, fake)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	newName := "Nitrile gloves"
	updated, err := store.Update(context.Background(), a.ID, types.InventoryItemPatch{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != newName {
		t.Fatalf("expected merged name, got %q", updated.Name)
	}

	items := store.Items()
	if len(items) != 2 {
		t.Fatalf("update must not change list length, got %d", len(items))
	}
	var matches int
	for _, item := range items {
		if item.ID == a.ID {
			matches++
			if item.Name != newName {
				t.Fatalf("expected cache to hold merged record, got %q", item.Name)
			}
		}
	}
	if matches != 1 {
		t.Fatalf("expected exactly one matching entry, got %d", matches)
	}
}

func TestDeleteRemovesExactlyOneEntry(t *testing.T) {
	a, b := seedItem("Gloves", 100, 20), seedItem("Masks", 50, 10)
	fake := &fakeInventoryBridge{items: []types.InventoryItem{a, b}}
	store, _ := newTestStore(t, fake)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	store.Select(a.ID)

	if err := store.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	items := store.Items()
	if len(items) != 1 || items[0].ID != b.ID {
		t.Fatalf("expected only %s to remain, got %+v", b.Name, items)
	}
	if store.Selected() != nil {
		t.Fatal("deleting the selected item must clear the selection")
	}
}

func TestRecordUsageDeductsStock(t *testing.T) {
	item := seedItem("Composite", 10, 2)
	fake := &fakeInventoryBridge{items: []types.InventoryItem{item}}
	store, _ := newTestStore(t, fake)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	updated, err := store.RecordUsage(context.Background(), item.ID, 4)
	if err != nil {
		t.Fatalf("RecordUsage: %v", err)
	}
	if updated.Quantity != 6 {
		t.Fatalf("expected 6 remaining, got %d", updated.Quantity)
	}
}

func TestRecordUsageRejectsOverdraw(t *testing.T) {
	item := seedItem("Composite", 3, 2)
	fake := &fakeInventoryBridge{items: []types.InventoryItem{item}}
	store, _ := newTestStore(t, fake)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err := store.RecordUsage(context.Background(), item.ID, 5)
	if err == nil {
		t.Fatal("expected state conflict")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict code, got %v", err)
	}
	if got := store.Items()[0].Quantity; got != 3 {
		t.Fatalf("failed usage must leave quantity untouched, got %d", got)
	}
}

func TestAlertsReturnsDetachedCopies(t *testing.T) {
	lowStock := seedItem("gloves", 2, 10)
	fake := &fakeInventoryBridge{items: []types.InventoryItem{lowStock}}
	store, _ := newTestStore(t, fake)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}

	alerts := store.Alerts()
	if len(alerts.LowStock) != 1 {
		t.Fatalf("expected 1 low stock alert, got %d", len(alerts.LowStock))
	}
	alerts.LowStock[0].Name = "mutated"

	fresh := store.Alerts()
	if fresh.LowStock[0].Name != "gloves" {
		t.Fatalf("caller mutation leaked into the store: %q", fresh.LowStock[0].Name)
	}
}
