package schedule_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"streamsched/internal/schedule"
	"streamsched/internal/testsupport"
)

func TestNewStoreSeedsDefaults(t *testing.T) {
	store, persister := testsupport.NewSlotStore(t)

	if got := len(store.Slots(schedule.TodayNormal)); got != 4 {
		t.Fatalf("expected 4 normal seed slots, got %d", got)
	}
	if got := len(store.Slots(schedule.TomorrowWork)); got != 2 {
		t.Fatalf("expected 2 work seed slots, got %d", got)
	}
	if persister.Puts() != 0 {
		t.Fatal("loading without a snapshot must not write")
	}
	for _, slot := range store.Slots(schedule.TodayWork) {
		if slot.ID == "" {
			t.Fatal("expected seeded slots to carry IDs")
		}
	}
}

func TestLoadReplacesStateWholesale(t *testing.T) {
	persister := testsupport.NewMemoryPersister()
	persister.Set(schedule.StorageKey, []byte(`{
		"todayNormal":[{"time":"1:00 AM - 2:00 AM","title":"only","desc":"d"}],
		"todayWork":[],"tomorrowNormal":[],"tomorrowWork":[]}`))

	store := schedule.NewStore(persister)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if store.LoadWarning() != nil {
		t.Fatalf("unexpected load warning: %v", store.LoadWarning())
	}
	slots := store.Slots(schedule.TodayNormal)
	if len(slots) != 1 || slots[0].Title != "only" {
		t.Fatalf("unexpected slots after load: %+v", slots)
	}
	if len(store.Slots(schedule.TodayWork)) != 0 {
		t.Fatal("expected empty collection from snapshot, not defaults")
	}
}

func TestLoadKeepsDefaultsOnMissingKey(t *testing.T) {
	persister := testsupport.NewMemoryPersister()
	persister.Set(schedule.StorageKey, []byte(`{"todayNormal":[]}`))

	store := schedule.NewStore(persister)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !errors.Is(store.LoadWarning(), schedule.ErrMissingCollection) {
		t.Fatalf("expected missing collection warning, got %v", store.LoadWarning())
	}
	if got := len(store.Slots(schedule.TodayNormal)); got != 4 {
		t.Fatalf("expected defaults to survive, got %d slots", got)
	}
}

func TestAddSlotDerivesTimeAndPersists(t *testing.T) {
	recorder := &testsupport.Recorder{}
	store, persister := testsupport.NewSlotStore(t, schedule.WithObserver(recorder))
	ctx := context.Background()

	slot, err := store.AddSlot(ctx, schedule.TodayNormal)
	if err != nil {
		t.Fatalf("AddSlot returned error: %v", err)
	}
	// Last seed slot ends at 12:00 AM.
	if slot.Time != "12:30 AM - 3:30 AM" {
		t.Fatalf("unexpected derived time: %q", slot.Time)
	}
	if slot.Title != "New Stream Session" || slot.Desc != "Description of this stream session" {
		t.Fatalf("unexpected new slot content: %+v", slot)
	}
	if persister.Puts() != 1 {
		t.Fatalf("expected one snapshot write, got %d", persister.Puts())
	}
	if !slices.Equal(recorder.Editor, []schedule.Key{schedule.TodayNormal}) {
		t.Fatalf("expected editor refresh for todayNormal, got %v", recorder.Editor)
	}
	if len(recorder.Display) != 4 {
		t.Fatalf("expected every display refreshed, got %v", recorder.Display)
	}

	reloaded := schedule.NewStore(persister)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if got := len(reloaded.Slots(schedule.TodayNormal)); got != 5 {
		t.Fatalf("expected persisted add, got %d slots", got)
	}
}

func TestDeleteSlotRejectsLastSlot(t *testing.T) {
	store, persister := testsupport.NewSlotStore(t)
	ctx := context.Background()

	if err := store.DeleteSlot(ctx, schedule.TodayWork, 0, schedule.AlwaysConfirm); err != nil {
		t.Fatalf("first delete failed: %v", err)
	}
	writes := persister.Puts()

	asked := false
	confirm := schedule.ConfirmFunc(func(string) bool {
		asked = true
		return true
	})
	err := store.DeleteSlot(ctx, schedule.TodayWork, 0, confirm)
	if !errors.Is(err, schedule.ErrLastSlot) {
		t.Fatalf("expected ErrLastSlot, got %v", err)
	}
	if asked {
		t.Fatal("confirmer must not be asked for the last slot")
	}
	if len(store.Slots(schedule.TodayWork)) != 1 || persister.Puts() != writes {
		t.Fatal("rejected delete must not change or persist state")
	}
}

func TestDeleteSlotPreservesOrder(t *testing.T) {
	store, _ := testsupport.NewSlotStore(t)
	ctx := context.Background()
	if err := store.DeleteSlot(ctx, schedule.TomorrowNormal, 3, schedule.AlwaysConfirm); err != nil {
		t.Fatalf("trim to three failed: %v", err)
	}
	before := store.Slots(schedule.TomorrowNormal)
	if len(before) != 3 {
		t.Fatalf("expected three slots, got %d", len(before))
	}

	if err := store.DeleteSlot(ctx, schedule.TomorrowNormal, 1, schedule.AlwaysConfirm); err != nil {
		t.Fatalf("DeleteSlot returned error: %v", err)
	}
	after := store.Slots(schedule.TomorrowNormal)
	if len(after) != 2 || after[0] != before[0] || after[1] != before[2] {
		t.Fatalf("expected [0],[2] to remain in order, got %+v", after)
	}
}

func TestDeleteSlotDeclined(t *testing.T) {
	store, persister := testsupport.NewSlotStore(t)
	deny := schedule.ConfirmFunc(func(prompt string) bool {
		if prompt != schedule.DeletePrompt {
			t.Fatalf("unexpected prompt %q", prompt)
		}
		return false
	})

	err := store.DeleteSlot(context.Background(), schedule.TodayNormal, 0, deny)
	if !errors.Is(err, schedule.ErrDeleteDeclined) {
		t.Fatalf("expected ErrDeleteDeclined, got %v", err)
	}
	if len(store.Slots(schedule.TodayNormal)) != 4 || persister.Puts() != 0 {
		t.Fatal("declined delete must not change state")
	}
}

func TestUpdateFieldRefreshesDisplaysOnly(t *testing.T) {
	recorder := &testsupport.Recorder{}
	store, persister := testsupport.NewSlotStore(t, schedule.WithObserver(recorder))

	if err := store.UpdateField(context.Background(), schedule.TodayNormal, 2, schedule.FieldTitle, "Retitled"); err != nil {
		t.Fatalf("UpdateField returned error: %v", err)
	}
	if got := store.Slots(schedule.TodayNormal)[2].Title; got != "Retitled" {
		t.Fatalf("title not updated: %q", got)
	}
	if len(recorder.Editor) != 0 {
		t.Fatalf("field edits must not rebuild the editor, got %v", recorder.Editor)
	}
	if len(recorder.Display) != 4 || persister.Puts() != 1 {
		t.Fatalf("expected display refresh and one write, got %v / %d", recorder.Display, persister.Puts())
	}
}

func TestUpdateFieldByIDSurvivesReorder(t *testing.T) {
	store, _ := testsupport.NewSlotStore(t)
	ctx := context.Background()
	target := store.Slots(schedule.TodayNormal)[2]

	if err := store.DeleteSlot(ctx, schedule.TodayNormal, 0, schedule.AlwaysConfirm); err != nil {
		t.Fatalf("DeleteSlot returned error: %v", err)
	}
	if err := store.UpdateFieldByID(ctx, schedule.TodayNormal, target.ID, schedule.FieldDesc, "moved"); err != nil {
		t.Fatalf("UpdateFieldByID returned error: %v", err)
	}
	index, ok := store.IndexOf(schedule.TodayNormal, target.ID)
	if !ok || index != 1 {
		t.Fatalf("expected slot to move to index 1, got %d (%v)", index, ok)
	}
	if store.Slots(schedule.TodayNormal)[1].Desc != "moved" {
		t.Fatal("expected desc updated on the addressed slot")
	}

	if err := store.DeleteSlotByID(ctx, schedule.TodayNormal, "nope", nil); !errors.Is(err, schedule.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	recorder := &testsupport.Recorder{}
	store, persister := testsupport.NewSlotStore(t, schedule.WithObserver(recorder))
	persister.FailPuts = true

	err := store.UpdateField(context.Background(), schedule.TodayNormal, 0, schedule.FieldTitle, "x")
	if err == nil {
		t.Fatal("expected write error")
	}
	if store.Slots(schedule.TodayNormal)[0].Title != "x" {
		t.Fatal("in-memory state should keep the edit")
	}
	if len(recorder.Display) == 0 {
		t.Fatal("displays should still refresh")
	}
}

func TestInvalidInputs(t *testing.T) {
	store, _ := testsupport.NewSlotStore(t)
	ctx := context.Background()

	if _, err := store.AddSlot(ctx, "bogus"); !errors.Is(err, schedule.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
	if err := store.UpdateField(ctx, schedule.TodayNormal, 0, "color", "red"); !errors.Is(err, schedule.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
	if err := store.UpdateField(ctx, schedule.TodayNormal, 9, schedule.FieldTitle, "x"); !errors.Is(err, schedule.ErrSlotNotFound) {
		t.Fatalf("expected ErrSlotNotFound, got %v", err)
	}
}

func TestParseKeyAcceptsSeparatedForms(t *testing.T) {
	for input, want := range map[string]schedule.Key{
		"todayNormal":     schedule.TodayNormal,
		"TOMORROWWORK":    schedule.TomorrowWork,
		"today_work":      schedule.TodayWork,
		"tomorrow-normal": schedule.TomorrowNormal,
		"Today/Normal":    schedule.TodayNormal,
	} {
		got, err := schedule.ParseKey(input)
		if err != nil || got != want {
			t.Fatalf("ParseKey(%q) = %q, %v; want %q", input, got, err, want)
		}
	}
	if _, err := schedule.ParseKey("yesterday_normal"); !errors.Is(err, schedule.ErrUnknownKey) {
		t.Fatalf("expected ErrUnknownKey, got %v", err)
	}
}
