package ipc_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"streamsched/internal/api"
	"streamsched/internal/configsvc"
	"streamsched/internal/ipc"
	"streamsched/internal/logging"
	"streamsched/internal/schedule"
	"streamsched/internal/testsupport"
	"streamsched/internal/view"
)

func startServer(t *testing.T, token string) (*httptest.Server, *schedule.Store) {
	t.Helper()
	store, _ := testsupport.NewSlotStore(t)
	board := view.NewBoard(view.ContainersForScope("full")...)
	srv, err := api.NewServer(api.Options{
		Store:  store,
		Board:  board,
		Config: configsvc.New(filepath.Join(t.TempDir(), "config.json"), logging.NewNop()),
		Logger: logging.NewNop(),
		Token:  token,
	})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func TestIPCClientRoundTrip(t *testing.T) {
	ts, store := startServer(t, "tok")
	ctx := context.Background()

	client, err := ipc.Dial(ctx, ts.URL, "tok")
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	slots, err := client.Slots(ctx)
	if err != nil {
		t.Fatalf("Slots: %v", err)
	}
	if len(slots.Collections["todayWork"]) != 2 {
		t.Fatalf("unexpected collections: %+v", slots.Collections)
	}

	added, err := client.AddSlot(ctx, schedule.TodayWork)
	if err != nil {
		t.Fatalf("AddSlot: %v", err)
	}
	if _, err := client.UpdateField(ctx, schedule.TodayWork, added.Slot.ID, schedule.FieldDesc, "via client"); err != nil {
		t.Fatalf("UpdateField: %v", err)
	}
	if got := store.Slots(schedule.TodayWork)[2].Desc; got != "via client" {
		t.Fatalf("desc = %q", got)
	}
	if err := client.DeleteSlot(ctx, schedule.TodayWork, added.Slot.ID); err != nil {
		t.Fatalf("DeleteSlot: %v", err)
	}

	raw, err := client.Config(ctx)
	if err != nil {
		t.Fatalf("Config: %v", err)
	}
	if doc, err := configsvc.Decode(raw); err != nil || doc.Theme != "twilight" {
		t.Fatalf("Config: %s %v", raw, err)
	}

	off := false
	msg, err := client.Announce(ctx, 2, &off)
	if err != nil {
		t.Fatalf("Announce: %v", err)
	}
	if msg.Template != "Schedule Update" || strings.Contains(msg.Body, "<t:") {
		t.Fatalf("unexpected announcement: %+v", msg)
	}
}

func TestIPCClientMapsLastSlot(t *testing.T) {
	ts, store := startServer(t, "")
	ctx := context.Background()
	client := ipc.NewClient(ts.URL, "")

	slots := store.Slots(schedule.TomorrowWork)
	if err := client.DeleteSlot(ctx, schedule.TomorrowWork, slots[0].ID); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	err := client.DeleteSlot(ctx, schedule.TomorrowWork, slots[1].ID)
	if !errors.Is(err, schedule.ErrLastSlot) {
		t.Fatalf("err = %v, want ErrLastSlot", err)
	}
}

func TestIPCClientUnauthorized(t *testing.T) {
	ts, _ := startServer(t, "tok")
	client := ipc.NewClient(ts.URL, "wrong")
	_, err := client.Slots(context.Background())
	var statusErr *ipc.StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 401 {
		t.Fatalf("err = %v", err)
	}
}

func TestDialUnavailable(t *testing.T) {
	_, err := ipc.Dial(context.Background(), "127.0.0.1:1", "")
	if !errors.Is(err, ipc.ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

func TestBaseURL(t *testing.T) {
	cases := map[string]string{
		"127.0.0.1:5555":        "http://127.0.0.1:5555",
		"0.0.0.0:5555":          "http://127.0.0.1:5555",
		":5555":                 "http://127.0.0.1:5555",
		"http://example.test:1": "http://example.test:1",
	}
	for in, want := range cases {
		if got := ipc.BaseURL(in); got != want {
			t.Errorf("BaseURL(%q) = %q, want %q", in, got, want)
		}
	}
}
