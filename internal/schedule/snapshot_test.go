package schedule_test

import (
	"encoding/json"
	"errors"
	"testing"

	"streamsched/internal/schedule"
)

func TestEncodeSnapshotWritesFourKeysWithoutIDs(t *testing.T) {
	snap := schedule.Snapshot{
		schedule.TodayNormal: {{ID: "x", Time: "1:00 PM - 4:00 PM", Title: "A", Desc: "a"}},
	}
	data, err := schedule.EncodeSnapshot(snap)
	if err != nil {
		t.Fatalf("EncodeSnapshot returned error: %v", err)
	}

	var raw map[string][]map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("decode encoded snapshot: %v", err)
	}
	if len(raw) != 4 {
		t.Fatalf("expected four keys, got %v", raw)
	}
	slot := raw["todayNormal"][0]
	if _, ok := slot["ID"]; ok {
		t.Fatalf("slot id must not be persisted: %v", slot)
	}
	if slot["time"] != "1:00 PM - 4:00 PM" || slot["title"] != "A" || slot["desc"] != "a" {
		t.Fatalf("unexpected slot encoding: %v", slot)
	}
	if raw["todayWork"] == nil {
		t.Fatal("empty collections should encode as []")
	}
}

func TestDecodeSnapshotRequiresEveryKey(t *testing.T) {
	data := []byte(`{"todayNormal":[],"todayWork":[],"tomorrowNormal":[]}`)
	_, err := schedule.DecodeSnapshot(data)
	if !errors.Is(err, schedule.ErrMissingCollection) {
		t.Fatalf("expected ErrMissingCollection, got %v", err)
	}
}

func TestDecodeSnapshotRejectsNull(t *testing.T) {
	data := []byte(`{"todayNormal":null,"todayWork":[],"tomorrowNormal":[],"tomorrowWork":[]}`)
	if _, err := schedule.DecodeSnapshot(data); !errors.Is(err, schedule.ErrMissingCollection) {
		t.Fatalf("expected ErrMissingCollection, got %v", err)
	}
}

func TestDecodeSnapshotConvertsLegacyObjects(t *testing.T) {
	data := []byte(`{
		"todayNormal": {"1": {"time":"1:00 PM - 4:00 PM","title":"second","desc":""},
		                "0": {"time":"9:30 AM - 12:30 PM","title":"first","desc":""}},
		"todayWork": [],
		"tomorrowNormal": [],
		"tomorrowWork": []
	}`)
	snap, err := schedule.DecodeSnapshot(data)
	if err != nil {
		t.Fatalf("DecodeSnapshot returned error: %v", err)
	}
	got := snap[schedule.TodayNormal]
	if len(got) != 2 || got[0].Title != "first" || got[1].Title != "second" {
		t.Fatalf("unexpected legacy conversion: %+v", got)
	}
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "[]", "null", `{"todayNormal":"x"}`} {
		if _, err := schedule.DecodeSnapshot([]byte(data)); err == nil {
			t.Fatalf("expected error for %q", data)
		}
	}
}
