package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// StorageKey is the fixed key the snapshot blob is stored under.
const StorageKey = "streamScheduleSlots"

// Snapshot is the complete persisted state of all four collections.
type Snapshot map[Key][]Slot

type snapshotDocument struct {
	TodayNormal    []Slot `json:"todayNormal"`
	TodayWork      []Slot `json:"todayWork"`
	TomorrowNormal []Slot `json:"tomorrowNormal"`
	TomorrowWork   []Slot `json:"tomorrowWork"`
}

// EncodeSnapshot serializes the four collections with exactly the four keys.
func EncodeSnapshot(snap Snapshot) ([]byte, error) {
	doc := snapshotDocument{
		TodayNormal:    nonNil(snap[TodayNormal]),
		TodayWork:      nonNil(snap[TodayWork]),
		TomorrowNormal: nonNil(snap[TomorrowNormal]),
		TomorrowWork:   nonNil(snap[TomorrowWork]),
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a persisted snapshot. Every key must be present.
// Collections stored as objects keyed by ordinal are converted to lists in
// sorted key order. Decoded slots have no IDs.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("decode snapshot: not an object")
	}

	snap := make(Snapshot, 4)
	for _, key := range Keys() {
		value, ok := raw[string(key)]
		if !ok || isNull(value) {
			return nil, fmt.Errorf("%w: %s", ErrMissingCollection, key)
		}
		slots, err := decodeCollection(value)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		snap[key] = slots
	}
	return snap, nil
}

func decodeCollection(value json.RawMessage) ([]Slot, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var keyed map[string]Slot
		if err := json.Unmarshal(trimmed, &keyed); err != nil {
			return nil, err
		}
		names := make([]string, 0, len(keyed))
		for name := range keyed {
			names = append(names, name)
		}
		sort.Strings(names)
		slots := make([]Slot, 0, len(names))
		for _, name := range names {
			slots = append(slots, keyed[name])
		}
		return slots, nil
	}

	var slots []Slot
	if err := json.Unmarshal(trimmed, &slots); err != nil {
		return nil, err
	}
	return nonNil(slots), nil
}

func isNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}

func nonNil(slots []Slot) []Slot {
	if slots == nil {
		return []Slot{}
	}
	return slots
}
