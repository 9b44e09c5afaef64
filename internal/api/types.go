package api

import (
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Slot is a slot with its in-memory identifier.
type Slot struct {
	ID    string `json:"id"`
	Time  string `json:"time"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// CollectionResponse lists one collection.
type CollectionResponse struct {
	Key   string `json:"key"`
	Slots []Slot `json:"slots"`
}

// SlotsResponse lists every collection.
type SlotsResponse struct {
	Collections map[string][]Slot `json:"collections"`
	LoadWarning string            `json:"loadWarning,omitempty"`
}

// SlotResponse wraps a single slot.
type SlotResponse struct {
	Key  string `json:"key"`
	Slot Slot   `json:"slot"`
}

// FieldUpdateRequest sets one field of a slot.
type FieldUpdateRequest struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptimeSeconds"`
	Started       string  `json:"started"`
}

// DisplayResponse wraps a rendered panel.
type DisplayResponse struct {
	Mounted bool       `json:"mounted"`
	Panel   view.Panel `json:"panel"`
}

// PushMessage is the websocket frame sent to overlays.
type PushMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Push message types.
const (
	PushDisplay = "DISPLAY"
	PushConfig  = "CONFIG"
)

// FromSlots converts store slots to DTOs.
func FromSlots(slots []schedule.Slot) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		out = append(out, FromSlot(s))
	}
	return out
}

// FromSlot converts one slot.
func FromSlot(s schedule.Slot) Slot {
	return Slot{ID: s.ID, Time: s.Time, Title: s.Title, Desc: s.Desc}
}
