package view

import (
	"fmt"
	"slices"

	"streamsched/internal/schedule"
)

// Accent tokens. Styling differs by day only.
const (
	AccentToday    = "accent-today"
	AccentTomorrow = "accent-tomorrow"
)

// Block is the read-only rendering of one slot.
type Block struct {
	Time  string `json:"time"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Panel is the read-only rendering of one collection.
type Panel struct {
	ContainerID string        `json:"containerId"`
	Key         schedule.Key  `json:"key"`
	Day         schedule.Day  `json:"day"`
	Type        schedule.Type `json:"type"`
	Accent      string        `json:"accent"`
	Blocks      []Block       `json:"blocks"`
}

// Equal reports whether two panels render identically.
func (p Panel) Equal(other Panel) bool {
	return p.ContainerID == other.ContainerID &&
		p.Key == other.Key &&
		p.Accent == other.Accent &&
		slices.Equal(p.Blocks, other.Blocks)
}

// ContainerID is the fixed display container identifier for key,
// e.g. "today-normal-display".
func ContainerID(key schedule.Key) string {
	return fmt.Sprintf("%s-%s-display", key.Day(), key.Type())
}

// AccentFor returns the color token for a day context.
func AccentFor(day schedule.Day) string {
	if day == schedule.Tomorrow {
		return AccentTomorrow
	}
	return AccentToday
}

// Display renders a collection. It has no side effects.
func Display(key schedule.Key, slots []schedule.Slot) Panel {
	blocks := make([]Block, 0, len(slots))
	for _, slot := range slots {
		blocks = append(blocks, Block{Time: slot.Time, Title: slot.Title, Desc: slot.Desc})
	}
	return Panel{
		ContainerID: ContainerID(key),
		Key:         key,
		Day:         key.Day(),
		Type:        key.Type(),
		Accent:      AccentFor(key.Day()),
		Blocks:      blocks,
	}
}

// ContainersForScope lists the display containers an export scope shows:
// "today" limits the overlay to today's collections, anything else shows all.
func ContainersForScope(scope string) []string {
	keys := schedule.Keys()
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if scope == "today" && key.Day() != schedule.Today {
			continue
		}
		ids = append(ids, ContainerID(key))
	}
	return ids
}
