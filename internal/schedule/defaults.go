package schedule

const (
	// NewSlotTitle is the placeholder title for an added slot.
	NewSlotTitle = "New Stream Session"
	// NewSlotDesc is the placeholder description for an added slot.
	NewSlotDesc = "Description of this stream session"
)

var normalSeed = []Slot{
	{Time: "9:30 AM - 12:30 PM", Title: "Morning Warmup", Desc: "Clearing admin tasks, then jumping into chill development."},
	{Time: "1:00 PM - 4:00 PM", Title: "Focused Development + Prototype Speedrun", Desc: "Getting stuff done and making things happen ✨👏"},
	{Time: "5:00 PM - 8:00 PM", Title: "Greenlight Development", Desc: "You picked it, now we're building it."},
	{Time: "9:00 PM - 12:00 AM", Title: "Late Night Admin", Desc: "Winding down with some chill development."},
}

var workSeed = []Slot{
	{Time: "9:30 AM - 12:30 PM", Title: "Morning Warmup", Desc: "Clearing admin tasks, then jumping into chill development."},
	{Time: "12:30 PM - 3:30 PM", Title: "Focused Development + Prototype Speedrun", Desc: "Getting stuff done and making things happen ✨👏"},
}

// DefaultSlots returns a fresh copy of the seed list for a schedule type.
// The returned slots have no IDs.
func DefaultSlots(typ Type) []Slot {
	seed := normalSeed
	if typ == Work {
		seed = workSeed
	}
	out := make([]Slot, len(seed))
	copy(out, seed)
	return out
}

// DefaultCollections returns the seed state for all four keys.
func DefaultCollections() map[Key][]Slot {
	out := make(map[Key][]Slot, 4)
	for _, key := range Keys() {
		out[key] = DefaultSlots(key.Type())
	}
	return out
}
