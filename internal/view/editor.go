package view

import (
	"fmt"

	"streamsched/internal/schedule"
)

// Variant selects how the time field of an editor row is edited.
type Variant string

const (
	// VariantPicker makes the time field read-only; activating it opens the picker.
	VariantPicker Variant = "picker"
	// VariantFreeText binds the time field directly to UpdateField.
	VariantFreeText Variant = "freetext"
)

// ParseVariant maps a configured editor variant to a Variant. Anything other
// than "freetext" selects the picker.
func ParseVariant(value string) Variant {
	if Variant(value) == VariantFreeText {
		return VariantFreeText
	}
	return VariantPicker
}

// EditorRow is one editable slot.
type EditorRow struct {
	SlotID    string   `json:"slotId"`
	ElementID string   `json:"elementId"`
	Position  int      `json:"position"`
	Time      string   `json:"time"`
	Title     string   `json:"title"`
	Desc      string   `json:"desc"`
	TimeInput Variant  `json:"timeInput"`
	CanDelete bool     `json:"canDelete"`
	Fields    FieldIDs `json:"fields"`
}

// FieldIDs are the element identifiers of a row's inputs.
type FieldIDs struct {
	Time   string `json:"time"`
	Title  string `json:"title"`
	Desc   string `json:"desc"`
	Delete string `json:"delete"`
}

// EditorPanel is the editor for one collection.
type EditorPanel struct {
	Key          schedule.Key `json:"key"`
	Rows         []EditorRow  `json:"rows"`
	AddControlID string       `json:"addControlId"`
}

// RowElementID is the identifier of the row for slot id in collection key.
func RowElementID(key schedule.Key, id string) string {
	return fmt.Sprintf("%s-slot-%s", key, id)
}

// AddControlID is the identifier of the add-slot control of a collection.
func AddControlID(key schedule.Key) string {
	return fmt.Sprintf("%s-add", key)
}

// EditorRows builds one row per slot. Rows are keyed by slot ID so deleting
// one row leaves the identifiers of the others unchanged.
func EditorRows(key schedule.Key, slots []schedule.Slot, variant Variant) []EditorRow {
	rows := make([]EditorRow, 0, len(slots))
	for i, slot := range slots {
		element := RowElementID(key, slot.ID)
		rows = append(rows, EditorRow{
			SlotID:    slot.ID,
			ElementID: element,
			Position:  i + 1,
			Time:      slot.Time,
			Title:     slot.Title,
			Desc:      slot.Desc,
			TimeInput: variant,
			CanDelete: len(slots) > 1,
			Fields: FieldIDs{
				Time:   element + "-time",
				Title:  element + "-title",
				Desc:   element + "-desc",
				Delete: element + "-delete",
			},
		})
	}
	return rows
}

// Editor builds the editor panel for a collection.
func Editor(key schedule.Key, slots []schedule.Slot, variant Variant) EditorPanel {
	return EditorPanel{
		Key:          key,
		Rows:         EditorRows(key, slots, variant),
		AddControlID: AddControlID(key),
	}
}
