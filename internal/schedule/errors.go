package schedule

import "errors"

var (
	// ErrLastSlot is returned when a delete would leave a collection empty.
	ErrLastSlot = errors.New("a collection must keep at least one stream slot")
	// ErrDeleteDeclined is returned when the confirmer rejects a delete.
	ErrDeleteDeclined = errors.New("delete not confirmed")
	// ErrUnknownKey is returned for collection keys outside the fixed four.
	ErrUnknownKey = errors.New("unknown collection key")
	// ErrUnknownField is returned for fields other than time, title and desc.
	ErrUnknownField = errors.New("unknown slot field")
	// ErrSlotNotFound is returned when an index or slot ID does not resolve.
	ErrSlotNotFound = errors.New("slot not found")
	// ErrMissingCollection marks a snapshot that lacks one of the four keys.
	ErrMissingCollection = errors.New("snapshot missing collection")
	// ErrTimeFormat marks a time string that does not match "H:MM AM - H:MM PM".
	ErrTimeFormat = errors.New("invalid time range")
)
