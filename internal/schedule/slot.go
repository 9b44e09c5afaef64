package schedule

import (
	"fmt"
	"strings"
)

// Slot is one scheduled stream session. ID is assigned in memory and never
// persisted.
type Slot struct {
	ID    string `json:"-"`
	Time  string `json:"time"`
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

// Day is the day context of a collection. It only affects display styling.
type Day string

const (
	Today    Day = "today"
	Tomorrow Day = "tomorrow"
)

// Type is the schedule type of a collection. It selects the default seed list.
type Type string

const (
	Normal Type = "normal"
	Work   Type = "work"
)

// Key identifies one of the four slot collections.
type Key string

const (
	TodayNormal    Key = "todayNormal"
	TodayWork      Key = "todayWork"
	TomorrowNormal Key = "tomorrowNormal"
	TomorrowWork   Key = "tomorrowWork"
)

// Keys returns the four collection keys in display order.
func Keys() []Key {
	return []Key{TodayNormal, TodayWork, TomorrowNormal, TomorrowWork}
}

// KeyFor builds the collection key for a day and schedule type.
func KeyFor(day Day, typ Type) Key {
	switch {
	case day == Today && typ == Normal:
		return TodayNormal
	case day == Today && typ == Work:
		return TodayWork
	case day == Tomorrow && typ == Normal:
		return TomorrowNormal
	case day == Tomorrow && typ == Work:
		return TomorrowWork
	}
	return ""
}

// ParseKey accepts the canonical key ("todayNormal") as well as the
// separated spellings used on the command line ("today_normal",
// "today-normal", "today/normal").
func ParseKey(value string) (Key, error) {
	trimmed := strings.TrimSpace(value)
	for _, key := range Keys() {
		if strings.EqualFold(trimmed, string(key)) {
			return key, nil
		}
	}
	normalized := strings.ToLower(trimmed)
	for _, sep := range []string{"_", "-", "/", " "} {
		day, typ, ok := strings.Cut(normalized, sep)
		if !ok {
			continue
		}
		if key := KeyFor(Day(day), Type(typ)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, value)
}

// Valid reports whether k is one of the four collection keys.
func (k Key) Valid() bool {
	switch k {
	case TodayNormal, TodayWork, TomorrowNormal, TomorrowWork:
		return true
	}
	return false
}

// Day returns the day context of k.
func (k Key) Day() Day {
	switch k {
	case TodayNormal, TodayWork:
		return Today
	case TomorrowNormal, TomorrowWork:
		return Tomorrow
	}
	return ""
}

// Type returns the schedule type of k.
func (k Key) Type() Type {
	switch k {
	case TodayNormal, TomorrowNormal:
		return Normal
	case TodayWork, TomorrowWork:
		return Work
	}
	return ""
}

// Field names an editable slot field.
type Field string

const (
	FieldTime  Field = "time"
	FieldTitle Field = "title"
	FieldDesc  Field = "desc"
)

// ParseField validates a field name.
func ParseField(value string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(value))); f {
	case FieldTime, FieldTitle, FieldDesc:
		return f, nil
	case "description":
		return FieldDesc, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, value)
}

func (s *Slot) set(field Field, value string) error {
	switch field {
	case FieldTime:
		s.Time = value
	case FieldTitle:
		s.Title = value
	case FieldDesc:
		s.Desc = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}
