package schedule

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Meridiem is the AM/PM half of a 12-hour clock time.
type Meridiem string

const (
	AM Meridiem = "AM"
	PM Meridiem = "PM"
)

// Toggle returns the opposite meridiem.
func (m Meridiem) Toggle() Meridiem {
	if m == PM {
		return AM
	}
	return PM
}

// ClockTime is a 12-hour wall clock time: Hour 1-12, Minute 0-59.
type ClockTime struct {
	Hour     int
	Minute   int
	Meridiem Meridiem
}

// String formats the time as "H:MM AM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%d:%02d %s", c.Hour, c.Minute, c.Meridiem)
}

// Valid reports whether the fields are within 12-hour clock bounds.
func (c ClockTime) Valid() bool {
	return c.Hour >= 1 && c.Hour <= 12 &&
		c.Minute >= 0 && c.Minute <= 59 &&
		(c.Meridiem == AM || c.Meridiem == PM)
}

// Hour24 converts to a 0-23 hour: 12 AM is 0, 12 PM stays 12.
func (c ClockTime) Hour24() int {
	hour := c.Hour % 12
	if c.Meridiem == PM {
		hour += 12
	}
	return hour
}

// FromHour24 converts a 0-23 hour and a minute back to 12-hour form.
func FromHour24(hour, minute int) ClockTime {
	hour = ((hour % 24) + 24) % 24
	meridiem := AM
	if hour >= 12 {
		meridiem = PM
	}
	display := hour
	switch {
	case display == 0:
		display = 12
	case display > 12:
		display -= 12
	}
	return ClockTime{Hour: display, Minute: minute, Meridiem: meridiem}
}

const clockPattern = `(\d{1,2}):(\d{2})\s*([AaPp][Mm])`

var (
	rangeRE = regexp.MustCompile(`^\s*` + clockPattern + `\s*-\s*` + clockPattern + `\s*$`)
	endRE   = regexp.MustCompile(`-\s*` + clockPattern)
)

// ParseRange parses "H:MM AM|PM - H:MM AM|PM" into its start and end.
func ParseRange(value string) (ClockTime, ClockTime, error) {
	match := rangeRE.FindStringSubmatch(value)
	if match == nil {
		return ClockTime{}, ClockTime{}, fmt.Errorf("%w: %q", ErrTimeFormat, value)
	}
	start, err := clockFromParts(match[1], match[2], match[3], value)
	if err != nil {
		return ClockTime{}, ClockTime{}, err
	}
	end, err := clockFromParts(match[4], match[5], match[6], value)
	if err != nil {
		return ClockTime{}, ClockTime{}, err
	}
	return start, end, nil
}

// FormatRange renders a start/end pair in the persisted display form.
func FormatRange(start, end ClockTime) string {
	return start.String() + " - " + end.String()
}

// parseEnd extracts the end time of a range, matching "- H:MM AM|PM"
// anywhere in the string.
func parseEnd(value string) (ClockTime, bool) {
	matches := endRE.FindAllStringSubmatch(value, -1)
	if len(matches) == 0 {
		return ClockTime{}, false
	}
	last := matches[len(matches)-1]
	end, err := clockFromParts(last[1], last[2], last[3], value)
	if err != nil {
		return ClockTime{}, false
	}
	return end, true
}

func clockFromParts(hourText, minuteText, meridiemText, raw string) (ClockTime, error) {
	hour, err := strconv.Atoi(hourText)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrTimeFormat, raw)
	}
	minute, err := strconv.Atoi(minuteText)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrTimeFormat, raw)
	}
	clock := ClockTime{Hour: hour, Minute: minute, Meridiem: Meridiem(strings.ToUpper(meridiemText))}
	if !clock.Valid() {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrTimeFormat, raw)
	}
	return clock, nil
}
