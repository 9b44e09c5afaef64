package schedule_test

import (
	"errors"
	"testing"

	"streamsched/internal/schedule"
)

func TestParseRangeRoundTrip(t *testing.T) {
	for _, value := range []string{
		"9:30 AM - 12:30 PM",
		"12:00 AM - 3:00 AM",
		"11:05 PM - 2:05 AM",
		"1:00 PM - 4:00 PM",
	} {
		start, end, err := schedule.ParseRange(value)
		if err != nil {
			t.Fatalf("ParseRange(%q) returned error: %v", value, err)
		}
		if got := schedule.FormatRange(start, end); got != value {
			t.Fatalf("round trip mismatch: got %q want %q", got, value)
		}
	}
}

func TestParseRangeEveryClockTime(t *testing.T) {
	for _, meridiem := range []schedule.Meridiem{schedule.AM, schedule.PM} {
		for hour := 1; hour <= 12; hour++ {
			for minute := 0; minute < 60; minute++ {
				start := schedule.ClockTime{Hour: hour, Minute: minute, Meridiem: meridiem}
				end := schedule.FromHour24((start.Hour24()+3)%24, minute)
				value := schedule.FormatRange(start, end)

				gotStart, gotEnd, err := schedule.ParseRange(value)
				if err != nil {
					t.Fatalf("ParseRange(%q) returned error: %v", value, err)
				}
				if gotStart != start || gotEnd != end {
					t.Fatalf("ParseRange(%q) = %v, %v", value, gotStart, gotEnd)
				}
				if got := schedule.FormatRange(gotStart, gotEnd); got != value {
					t.Fatalf("round trip mismatch: got %q want %q", got, value)
				}
				if back := schedule.FromHour24(start.Hour24(), minute); back != start {
					t.Fatalf("FromHour24(%d, %d) = %v, want %v", start.Hour24(), minute, back, start)
				}
			}
		}
	}
}

func TestParseRangeNormalizesCaseAndSpacing(t *testing.T) {
	start, end, err := schedule.ParseRange(" 9:30am-12:30 pm ")
	if err != nil {
		t.Fatalf("ParseRange returned error: %v", err)
	}
	if got := schedule.FormatRange(start, end); got != "9:30 AM - 12:30 PM" {
		t.Fatalf("unexpected normalized range: %q", got)
	}
}

func TestParseRangeRejectsInvalid(t *testing.T) {
	for _, value := range []string{"", "noon", "13:00 PM - 2:00 PM", "9:75 AM - 10:00 AM", "9:30 AM"} {
		if _, _, err := schedule.ParseRange(value); !errors.Is(err, schedule.ErrTimeFormat) {
			t.Fatalf("ParseRange(%q): expected ErrTimeFormat, got %v", value, err)
		}
	}
}

func TestHour24Conversion(t *testing.T) {
	tests := []struct {
		clock schedule.ClockTime
		want  int
	}{
		{schedule.ClockTime{Hour: 12, Minute: 0, Meridiem: schedule.AM}, 0},
		{schedule.ClockTime{Hour: 12, Minute: 0, Meridiem: schedule.PM}, 12},
		{schedule.ClockTime{Hour: 1, Minute: 0, Meridiem: schedule.PM}, 13},
		{schedule.ClockTime{Hour: 11, Minute: 0, Meridiem: schedule.AM}, 11},
	}
	for _, tc := range tests {
		if got := tc.clock.Hour24(); got != tc.want {
			t.Fatalf("%s: got %d want %d", tc.clock, got, tc.want)
		}
		back := schedule.FromHour24(tc.want, tc.clock.Minute)
		if back != tc.clock {
			t.Fatalf("FromHour24(%d): got %v want %v", tc.want, back, tc.clock)
		}
	}
}

func TestMeridiemToggle(t *testing.T) {
	if schedule.AM.Toggle() != schedule.PM || schedule.PM.Toggle() != schedule.AM {
		t.Fatal("toggle should flip AM and PM")
	}
}
