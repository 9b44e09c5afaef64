package schedule_test

import (
	"testing"

	"streamsched/internal/schedule"
)

func TestDeriveNext(t *testing.T) {
	tests := []struct {
		name string
		last string
		want string
	}{
		{"afternoon", "1:00 PM - 4:00 PM", "4:30 PM - 7:30 PM"},
		{"minute overflow wraps midnight", "9:00 PM - 11:30 PM", "12:00 AM - 3:00 AM"},
		{"midnight end", "9:00 PM - 12:00 AM", "12:30 AM - 3:30 AM"},
		{"noon end", "9:30 AM - 12:00 PM", "12:30 PM - 3:30 PM"},
		{"end crosses to pm", "8:00 AM - 10:45 AM", "11:15 AM - 2:15 PM"},
		{"late start wraps end", "6:00 PM - 9:00 PM", "9:30 PM - 12:30 AM"},
		{"unmatched", "whenever", schedule.DefaultNewSlotTime},
		{"empty", "", schedule.DefaultNewSlotTime},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := schedule.DeriveNext(tc.last); got != tc.want {
				t.Fatalf("DeriveNext(%q) = %q, want %q", tc.last, got, tc.want)
			}
		})
	}
}

func TestNextSlotTimeUsesLastSlot(t *testing.T) {
	if got := schedule.NextSlotTime(nil); got != "2:00 PM - 5:00 PM" {
		t.Fatalf("empty collection: got %q", got)
	}
	slots := []schedule.Slot{
		{Time: "whenever"},
		{Time: "1:00 PM - 4:00 PM"},
	}
	if got := schedule.NextSlotTime(slots); got != "4:30 PM - 7:30 PM" {
		t.Fatalf("unexpected derived time: %q", got)
	}
}
