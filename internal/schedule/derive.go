package schedule

const (
	// DefaultNewSlotTime is used for a new slot when the previous slot's end
	// time cannot be read.
	DefaultNewSlotTime = "2:00 PM - 5:00 PM"

	newSlotGapMinutes = 30
	newSlotSpanHours  = 3
)

// NextSlotTime derives the default time window for a slot appended to slots.
func NextSlotTime(slots []Slot) string {
	if len(slots) == 0 {
		return DefaultNewSlotTime
	}
	return DeriveNext(slots[len(slots)-1].Time)
}

// DeriveNext starts 30 minutes after the end of lastTime and runs for three
// hours. Unparseable input yields DefaultNewSlotTime.
func DeriveNext(lastTime string) string {
	end, ok := parseEnd(lastTime)
	if !ok {
		return DefaultNewSlotTime
	}

	hour := end.Hour24()
	minute := end.Minute + newSlotGapMinutes
	if minute >= 60 {
		minute -= 60
		hour++
	}
	hour %= 24

	start := FromHour24(hour, minute)
	finish := FromHour24(hour+newSlotSpanHours, minute)
	return FormatRange(start, finish)
}
