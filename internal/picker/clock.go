package picker

import (
	"math"
	"strconv"
)

// Mark is one position on the clock face. X grows to the right and Y grows
// downward from the center, so 12 sits at (0, -radius).
type Mark struct {
	Value    int
	Label    string
	Angle    float64 // degrees clockwise from 12 o'clock
	X, Y     float64
	Selected bool
}

// HourMarks places 1..12 at 30° steps with 12 at the top. selected marks the
// chosen hour; pass 0 for none.
func HourMarks(radius float64, selected int) []Mark {
	marks := make([]Mark, 0, 12)
	for hour := 1; hour <= 12; hour++ {
		marks = append(marks, mark(hour, strconv.Itoa(hour), float64(hour%12)*30, radius, hour == selected))
	}
	return marks
}

// MinuteMarks places 0..55 in steps of 5 at 30° steps with 0 at the top.
// selected marks the chosen minute; pass -1 for none.
func MinuteMarks(radius float64, selected int) []Mark {
	marks := make([]Mark, 0, 12)
	for minute := 0; minute < 60; minute += 5 {
		label := strconv.Itoa(minute)
		if minute < 10 {
			label = "0" + label
		}
		marks = append(marks, mark(minute, label, float64(minute/5)*30, radius, minute == selected))
	}
	return marks
}

// Face returns the marks for the picker's current mode with the current value selected.
func (p *Picker) Face(radius float64) []Mark {
	current := p.Current()
	if p.state.Mode == ModeMinute {
		return MinuteMarks(radius, current.Minute)
	}
	return HourMarks(radius, current.Hour)
}

func mark(value int, label string, angle, radius float64, selected bool) Mark {
	rad := angle * math.Pi / 180
	return Mark{
		Value:    value,
		Label:    label,
		Angle:    angle,
		X:        round(radius * math.Sin(rad)),
		Y:        round(-radius * math.Cos(rad)),
		Selected: selected,
	}
}

func round(v float64) float64 {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		return 0
	}
	return r
}
