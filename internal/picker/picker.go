// Package picker implements the two-step clock face time range picker.
//
// A Picker walks (start, hour) → (start, minute) → (end, hour) →
// (end, minute) and then reports Ready. Back reverses one step at a time.
// Host keeps at most one open picker and owns its dismiss listeners.
package picker

import (
	"fmt"

	"streamsched/internal/schedule"
)

// Step is the half of the range being edited.
type Step string

const (
	StepStart Step = "start"
	StepEnd   Step = "end"
)

// Mode is the clock hand being chosen.
type Mode string

const (
	ModeHour   Mode = "hour"
	ModeMinute Mode = "minute"
)

// FallbackRange seeds the picker when the slot's time cannot be parsed.
const FallbackRange = "9:30 AM - 12:30 PM"

// State is the (step, mode) position of the picker.
type State struct {
	Step Step
	Mode Mode
}

func (s State) String() string {
	return fmt.Sprintf("(%s, %s)", s.Step, s.Mode)
}

// Picker is the state machine. The zero value is not usable; call New.
type Picker struct {
	state State
	start schedule.ClockTime
	end   schedule.ClockTime
	ready bool
}

// New seeds a picker from a slot time string, falling back to FallbackRange.
func New(value string) *Picker {
	start, end, err := schedule.ParseRange(value)
	if err != nil {
		start, end, _ = schedule.ParseRange(FallbackRange)
	}
	return &Picker{
		state: State{Step: StepStart, Mode: ModeHour},
		start: start,
		end:   end,
	}
}

// State returns the current (step, mode).
func (p *Picker) State() State { return p.state }

// Start returns the working start time.
func (p *Picker) Start() schedule.ClockTime { return p.start }

// End returns the working end time.
func (p *Picker) End() schedule.ClockTime { return p.end }

// Ready reports whether the end minute was chosen and apply should be offered.
func (p *Picker) Ready() bool { return p.ready }

// Current returns the working value for the current step.
func (p *Picker) Current() schedule.ClockTime {
	if p.state.Step == StepEnd {
		return p.end
	}
	return p.start
}

func (p *Picker) setCurrent(c schedule.ClockTime) {
	if p.state.Step == StepEnd {
		p.end = c
		return
	}
	p.start = c
}

// SelectHour sets the hour of the current step and moves to minute mode.
func (p *Picker) SelectHour(hour int) error {
	if p.state.Mode != ModeHour {
		return fmt.Errorf("select hour in %s", p.state)
	}
	if hour < 1 || hour > 12 {
		return fmt.Errorf("hour %d out of range 1-12", hour)
	}
	current := p.Current()
	current.Hour = hour
	p.setCurrent(current)
	p.state.Mode = ModeMinute
	return nil
}

// SelectMinute sets the minute of the current step. From the start step it
// moves to (end, hour); from the end step it marks the picker ready.
func (p *Picker) SelectMinute(minute int) error {
	if p.state.Mode != ModeMinute {
		return fmt.Errorf("select minute in %s", p.state)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("minute %d out of range 0-59", minute)
	}
	current := p.Current()
	current.Minute = minute
	p.setCurrent(current)
	if p.state.Step == StepStart {
		p.state = State{Step: StepEnd, Mode: ModeHour}
		return nil
	}
	p.ready = true
	return nil
}

// CanGoBack reports whether Back would move.
func (p *Picker) CanGoBack() bool {
	return p.state != State{Step: StepStart, Mode: ModeHour}
}

// Back reverses the last forward transition. Working values are kept.
func (p *Picker) Back() {
	p.ready = false
	switch p.state {
	case State{Step: StepEnd, Mode: ModeMinute}:
		p.state.Mode = ModeHour
	case State{Step: StepEnd, Mode: ModeHour}:
		p.state = State{Step: StepStart, Mode: ModeMinute}
	case State{Step: StepStart, Mode: ModeMinute}:
		p.state.Mode = ModeHour
	}
}

// ToggleMeridiem flips AM/PM of the current step's value only.
func (p *Picker) ToggleMeridiem() {
	current := p.Current()
	current.Meridiem = current.Meridiem.Toggle()
	p.setCurrent(current)
}

// Value formats the working range as a slot time string.
func (p *Picker) Value() string {
	return schedule.FormatRange(p.start, p.end)
}
