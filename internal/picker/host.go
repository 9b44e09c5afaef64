package picker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"streamsched/internal/logging"
	"streamsched/internal/schedule"
)

// Dismiss events a host listens for while a picker is open.
const (
	EventOutsideClick = "outside-click"
	EventEscape       = "escape"
)

// ErrNotOpen is returned by Apply when no picker is open.
var ErrNotOpen = errors.New("time picker is not open")

// Writer receives the applied time. schedule.Store satisfies it.
type Writer interface {
	UpdateFieldByID(ctx context.Context, key schedule.Key, id string, field schedule.Field, value string) error
}

// Target identifies the slot whose time field opened the picker.
type Target struct {
	Key    schedule.Key
	SlotID string
}

type listener struct {
	event string
	fn    func()
}

// Host keeps at most one open picker. Opening a picker closes the previous
// one, and closing removes every listener the session registered.
type Host struct {
	mu        sync.Mutex
	writer    Writer
	logger    *slog.Logger
	picker    *Picker
	target    Target
	listeners []listener
	session   int
}

// NewHost builds a host that applies through writer.
func NewHost(writer Writer, logger *slog.Logger) *Host {
	return &Host{writer: writer, logger: logging.NewComponentLogger(logger, "time-picker")}
}

// Open tears down any open picker and opens a new one seeded from value.
func (h *Host) Open(target Target, value string) *Picker {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closeLocked()
	h.session++
	h.picker = New(value)
	h.target = target
	session := h.session
	dismiss := func() { h.cancelSession(session) }
	h.addListenerLocked(EventOutsideClick, dismiss)
	h.addListenerLocked(EventEscape, dismiss)

	h.logger.Debug("picker opened",
		logging.String(logging.FieldCollection, string(target.Key)),
		logging.String(logging.FieldSlotID, target.SlotID),
	)
	return h.picker
}

// Active returns the open picker and its target.
func (h *Host) Active() (*Picker, Target, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.picker == nil {
		return nil, Target{}, false
	}
	return h.picker, h.target, true
}

// Apply writes the working range to the target slot and closes the picker.
// The picker stays open when the write fails so the user can retry.
func (h *Host) Apply(ctx context.Context) (string, error) {
	h.mu.Lock()
	if h.picker == nil {
		h.mu.Unlock()
		return "", ErrNotOpen
	}
	value := h.picker.Value()
	target := h.target
	session := h.session
	h.mu.Unlock()

	if h.writer != nil {
		if err := h.writer.UpdateFieldByID(ctx, target.Key, target.SlotID, schedule.FieldTime, value); err != nil {
			return "", err
		}
	}

	h.mu.Lock()
	if h.session == session {
		h.closeLocked()
	}
	h.mu.Unlock()
	return value, nil
}

// Cancel closes the picker without writing.
func (h *Host) Cancel() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked()
}

// Emit delivers a dismiss event to the registered listeners.
func (h *Host) Emit(event string) {
	h.mu.Lock()
	var handlers []func()
	for _, l := range h.listeners {
		if l.event == event {
			handlers = append(handlers, l.fn)
		}
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn()
	}
}

// ListenerCount returns the number of registered dismiss listeners.
func (h *Host) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}

func (h *Host) cancelSession(session int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.session == session {
		h.closeLocked()
	}
}

func (h *Host) addListenerLocked(event string, fn func()) {
	h.listeners = append(h.listeners, listener{event: event, fn: fn})
}

func (h *Host) closeLocked() {
	if h.picker == nil {
		return
	}
	h.picker = nil
	h.target = Target{}
	h.listeners = nil
	h.logger.Debug("picker closed")
}
