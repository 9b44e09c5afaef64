// Package tui is the interactive slot editor behind "streamsched edit".
//
// Every keystroke in a title, description or free-text time field is saved
// immediately through the Backend. Adding or deleting a slot rebuilds the
// rows of the active collection; field edits never do, so the focused input
// keeps its cursor.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"streamsched/internal/logging"
	"streamsched/internal/picker"
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

// Backend is the slot store the editor writes through. *schedule.Store
// satisfies it.
type Backend interface {
	Slots(key schedule.Key) []schedule.Slot
	AddSlot(ctx context.Context, key schedule.Key) (schedule.Slot, error)
	DeleteSlotByID(ctx context.Context, key schedule.Key, id string, confirm schedule.Confirmer) error
	UpdateFieldByID(ctx context.Context, key schedule.Key, id string, field schedule.Field, value string) error
}

// Options tunes the editor.
type Options struct {
	Variant view.Variant
	Logger  *slog.Logger
	Now     func() time.Time
}

// LastSlotNotice is shown when delete is pressed on a collection's only slot.
const LastSlotNotice = "You must have at least one stream slot!"

const statusTTL = 3 * time.Second

var fields = []schedule.Field{schedule.FieldTime, schedule.FieldTitle, schedule.FieldDesc}

// Model is the bubbletea model of the editor.
type Model struct {
	ctx     context.Context
	backend Backend
	host    *picker.Host
	variant view.Variant
	logger  *slog.Logger
	now     func() time.Time

	activeTab int
	rows      []view.EditorRow
	cursor    int
	field     int

	editing    bool
	input      textinput.Model
	confirming bool
	hover      int

	statusMsg    string
	statusColor  string
	statusExpiry time.Time
	width        int
	height       int
}

// New builds an editor on the first collection.
func New(ctx context.Context, backend Backend, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	variant := opts.Variant
	if variant == "" {
		variant = view.VariantPicker
	}
	m := Model{
		ctx:         ctx,
		backend:     backend,
		host:        picker.NewHost(backend, opts.Logger),
		variant:     variant,
		logger:      logging.NewComponentLogger(opts.Logger, "editor"),
		now:         now,
		statusColor: colorNeutral,
	}
	m.reload()
	if w, ok := backend.(interface{ LoadWarning() error }); ok {
		if err := w.LoadWarning(); err != nil {
			m.setStatus("Stored schedule unreadable; editing defaults", colorWarn)
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Key returns the collection on the active tab.
func (m Model) Key() schedule.Key {
	return schedule.Keys()[m.activeTab]
}

// Rows returns the editor rows of the active collection.
func (m Model) Rows() []view.EditorRow {
	return m.rows
}

// Cursor returns the focused row and field.
func (m Model) Cursor() (int, schedule.Field) {
	return m.cursor, fields[m.field]
}

// Editing reports whether a text field is being edited.
func (m Model) Editing() bool { return m.editing }

// Confirming reports whether a delete prompt is showing.
func (m Model) Confirming() bool { return m.confirming }

// Picker returns the open time picker, if any.
func (m Model) Picker() (*picker.Picker, bool) {
	p, _, ok := m.host.Active()
	return p, ok
}

// Status returns the status line while it has not expired.
func (m Model) Status() string {
	if m.statusMsg == "" || !m.now().Before(m.statusExpiry) {
		return ""
	}
	return m.statusMsg
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.MouseMsg:
		if _, _, open := m.host.Active(); open && msg.Action == tea.MouseActionPress && m.outsideModal(msg.Y) {
			m.host.Emit(picker.EventOutsideClick)
			m.setStatus("Time unchanged", colorNeutral)
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.host.Cancel()
			return m, tea.Quit
		}
		if p, _, open := m.host.Active(); open {
			return m.handlePickerKeys(p, msg)
		}
		if m.confirming {
			return m.handleConfirmKeys(msg)
		}
		if m.editing {
			return m.handleEditingKeys(msg)
		}

		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "1", "2", "3", "4":
			m.selectTab(int(msg.String()[0] - '1'))
		case "left":
			m.selectTab((m.activeTab + len(schedule.Keys()) - 1) % len(schedule.Keys()))
		case "right":
			m.selectTab((m.activeTab + 1) % len(schedule.Keys()))
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case "tab":
			m.field = (m.field + 1) % len(fields)
		case "shift+tab":
			m.field = (m.field - 1 + len(fields)) % len(fields)
		case "enter", "e":
			return m.activate()
		case "a", "n":
			m.addSlot()
		case "d", "delete":
			m.requestDelete()
		}
	}
	return m, nil
}

func (m Model) handleEditingKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "tab", "shift+tab":
		m.editing = false
		m.input.Blur()
		if msg.String() == "tab" {
			m.field = (m.field + 1) % len(fields)
		} else {
			m.field = (m.field - 1 + len(fields)) % len(fields)
		}
		return m.activate()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before {
		m.save(after)
	}
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirming = false
		m.deleteCurrent()
	case "n", "N", "esc":
		m.confirming = false
		m.setStatus("Delete cancelled", colorNeutral)
	}
	return m, nil
}

func (m Model) handlePickerKeys(p *picker.Picker, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.host.Emit(picker.EventEscape)
		m.setStatus("Time unchanged", colorNeutral)
	case "left", "h", "up", "k":
		m.hover = (m.hover + 11) % 12
	case "right", "l", "down", "j":
		m.hover = (m.hover + 1) % 12
	case "m":
		p.ToggleMeridiem()
	case "backspace":
		if p.CanGoBack() {
			p.Back()
			m.hover = hoverIndex(p)
		}
	case "enter", " ":
		if p.Ready() {
			m.applyPicker()
			return m, nil
		}
		m.selectHover(p)
	}
	return m, nil
}

func (m Model) activate() (tea.Model, tea.Cmd) {
	row, ok := m.currentRow()
	if !ok {
		return m, nil
	}
	field := fields[m.field]
	if field == schedule.FieldTime && m.variant == view.VariantPicker {
		p := m.host.Open(picker.Target{Key: m.Key(), SlotID: row.SlotID}, row.Time)
		m.hover = hoverIndex(p)
		return m, nil
	}

	m.input = textinput.New()
	m.input.Prompt = ""
	m.input.CharLimit = 256
	m.input.SetValue(fieldValue(row, field))
	m.editing = true
	cmd := m.input.Focus()
	return m, cmd
}

func (m *Model) selectTab(tab int) {
	if tab < 0 || tab >= len(schedule.Keys()) || tab == m.activeTab {
		return
	}
	m.activeTab = tab
	m.cursor = 0
	m.reload()
}

func (m *Model) reload() {
	key := m.Key()
	m.rows = view.EditorRows(key, m.backend.Slots(key), m.variant)
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) currentRow() (view.EditorRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return view.EditorRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) save(value string) {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	field := fields[m.field]
	if err := m.backend.UpdateFieldByID(m.ctx, m.Key(), row.SlotID, field, value); err != nil {
		m.logger.Warn("save field failed",
			logging.String(logging.FieldCollection, string(m.Key())),
			logging.String(logging.FieldSlotID, row.SlotID),
			logging.Error(err),
		)
		m.setStatus("Save failed: "+err.Error(), colorError)
		return
	}
	setFieldValue(&m.rows[m.cursor], field, value)
}

func (m *Model) addSlot() {
	slot, err := m.backend.AddSlot(m.ctx, m.Key())
	if err != nil {
		m.setStatus("Add failed: "+err.Error(), colorError)
		return
	}
	m.reload()
	for i, row := range m.rows {
		if row.SlotID == slot.ID {
			m.cursor = i
		}
	}
	m.setStatus("Added slot "+slot.Time, colorOK)
}

func (m *Model) requestDelete() {
	if _, ok := m.currentRow(); !ok {
		return
	}
	if len(m.rows) <= 1 {
		m.setStatus(LastSlotNotice, colorWarn)
		return
	}
	m.confirming = true
}

func (m *Model) deleteCurrent() {
	row, ok := m.currentRow()
	if !ok {
		return
	}
	err := m.backend.DeleteSlotByID(m.ctx, m.Key(), row.SlotID, schedule.AlwaysConfirm)
	switch {
	case errors.Is(err, schedule.ErrLastSlot):
		m.setStatus(LastSlotNotice, colorWarn)
		return
	case err != nil:
		m.setStatus("Delete failed: "+err.Error(), colorError)
		m.reload()
		return
	}
	m.reload()
	m.setStatus("Slot deleted", colorOK)
}

func (m *Model) selectHover(p *picker.Picker) {
	marks := p.Face(1)
	if m.hover < 0 || m.hover >= len(marks) {
		return
	}
	value := marks[m.hover].Value
	var err error
	if p.State().Mode == picker.ModeHour {
		err = p.SelectHour(value)
	} else {
		err = p.SelectMinute(value)
	}
	if err != nil {
		m.setStatus(err.Error(), colorError)
		return
	}
	m.hover = hoverIndex(p)
}

func (m *Model) applyPicker() {
	value, err := m.host.Apply(m.ctx)
	if err != nil {
		m.setStatus("Save failed: "+err.Error(), colorError)
		return
	}
	if m.cursor < len(m.rows) {
		m.rows[m.cursor].Time = value
	}
	m.setStatus("Time set to "+value, colorOK)
}

func (m *Model) setStatus(msg, color string) {
	m.statusMsg = msg
	m.statusColor = color
	m.statusExpiry = m.now().Add(statusTTL)
}

// hoverIndex is the position of the picker's current value on its face.
func hoverIndex(p *picker.Picker) int {
	for i, mark := range p.Face(1) {
		if mark.Selected {
			return i
		}
	}
	return 0
}

func fieldValue(row view.EditorRow, field schedule.Field) string {
	switch field {
	case schedule.FieldTime:
		return row.Time
	case schedule.FieldTitle:
		return row.Title
	default:
		return row.Desc
	}
}

func setFieldValue(row *view.EditorRow, field schedule.Field, value string) {
	switch field {
	case schedule.FieldTime:
		row.Time = value
	case schedule.FieldTitle:
		row.Title = value
	default:
		row.Desc = value
	}
}
