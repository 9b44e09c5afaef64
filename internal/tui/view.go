package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"streamsched/internal/picker"
	"streamsched/internal/schedule"
	"streamsched/internal/view"
)

const faceRadius = 4.0

var tabLabels = map[schedule.Key]string{
	schedule.TodayNormal:    "Today Normal",
	schedule.TodayWork:      "Today Work",
	schedule.TomorrowNormal: "Tomorrow Normal",
	schedule.TomorrowWork:   "Tomorrow Work",
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")

	if p, _, open := m.host.Active(); open {
		b.WriteString(m.renderPicker(p))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows())
		if m.confirming {
			b.WriteString("\n")
			b.WriteString(confirmStyle.Render(schedule.DeletePrompt + " (y/n)"))
			b.WriteString("\n")
		}
	}

	if status := m.Status(); status != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(m.statusColor)).Render(status))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(schedule.Keys()))
	for i, key := range schedule.Keys() {
		label := fmt.Sprintf("%d %s", i+1, tabLabels[key])
		if i == m.activeTab {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderRows() string {
	key := m.Key()
	var b strings.Builder
	accent := accentStyles[view.AccentFor(key.Day())]
	b.WriteString(accent.Render(tabLabels[key]))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(mutedStyle.Render("  No stream slots. Press a to add one."))
		b.WriteString("\n")
		return b.String()
	}

	for i, row := range m.rows {
		marker := "  "
		if i == m.cursor {
			marker = actionStyle.Render("› ")
		}
		cells := make([]string, 0, len(fields))
		for f, field := range fields {
			cells = append(cells, m.renderCell(row, i, f, field))
		}
		b.WriteString(marker)
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d.", row.Position)))
		b.WriteString(" ")
		b.WriteString(strings.Join(cells, mutedStyle.Render("│ ")))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderCell(row view.EditorRow, index, f int, field schedule.Field) string {
	focused := index == m.cursor && f == m.field
	if focused && m.editing {
		return m.input.View() + " "
	}
	value := fieldValue(row, field)
	if value == "" {
		value = "-"
	}
	if field == schedule.FieldTime && row.TimeInput == view.VariantPicker {
		value = "⏱ " + value
	}
	if focused {
		return focusedFieldStyle.Render(value)
	}
	return fieldStyle.Render(value)
}

func (m Model) renderPicker(p *picker.Picker) string {
	state := p.State()
	var b strings.Builder
	start := p.Start().String()
	end := p.End().String()
	if state.Step == picker.StepStart {
		start = chosenStyle.Render(start)
	} else {
		end = chosenStyle.Render(end)
	}
	b.WriteString(headerStyle.Render("Set time"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Start %s   End %s\n", start, end))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("Choosing %s %s", state.Step, state.Mode)))
	b.WriteString("\n\n")
	b.WriteString(renderFace(p, m.hover))
	if p.Ready() {
		b.WriteString("\n")
		b.WriteString(chosenStyle.Render(p.Value()))
	}
	return modalStyle.Render(b.String())
}

// renderFace lays the picker's marks out on a character grid. Columns are
// doubled so the face looks round in a terminal.
func renderFace(p *picker.Picker, hover int) string {
	width := int(faceRadius*4) + 5
	height := int(faceRadius*2) + 1
	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for i, mark := range p.Face(faceRadius) {
		row := int(math.Round(mark.Y)) + height/2
		col := int(math.Round(mark.X*2)) + width/2 - len(mark.Label)/2
		if row < 0 || row >= height || col < 0 || col+len(mark.Label) > width {
			continue
		}
		style := markStyle
		switch {
		case i == hover:
			style = hoverStyle
		case mark.Selected:
			style = chosenStyle
		}
		grid[row][col] = style.Render(mark.Label)
		for k := 1; k < len(mark.Label); k++ {
			grid[row][col+k] = ""
		}
	}

	lines := make([]string, height)
	for r := range grid {
		lines[r] = strings.Join(grid[r], "")
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderHelp() string {
	type binding struct{ key, action string }
	var bindings []binding
	switch {
	case m.pickerOpen():
		bindings = []binding{{"←/→", "move"}, {"enter", "select/apply"}, {"m", "AM/PM"}, {"backspace", "back"}, {"esc", "cancel"}}
	case m.confirming:
		bindings = []binding{{"y", "delete"}, {"n", "keep"}}
	case m.editing:
		bindings = []binding{{"type", "autosaves"}, {"tab", "next field"}, {"enter/esc", "done"}}
	default:
		bindings = []binding{{"1-4", "collection"}, {"↑/↓", "slot"}, {"tab", "field"}, {"enter", "edit"}, {"a", "add"}, {"d", "delete"}, {"q", "quit"}}
	}
	parts := make([]string, 0, len(bindings))
	for _, bind := range bindings {
		parts = append(parts, keyStyle.Render(bind.key)+" "+mutedStyle.Render(bind.action))
	}
	return strings.Join(parts, mutedStyle.Render(" • "))
}

func (m Model) pickerOpen() bool {
	_, _, open := m.host.Active()
	return open
}

// outsideModal reports whether screen row y falls outside the picker box.
func (m Model) outsideModal(y int) bool {
	p, _, open := m.host.Active()
	if !open {
		return false
	}
	top := lipgloss.Height(m.renderTabs()) + 1
	bottom := top + lipgloss.Height(m.renderPicker(p))
	return y < top || y >= bottom
}
