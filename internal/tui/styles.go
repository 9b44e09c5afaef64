package tui

import (
	"github.com/charmbracelet/lipgloss"

	"streamsched/internal/view"
)

const (
	colorOK      = "82"
	colorWarn    = "226"
	colorError   = "196"
	colorNeutral = "86"
)

var (
	tabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("236")).
			PaddingLeft(1).
			PaddingRight(1)

	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			PaddingLeft(1).
			PaddingRight(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	actionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	fieldStyle        = lipgloss.NewStyle().PaddingRight(1)
	focusedFieldStyle = lipgloss.NewStyle().
				PaddingRight(1).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	modalStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("57")).
			Padding(0, 1)

	markStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	hoverStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	chosenStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("82"))
	confirmStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226"))
)

var accentStyles = map[string]lipgloss.Style{
	view.AccentToday:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("213")),
	view.AccentTomorrow: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45")),
}
