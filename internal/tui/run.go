package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the editor until the user quits or ctx is cancelled.
func Run(ctx context.Context, backend Backend, opts Options) error {
	program := tea.NewProgram(
		New(ctx, backend, opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run editor: %w", err)
	}
	return nil
}
