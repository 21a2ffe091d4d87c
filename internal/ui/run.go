package ui

import (
	"context"
	"fmt"

	"github.com/aschey/stopwatch/internal/stopwatch"
	tea "github.com/charmbracelet/bubbletea"
)

func Run(ctx context.Context, controller Controller, snapshots <-chan stopwatch.Snapshot, altScreen bool) error {
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if _, err := tea.NewProgram(New(ctx, controller, snapshots), opts...).Run(); err != nil {
		return fmt.Errorf("run stopwatch ui: %w", err)
	}
	return nil
}
