package ui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows model full-screen until the wizard closes or ctx ends, and returns
// the final model.
func Run(ctx context.Context, model Model, in io.Reader, out io.Writer) (Model, error) {
	opts := []tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	}
	if in != nil {
		opts = append(opts, tea.WithInput(in))
	}
	if out != nil {
		opts = append(opts, tea.WithOutput(out))
	}
	final, err := tea.NewProgram(model, opts...).Run()
	if m, ok := final.(Model); ok {
		model = m
	}
	if err != nil {
		return model, fmt.Errorf("run terminal ui: %w", err)
	}
	return model, nil
}
