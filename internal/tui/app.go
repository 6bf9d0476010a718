package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/curatorlabs/curator/internal/wizard"
)

// Run starts the interactive wizard and blocks until the user quits.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	m, ok := finalModel.(Model)
	if !ok {
		return fmt.Errorf("unexpected model type")
	}

	// If the user quit from the result screen, print a closing summary to
	// the regular terminal.
	if m.session.Step() == wizard.StepResult {
		if res := m.session.Result(); res != nil {
			fmt.Printf("\nDone: %d created", len(res.Created))
			if len(res.Errors) > 0 {
				fmt.Printf(", %d failed", len(res.Errors))
			}
			fmt.Println()
		}
	}

	return nil
}

// IsTerminal checks if stdout is a terminal
func IsTerminal() bool {
	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
