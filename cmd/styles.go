package cmd

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFCC00"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#767676"))
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func newSpinner() *pterm.SpinnerPrinter {
	return pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100 * time.Millisecond).WithRemoveWhenDone(true)
}
