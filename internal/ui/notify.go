package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Notifier is implemented by sinks for user-facing outcome messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// ConsoleNotifier prints transient outcome messages to a writer, styled the
// same way across all CLI commands.
type ConsoleNotifier struct {
	out io.Writer

	successStyle lipgloss.Style
	errorStyle   lipgloss.Style
}

// NewConsoleNotifier creates a notifier writing to out (normally stdout).
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{
		out:          out,
		successStyle: lipgloss.NewStyle().Foreground(ColorSuccess),
		errorStyle:   lipgloss.NewStyle().Foreground(ColorError),
	}
}

// Success prints a success line with the success symbol.
func (n *ConsoleNotifier) Success(message string) {
	fmt.Fprintln(n.out, n.successStyle.Render(SymbolSuccess+" "+message))
}

// Error prints an error line with the failure symbol.
func (n *ConsoleNotifier) Error(message string) {
	fmt.Fprintln(n.out, n.errorStyle.Render(SymbolFail+" "+message))
}
