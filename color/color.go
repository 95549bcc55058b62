// Package color centralizes the lipgloss styles used for terminal output.
package color

import "github.com/charmbracelet/lipgloss"

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	blueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Green renders success output.
func Green(s string) string { return greenStyle.Render(s) }

// Yellow renders warnings and medium priority.
func Yellow(s string) string { return yellowStyle.Render(s) }

// Red renders errors and high priority.
func Red(s string) string { return redStyle.Render(s) }

// Blue renders links and low priority.
func Blue(s string) string { return blueStyle.Render(s) }

// Bold renders emphasized text such as task content.
func Bold(s string) string { return boldStyle.Render(s) }

// Muted renders secondary detail such as timestamps.
func Muted(s string) string { return mutedStyle.Render(s) }
