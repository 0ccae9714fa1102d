package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	stylePrompt    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Padding(1, 2)
	styleCorrect   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true) // Green
	styleIncorrect = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)  // Red
	styleSubtle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCursor    = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	styleSelected  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Padding(0, 1)
	styleBox       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(1, 2)
	styleBarFull   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleBarEmpty  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
