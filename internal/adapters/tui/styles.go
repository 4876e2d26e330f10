package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.arieo.dev/arieo-pkg/internal/ui/style"
)

var (
	listStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(style.Muted).
			MarginRight(1).
			PaddingRight(1)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	stagePendingStyle = lipgloss.NewStyle().
				Foreground(style.Muted)

	stageRunningStyle = lipgloss.NewStyle().
				Foreground(style.Accent).
				Bold(true)

	stageDoneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	stageErrorStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	headerStyle = lipgloss.NewStyle().
			Foreground(style.Muted)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Accent).
			Foreground(lipgloss.Color("#FFFFFF"))
)
