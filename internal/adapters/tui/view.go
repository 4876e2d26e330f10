package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"go.arieo.dev/arieo-pkg/internal/ui/style"
)

// View renders the stage list next to the selected stage's log.
func (m *Model) View() string {
	if m.Viewport.Height == 0 {
		return "Initializing..."
	}

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.stageList(),
		m.logPane(),
	)
	return lipgloss.JoinVertical(lipgloss.Left, headerStyle.Render(m.Header), body)
}

func (m *Model) stageList() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("STAGES") + "\n\n")

	start := 0
	if m.ListHeight > 2 && m.SelectedIdx >= m.ListHeight-2 {
		start = m.SelectedIdx - (m.ListHeight - 3)
	}

	for i := start; i < len(m.Stages); i++ {
		stage := m.Stages[i]
		var st lipgloss.Style
		var icon string

		switch stage.Status {
		case StatusRunning:
			st, icon = stageRunningStyle, style.Dot
		case StatusDone:
			st, icon = stageDoneStyle, style.Check
		case StatusError:
			st, icon = stageErrorStyle, style.Cross
		default:
			st, icon = stagePendingStyle, "○"
		}

		line := fmt.Sprintf("%s %s", icon, stage.Name)
		if stage.Duration > 0 {
			line += " " + stage.Duration.Round(time.Millisecond).String()
		}
		if i == m.SelectedIdx {
			line = "> " + line
		} else {
			line = "  " + line
		}
		s.WriteString(st.Render(line) + "\n")
	}

	return listStyle.Render(s.String())
}

func (m *Model) logPane() string {
	header := titleStyle.Render("LOGS (Waiting...)")
	if node := m.selected(); node != nil {
		header = titleStyle.Render("LOGS: " + node.Name)
	}

	return logStyle.Render(
		lipgloss.JoinVertical(
			lipgloss.Left,
			header,
			m.Viewport.View(),
		),
	)
}
