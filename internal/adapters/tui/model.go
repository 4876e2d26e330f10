// Package tui renders package stages in an interactive terminal view.
package tui

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	stageListWidthRatio = 0.3
	logPaneBorderWidth  = 4
	headerHeight        = 2
)

// StageStatus represents the current state of a stage.
type StageStatus string

const (
	// StatusPending indicates the stage has not started.
	StatusPending StageStatus = "Pending"
	// StatusRunning indicates the stage is executing.
	StatusRunning StageStatus = "Running"
	// StatusDone indicates the stage succeeded.
	StatusDone StageStatus = "Done"
	// StatusError indicates the stage failed.
	StatusError StageStatus = "Error"
)

// StageNode is a single stage in the list. Logs keeps the raw output with
// CRLF line endings normalized.
type StageNode struct {
	Name      string
	Status    StageStatus
	Logs      bytes.Buffer
	StartTime time.Time
	Duration  time.Duration

	screen *screen
}

// Model is the Bubble Tea model of the stage view.
type Model struct {
	Stages      []*StageNode
	SpanMap     map[string]*StageNode
	Viewport    viewport.Model
	Header      string
	SelectedIdx int
	// FollowMode keeps the most recently started stage selected.
	FollowMode bool
	ListHeight int
}

// NewModel creates a model following the running stage.
func NewModel() Model {
	return Model{
		Stages:     make([]*StageNode, 0),
		SpanMap:    make(map[string]*StageNode),
		Viewport:   viewport.New(0, 0),
		FollowMode: true,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
//
//nolint:cyclop // message dispatch
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case tea.WindowSizeMsg:
		listWidth := int(float64(msg.Width) * stageListWidthRatio)
		m.Viewport.Width = msg.Width - listWidth - logPaneBorderWidth
		m.Viewport.Height = msg.Height - headerHeight
		m.ListHeight = msg.Height - headerHeight
		m.refresh()

	case MsgPlan:
		m.Header = fmt.Sprintf("Processing %d package(s): %s", len(msg.Names), strings.Join(msg.Names, ", "))

	case MsgStageStart:
		node := &StageNode{Name: msg.Name, Status: StatusRunning, StartTime: msg.StartTime, screen: newScreen()}
		m.Stages = append(m.Stages, node)
		m.SpanMap[msg.SpanID] = node
		if m.FollowMode {
			m.SelectedIdx = len(m.Stages) - 1
		}
		m.refresh()

	case MsgStageLog:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Logs.Write(bytes.ReplaceAll(msg.Data, []byte("\r\n"), []byte("\n")))
			_, _ = node.screen.Write(msg.Data)
			if node == m.selected() {
				m.refresh()
			}
		}

	case MsgStageComplete:
		if node, ok := m.SpanMap[msg.SpanID]; ok {
			node.Duration = msg.EndTime.Sub(node.StartTime)
			if msg.Err != nil {
				node.Status = StatusError
			} else {
				node.Status = StatusDone
			}
		}
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Interrupt
	case "up", "k":
		if m.SelectedIdx > 0 {
			m.SelectedIdx--
			m.FollowMode = false
			m.refresh()
		}
	case "down", "j":
		if m.SelectedIdx < len(m.Stages)-1 {
			m.SelectedIdx++
			m.FollowMode = false
			m.refresh()
		}
	case "f":
		m.FollowMode = true
		if len(m.Stages) > 0 {
			m.SelectedIdx = len(m.Stages) - 1
		}
		m.refresh()
	default:
		var cmd tea.Cmd
		m.Viewport, cmd = m.Viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) selected() *StageNode {
	if m.SelectedIdx >= 0 && m.SelectedIdx < len(m.Stages) {
		return m.Stages[m.SelectedIdx]
	}
	return nil
}

// refresh shows the selected stage's log, pinned to the bottom while following.
func (m *Model) refresh() {
	node := m.selected()
	if node == nil {
		return
	}
	node.screen.Resize(m.Viewport.Width)
	m.Viewport.SetContent(node.screen.String())
	if m.FollowMode {
		m.Viewport.GotoBottom()
	}
}
