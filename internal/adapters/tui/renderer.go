package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
)

// Renderer wraps the Bubble Tea model as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	model   *Model
	errCh   chan error
}

// NewRenderer creates a new TUI renderer.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		model:   model,
		errCh:   make(chan error, 1),
	}
}

// Start launches the TUI in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop signals the TUI to quit.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the TUI has terminated. Quitting from the keyboard aborts the run.
func (r *Renderer) Wait() error {
	err := <-r.errCh
	if errors.Is(err, tea.ErrInterrupted) {
		return domain.ErrAborted
	}
	return err
}

// OnPlanEmit forwards the planned packages to the TUI.
func (r *Renderer) OnPlanEmit(names []string, _ map[string][]string, targets []string) {
	r.program.Send(MsgPlan{Names: names, Targets: targets})
}

// OnStageStart forwards stage start events to the TUI.
func (r *Renderer) OnStageStart(spanID, _, name string, startTime time.Time) {
	r.program.Send(MsgStageStart{SpanID: spanID, Name: name, StartTime: startTime})
}

// OnStageLog forwards stage output to the TUI.
func (r *Renderer) OnStageLog(spanID string, data []byte) {
	r.program.Send(MsgStageLog{SpanID: spanID, Data: data})
}

// OnStageComplete forwards stage completion events to the TUI.
func (r *Renderer) OnStageComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(MsgStageComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
