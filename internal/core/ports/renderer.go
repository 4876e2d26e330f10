package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for output rendering.
// It decouples telemetry collection from presentation logic.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	// It should flush any buffered output.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	// For synchronous renderers, this may return immediately.
	Wait() error

	// OnPlanEmit is called when the orchestrator has planned a combination.
	// names: every package in processing order
	// deps: dependency map (package -> list of dependencies)
	// targets: the user-requested packages
	OnPlanEmit(names []string, deps map[string][]string, targets []string)

	// OnStageStart is called when a package stage begins.
	// spanID: unique identifier for this stage execution
	// parentID: spanID of the parent span (empty if root)
	// name: human-readable stage name
	// startTime: when the stage started
	OnStageStart(spanID, parentID, name string, startTime time.Time)

	// OnStageLog is called when a stage's commands emit output.
	// spanID: identifier for the stage
	// data: raw log bytes (may contain partial lines or ANSI sequences)
	OnStageLog(spanID string, data []byte)

	// OnStageComplete is called when a stage finishes.
	// spanID: identifier for the stage
	// endTime: when the stage completed
	// err: nil if successful, error otherwise
	OnStageComplete(spanID string, endTime time.Time, err error)
}
