// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
)

// Executor defines the interface for executing shell commands.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Execute runs the command line through the shell in cmd.Dir with exactly cmd.Env.
	//
	// It returns the exit status of a command that ran to completion. The error is
	// non-nil only when the command could not be started or waited for.
	Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) (int, error)
}
