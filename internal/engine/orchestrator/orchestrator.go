// Package orchestrator drives the build and install stages of a resolve plan.
package orchestrator

import (
	"context"
	"fmt"
	"os"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
	"go.arieo.dev/arieo-pkg/internal/engine/environment"
	"go.trai.ch/zerr"
)

// Orchestrator runs package stages one command at a time and stops at the first failure.
type Orchestrator struct {
	executor ports.Executor
	tracer   ports.Tracer
	logger   ports.Logger
	environ  func() []string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithEnviron replaces the source of the inherited process environment.
func WithEnviron(environ func() []string) Option {
	return func(o *Orchestrator) {
		o.environ = environ
	}
}

// New creates a new Orchestrator.
func New(executor ports.Executor, tracer ports.Tracer, logger ports.Logger, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		executor: executor,
		tracer:   tracer,
		logger:   logger,
		environ:  os.Environ,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run selects packages from the plan and executes them.
func (o *Orchestrator) Run(ctx context.Context, plan *domain.ResolvePlan, opts Options) error {
	sel, err := Select(plan, opts)
	if err != nil {
		return err
	}
	return o.Execute(ctx, plan, sel)
}

// Execute processes every package of the selection for every combination.
// Within a combination each package runs all of its stages before the next package starts.
func (o *Orchestrator) Execute(ctx context.Context, plan *domain.ResolvePlan, sel *Selection) error {
	inherited := o.environ()
	deps := make(map[string][]string, len(sel.Order))
	for _, name := range sel.Order {
		if pkg, ok := plan.Package(name); ok {
			deps[name] = pkg.DependencyNames()
		}
	}

	for i, combo := range sel.Combinations {
		o.logger.Info(fmt.Sprintf("Processing combination %d/%d: %s", i+1, len(sel.Combinations), combo))
		o.tracer.EmitPlan(ctx, sel.Order, deps, sel.Requested)

		for _, name := range sel.Order {
			if err := o.processPackage(ctx, plan, name, sel.Stage, combo, inherited); err != nil {
				return err
			}
		}
	}

	return nil
}

func (o *Orchestrator) processPackage(
	ctx context.Context,
	plan *domain.ResolvePlan,
	name string,
	stage domain.Stage,
	combo domain.Combination,
	inherited []string,
) error {
	pkg, ok := plan.Package(name)
	if !ok {
		return zerr.With(zerr.Wrap(domain.ErrUnknownPackage, "package missing from plan"), "package", name)
	}

	env, err := environment.Compose(inherited, plan, name, combo)
	if err != nil {
		return err
	}

	for _, step := range stage.Steps() {
		if err := o.runStage(ctx, pkg, step, combo, env); err != nil {
			return err
		}
	}
	return nil
}

// runStage runs the stage's commands in the package's source folder.
// An empty command list succeeds without starting a span.
func (o *Orchestrator) runStage(
	ctx context.Context,
	pkg *domain.ResolvedPackage,
	stage domain.Stage,
	combo domain.Combination,
	env environment.Environment,
) error {
	commands := pkg.Commands(stage)
	if len(commands) == 0 {
		return nil
	}

	ctx, span := o.tracer.Start(ctx, pkg.Name+":"+stage.String())
	defer span.End()
	span.SetAttribute("arieo.package", pkg.Name)
	span.SetAttribute("arieo.stage", stage.String())
	span.SetAttribute("arieo.build_index", pkg.BuildIndex)
	span.SetAttribute("arieo.combination", combo.ID())

	environ := env.Environ()
	for _, raw := range commands {
		if err := ctx.Err(); err != nil {
			span.RecordError(err)
			return err
		}

		cmd := &domain.Command{
			Line: environment.Expand(raw, env),
			Dir:  pkg.SourceFolder,
			Env:  environ,
		}
		_, _ = fmt.Fprintf(span, "> %s\n", cmd.Line)

		code, err := o.executor.Execute(ctx, cmd, span, span)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				err = zerr.Wrap(ctxErr, "command interrupted")
			} else {
				err = startError(err)
			}
			err = commandError(err, pkg, stage, cmd, combo)
			span.RecordError(err)
			return err
		}
		if code != 0 {
			err = commandError(zerr.Wrap(domain.ErrCommandFailed, "command exited with non-zero status"), pkg, stage, cmd, combo)
			err = zerr.With(err, "exit_code", code)
			span.RecordError(err)
			return err
		}
	}

	return nil
}

func startError(cause error) error {
	err := zerr.Wrap(domain.ErrCommandStartFailed, "command could not be run")
	return zerr.With(err, "cause", cause.Error())
}

func commandError(
	err error,
	pkg *domain.ResolvedPackage,
	stage domain.Stage,
	cmd *domain.Command,
	combo domain.Combination,
) error {
	err = zerr.With(err, "package", pkg.Name)
	err = zerr.With(err, "stage", stage.String())
	err = zerr.With(err, "command", cmd.Line)
	err = zerr.With(err, "dir", cmd.Dir)
	return zerr.With(err, "combination", combo.String())
}
