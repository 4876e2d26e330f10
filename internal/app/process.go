package app

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.arieo.dev/arieo-pkg/internal/adapters/detector"
	"go.arieo.dev/arieo-pkg/internal/adapters/linear"
	"go.arieo.dev/arieo-pkg/internal/adapters/telemetry"
	"go.arieo.dev/arieo-pkg/internal/adapters/tui"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
	"go.arieo.dev/arieo-pkg/internal/engine/orchestrator"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// InstrumentationName names the tracer stage spans are recorded under.
const InstrumentationName = "arieo-pkg"

// ProcessOptions configures the Process and Plan methods.
type ProcessOptions struct {
	Manifest            string
	Packages            []string
	Stage               domain.Stage
	IncludeDependencies bool
	Overrides           *domain.Overrides
	// Yes skips the confirmation prompt.
	Yes bool
}

func (o ProcessOptions) orchestratorOptions() orchestrator.Options {
	return orchestrator.Options{
		Packages:            o.Packages,
		IncludeDependencies: o.IncludeDependencies,
		Stage:               o.Stage,
		Overrides:           o.Overrides,
	}
}

func (a *App) prepare(opts ProcessOptions) (*domain.ResolvePlan, *orchestrator.Selection, error) {
	manifest, err := a.loadManifest(opts.Manifest)
	if err != nil {
		return nil, nil, err
	}

	plan, err := a.store.Load(manifest.ResolveFile)
	if err != nil {
		return nil, nil, err
	}

	sel, err := orchestrator.Select(plan, opts.orchestratorOptions())
	if err != nil {
		return nil, nil, err
	}
	return plan, sel, nil
}

// Process builds and installs the selected packages for every combination.
func (a *App) Process(ctx context.Context, opts ProcessOptions) error {
	plan, sel, err := a.prepare(opts)
	if err != nil {
		return err
	}

	a.logger.Info(summary(sel))
	if len(sel.Combinations) == 0 {
		a.logger.Warn("An override list is empty, no combinations to process")
		return nil
	}

	if !opts.Yes && a.interactive() {
		ok, err := a.confirm()
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAborted
		}
	}

	return a.execute(ctx, plan, sel)
}

// Plan prints what Process would run without running it.
func (a *App) Plan(_ context.Context, opts ProcessOptions) error {
	plan, sel, err := a.prepare(opts)
	if err != nil {
		return err
	}

	a.logger.Info(summary(sel))

	var b strings.Builder
	for i, combo := range sel.Combinations {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Combination %d/%d: %s", i+1, len(sel.Combinations), combo)
		for idx, name := range sel.Order {
			pkg := plan.Packages[name]
			fmt.Fprintf(&b, "\n  %d. %s [%s]", idx+1, name, stageCounts(pkg, sel.Stage))
		}
	}
	if b.Len() > 0 {
		a.logger.Info(b.String())
	}
	return nil
}

func (a *App) execute(ctx context.Context, plan *domain.ResolvePlan, sel *orchestrator.Selection) error {
	renderer, restore := a.newRenderer(ctx)
	defer restore()

	bridge := telemetry.NewBridge(renderer)
	tp := setupOTel(bridge)
	defer func() {
		_ = tp.Shutdown(context.WithoutCancel(ctx))
	}()

	tracer := telemetry.NewOTelTracer(InstrumentationName).WithRenderer(renderer)
	orch := orchestrator.New(a.executor, tracer, a.logger)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := renderer.Start(ctx); err != nil {
			return err
		}
		return renderer.Wait()
	})

	g.Go(func() error {
		defer func() {
			_ = renderer.Stop()
		}()
		return orch.Execute(ctx, plan, sel)
	})

	return g.Wait()
}

// newRenderer picks the renderer for the output mode. In TUI mode log lines are
// held back while the view owns the terminal and replayed by restore.
func (a *App) newRenderer(ctx context.Context) (ports.Renderer, func()) {
	mode := a.outputMode()
	if mode != detector.ModeTUI {
		return linear.NewRenderer(a.stdout, a.stderr, linear.WithProfile(detector.Profile(mode))), func() {}
	}

	model := tui.NewModel()
	opts := append([]tea.ProgramOption{
		tea.WithContext(ctx),
		tea.WithOutput(a.stderr),
		tea.WithAltScreen(),
	}, a.teaOptions...)
	renderer := tui.NewRenderer(&model, opts...)

	l, ok := a.logger.(redirectable)
	if !ok {
		return renderer, func() {}
	}
	prev := l.Output()
	var held bytes.Buffer
	l.SetOutput(&held)
	return renderer, func() {
		l.SetOutput(prev)
		if prev != nil {
			_, _ = held.WriteTo(prev)
		}
	}
}

type redirectable interface {
	Output() io.Writer
	SetOutput(w io.Writer)
}

func (a *App) confirm() (bool, error) {
	if _, err := fmt.Fprint(a.stdout, "Proceed? [y/N] "); err != nil {
		return false, zerr.Wrap(err, "failed to write prompt")
	}
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, zerr.Wrap(err, "failed to read answer")
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func summary(sel *orchestrator.Selection) string {
	var b strings.Builder
	b.WriteString("Configuration:")
	fmt.Fprintf(&b, "\n  Stage: %s", sel.Stage)
	fmt.Fprintf(&b, "\n  Packages (%d): %s", len(sel.Order), joinOrNone(sel.Requested))
	if len(sel.Dependencies) > 0 {
		fmt.Fprintf(&b, "\n  Dependencies (%d): %s", len(sel.Dependencies), strings.Join(sel.Dependencies, ", "))
	}
	fmt.Fprintf(&b, "\n  Total combinations: %d", len(sel.Combinations))
	for i, combo := range sel.Combinations {
		fmt.Fprintf(&b, "\n    %d. %s", i+1, combo)
	}
	fmt.Fprintf(&b, "\n  Total builds: %d × %d = %d", len(sel.Order), len(sel.Combinations), sel.Builds())
	return b.String()
}

func stageCounts(pkg *domain.ResolvedPackage, stage domain.Stage) string {
	parts := make([]string, 0, 2)
	for _, step := range stage.Steps() {
		parts = append(parts, fmt.Sprintf("%s: %d command(s)", step, len(pkg.Commands(step))))
	}
	return strings.Join(parts, ", ")
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "(none)"
	}
	return strings.Join(names, ", ")
}

// setupOTel installs a tracer provider that forwards spans to the renderer bridge.
func setupOTel(bridge *telemetry.Bridge) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bridge),
	)
	otel.SetTracerProvider(tp)
	return tp
}
