// Package app implements the application layer for arieo-pkg.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.arieo.dev/arieo-pkg/internal/adapters/detector"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
	"go.arieo.dev/arieo-pkg/internal/engine/resolver"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultJobs is the number of sources fetched concurrently by Init.
const DefaultJobs = 4

// App represents the main application logic.
type App struct {
	loader      ports.ManifestLoader
	descriptors ports.DescriptorReader
	fetcher     ports.SourceFetcher
	store       ports.PlanStore
	executor    ports.Executor
	logger      ports.Logger

	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	interactive func() bool
	getwd       func() (string, error)
	now         func() time.Time

	teaOptions []tea.ProgramOption

	modeOnce sync.Once
	mode     detector.OutputMode
}

// New creates a new App instance.
func New(
	loader ports.ManifestLoader,
	descriptors ports.DescriptorReader,
	fetcher ports.SourceFetcher,
	store ports.PlanStore,
	executor ports.Executor,
	log ports.Logger,
) *App {
	return &App{
		loader:      loader,
		descriptors: descriptors,
		fetcher:     fetcher,
		store:       store,
		executor:    executor,
		logger:      log,
		stdin:       os.Stdin,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: detector.IsInteractive,
		getwd:       os.Getwd,
		now:         time.Now,
	}
}

// WithIO replaces the standard streams used for prompts and progress output.
func (a *App) WithIO(stdin io.Reader, stdout, stderr io.Writer) *App {
	a.stdin = stdin
	a.stdout = stdout
	a.stderr = stderr
	return a
}

// WithInteractive replaces the check deciding whether the user can be prompted.
func (a *App) WithInteractive(interactive func() bool) *App {
	a.interactive = interactive
	return a
}

// WithWorkingDir pins the directory the manifest search starts from.
func (a *App) WithWorkingDir(dir string) *App {
	a.getwd = func() (string, error) { return dir, nil }
	return a
}

// WithClock replaces the clock stamping generated plans.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// WithTeaOptions appends program options used when the interactive view runs.
func (a *App) WithTeaOptions(opts ...tea.ProgramOption) *App {
	a.teaOptions = append(a.teaOptions, opts...)
	return a
}

// SetOutputMode resolves the requested output mode against the detected environment.
// JSON mode switches the logger to structured output.
func (a *App) SetOutputMode(flag string) {
	a.mode = detector.ResolveMode(detector.DetectEnvironment(), flag)
	if a.mode == detector.ModeJSON {
		if l, ok := a.logger.(interface{ SetJSON(enable bool) }); ok {
			l.SetJSON(true)
		}
	}
}

func (a *App) outputMode() detector.OutputMode {
	a.modeOnce.Do(func() {
		if a.mode == detector.ModeAuto {
			a.mode = detector.DetectEnvironment()
		}
	})
	return a.mode
}

func (a *App) loadManifest(path string) (*domain.Manifest, error) {
	cwd, err := a.getwd()
	if err != nil {
		return nil, zerr.Wrap(err, "failed to determine working directory")
	}
	manifest, err := a.loader.Load(cwd, path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load manifest")
	}
	return manifest, nil
}

// InitOptions configures the Init method.
type InitOptions struct {
	Manifest string
	Jobs     int
	NoFetch  bool
}

// Init fetches every declared package, resolves the dependency graph and writes the resolve file.
func (a *App) Init(ctx context.Context, opts InitOptions) error {
	manifest, err := a.loadManifest(opts.Manifest)
	if err != nil {
		return err
	}
	a.logger.Info(fmt.Sprintf("Using manifest %s (%d package(s))", manifest.Path, len(manifest.Packages)))

	if opts.NoFetch {
		a.logger.Info("Skipping source fetch")
	} else if err := a.fetchSources(ctx, manifest, opts.Jobs); err != nil {
		return err
	}

	descriptors, err := a.readDescriptors(manifest)
	if err != nil {
		return err
	}

	for _, ext := range resolver.ExternalDependencies(manifest.Packages, descriptors) {
		a.logger.Warn(fmt.Sprintf("%s depends on %s@%s which is not declared in the manifest, assuming it is provided",
			ext.Dependent, ext.Dependency, ext.Tag))
	}

	plan, err := resolver.Resolve(manifest.Packages, descriptors, manifest.Roots())
	if err != nil {
		return zerr.Wrap(err, "failed to resolve packages")
	}
	plan.GeneratedAt = a.now()

	if err := a.store.Save(manifest.ResolveFile, plan); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Build order:")
	for idx, name := range plan.InstallOrder {
		pkg := plan.Packages[name]
		fmt.Fprintf(&b, "\n  %d. %s (%s)", idx+1, name, pkg.Tag)
	}
	a.logger.Info(b.String())
	a.logger.Info(fmt.Sprintf("Wrote resolve file %s", manifest.ResolveFile))
	return nil
}

func (a *App) fetchSources(ctx context.Context, manifest *domain.Manifest, jobs int) error {
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i := range manifest.Packages {
		spec := manifest.Packages[i]
		if spec.IsLocal() {
			continue
		}
		g.Go(func() error {
			a.logger.Info(fmt.Sprintf("Fetching %s (%s@%s)", spec.Name, spec.GitURL, spec.Tag))
			if _, err := a.fetcher.Fetch(ctx, spec.GitURL, spec.Tag, spec.SourceFolder); err != nil {
				return zerr.With(zerr.Wrap(err, "failed to fetch package"), "package", spec.Name)
			}
			return nil
		})
	}

	return g.Wait()
}

func (a *App) readDescriptors(manifest *domain.Manifest) (map[string]*domain.PackageDescriptor, error) {
	descriptors := make(map[string]*domain.PackageDescriptor, len(manifest.Packages))
	for i := range manifest.Packages {
		spec := &manifest.Packages[i]
		desc, err := a.descriptors.Read(spec.SourceFolder)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "failed to read package descriptor"), "package", spec.Name)
		}
		if desc.Name != "" && desc.Name != spec.Name {
			a.logger.Warn(fmt.Sprintf("Descriptor of %s declares name %q, using %q", spec.Name, desc.Name, spec.Name))
		}
		descriptors[spec.Name] = desc
	}
	return descriptors, nil
}
