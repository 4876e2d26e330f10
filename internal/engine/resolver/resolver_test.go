package resolver_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/engine/resolver"
	"go.trai.ch/zerr"
)

const baseURL = "https://github.com/arieo/"

var roots = domain.Roots{
	Source:  filepath.FromSlash("/ws/_packages/src"),
	Install: filepath.FromSlash("/ws/_packages/published"),
	Build:   filepath.FromSlash("/ws/_build"),
}

type fixture struct {
	specs       []domain.PackageSpec
	descriptors map[string]*domain.PackageDescriptor
}

func newFixture() *fixture {
	return &fixture{descriptors: make(map[string]*domain.PackageDescriptor)}
}

// add declares a git package whose descriptor depends on deps given as "name" or "name@tag".
func (f *fixture) add(name string, deps ...string) *domain.PackageDescriptor {
	f.specs = append(f.specs, domain.PackageSpec{
		Name:       name,
		Category:   "engine",
		Kind:       domain.SourceGit,
		GitURL:     baseURL + name + ".git",
		Tag:        "main",
		FolderName: domain.GitFolderName("engine", name, "main"),
	})

	desc := &domain.PackageDescriptor{Name: name}
	for _, dep := range deps {
		ref := domain.DependencyRef{GitURL: baseURL + dep + ".git"}
		for i := range len(dep) {
			if dep[i] == '@' {
				ref = domain.DependencyRef{GitURL: baseURL + dep[:i] + ".git", Tag: dep[i+1:]}
				break
			}
		}
		desc.Dependencies.Packages = append(desc.Dependencies.Packages, ref)
	}
	f.descriptors[name] = desc
	return desc
}

func (f *fixture) resolve() (*domain.ResolvePlan, error) {
	return resolver.Resolve(f.specs, f.descriptors, roots)
}

func TestResolve_Order(t *testing.T) {
	f := newFixture()
	f.add("Arieo-App", "Arieo-Render", "Arieo-Core")
	f.add("Arieo-Render", "Arieo-Core")
	f.add("Arieo-Core")

	plan, err := f.resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"Arieo-Core", "Arieo-Render", "Arieo-App"}, plan.InstallOrder)
	assert.Equal(t, 1, plan.Packages["Arieo-Core"].BuildIndex)
	assert.Equal(t, 2, plan.Packages["Arieo-Render"].BuildIndex)
	assert.Equal(t, 3, plan.Packages["Arieo-App"].BuildIndex)
}

func TestResolve_DeclarationOrderBreaksTies(t *testing.T) {
	f := newFixture()
	f.add("Tools")
	f.add("Core")
	f.add("Audio", "Core")
	f.add("Render", "Core")

	plan, err := f.resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"Tools", "Core", "Audio", "Render"}, plan.InstallOrder)
}

func TestResolve_BuildIndexRespectsEdges(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))

	for round := range 25 {
		f := newFixture()
		n := 2 + rng.IntN(12)
		names := make([]string, n)
		for i := range n {
			names[i] = fmt.Sprintf("pkg-%02d", i)
		}

		// Dependencies only point at lower numbered packages, so the graph is acyclic.
		// Declaration order is shuffled so the sort has real work to do.
		deps := make(map[string][]string, n)
		for i := 1; i < n; i++ {
			for j := range i {
				if rng.IntN(3) == 0 {
					deps[names[i]] = append(deps[names[i]], names[j])
				}
			}
		}
		rng.Shuffle(n, func(i, j int) { names[i], names[j] = names[j], names[i] })
		for _, name := range names {
			f.add(name, deps[name]...)
		}

		plan, err := f.resolve()
		require.NoError(t, err, "round %d", round)
		require.Len(t, plan.InstallOrder, n)

		for name, pkg := range plan.Packages {
			for _, dep := range pkg.Dependencies {
				assert.Less(t, plan.Packages[dep.Name].BuildIndex, pkg.BuildIndex,
					"round %d: %s must build before %s", round, dep.Name, name)
			}
		}
	}
}

func TestResolve_Cycle(t *testing.T) {
	f := newFixture()
	f.add("A", "C")
	f.add("B", "A")
	f.add("C", "B")
	f.add("D")

	plan, err := f.resolve()
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, domain.ErrDependencyCycle))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "A -> C -> B -> A", zErr.Metadata()["cycle"])
	assert.Equal(t, []string{"A", "B", "C"}, zErr.Metadata()["unresolved"])
}

func TestResolve_Conflict(t *testing.T) {
	f := newFixture()
	f.add("Core")
	f.add("Render", "Core@v1.0")
	f.add("Audio", "Core@v2.0")

	plan, err := f.resolve()
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.True(t, errors.Is(err, domain.ErrDependencyConflict))

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "Core", meta["dependency"])
	assert.Equal(t, []string{"v1.0", "v2.0"}, meta["tags"])
	assert.Equal(t, []string{"Render@v1.0", "Audio@v2.0"}, meta["requests"])
}

func TestResolve_SameTagIsNotAConflict(t *testing.T) {
	f := newFixture()
	f.add("Core")
	f.add("Render", "Core")
	f.add("Audio", "Core@main")

	_, err := f.resolve()
	require.NoError(t, err)
}

func TestResolve_ConflictOnExternalDependency(t *testing.T) {
	f := newFixture()
	f.add("Render", "zlib@1.2")
	f.add("Audio", "zlib@1.3")

	_, err := f.resolve()
	require.ErrorIs(t, err, domain.ErrDependencyConflict)
}

func TestResolve_ExternalDependenciesIgnoredForOrdering(t *testing.T) {
	f := newFixture()
	f.add("Render", "ThirdParty-SDL")
	f.add("Core")

	plan, err := f.resolve()
	require.NoError(t, err)
	assert.Equal(t, []string{"Render", "Core"}, plan.InstallOrder)
	assert.Equal(t, []string{"ThirdParty-SDL"}, plan.Packages["Render"].DependencyNames())

	external := resolver.ExternalDependencies(f.specs, f.descriptors)
	assert.Equal(t, []resolver.External{
		{Dependent: "Render", Dependency: "ThirdParty-SDL", Tag: "main"},
	}, external)
}

func TestResolve_MissingDescriptor(t *testing.T) {
	f := newFixture()
	f.add("Core")
	delete(f.descriptors, "Core")

	_, err := f.resolve()
	require.ErrorIs(t, err, domain.ErrMissingDescriptor)
}

func TestResolve_DuplicatePackage(t *testing.T) {
	f := newFixture()
	f.add("Core")
	f.add("Core")

	_, err := f.resolve()
	require.ErrorIs(t, err, domain.ErrDuplicatePackage)
}

func TestResolve_Emission(t *testing.T) {
	f := newFixture()
	f.add("Arieo-BuildEnv")
	desc := f.add("Arieo-Core", "Arieo-BuildEnv@v3")
	desc.Description = "Engine core"
	desc.BuildCommands = []string{"cmake -S . -B $ARIEO_CUR_PACKAGE_BUILD_FOLDER"}
	desc.InstallCommands = []string{"cmake --install $ARIEO_CUR_PACKAGE_BUILD_FOLDER"}
	// A local package keeps its own folder as source folder.
	f.specs[0].Kind = domain.SourceLocal
	f.specs[0].Tag = domain.LocalTag
	f.specs[0].GitURL = ""
	f.specs[0].SourceFolder = filepath.FromSlash("/checkout/Arieo-BuildEnv")
	f.specs[0].FolderName = domain.LocalFolderName("engine", "Arieo-BuildEnv")

	plan, err := f.resolve()
	require.NoError(t, err)

	assert.Equal(t, roots.Source, plan.SourceFolder)
	assert.Equal(t, roots.Install, plan.InstallFolder)
	assert.Equal(t, roots.Build, plan.BuildFolder)
	assert.Equal(t, []domain.EnvVar{
		{Type: domain.Public, Name: "ARIEO_PACKAGE_ROOT_INSTALL_FOLDER", Value: roots.Install},
	}, plan.EnvironmentVariables)

	local := plan.Packages["Arieo-BuildEnv"]
	assert.Equal(t, filepath.FromSlash("/checkout/Arieo-BuildEnv"), local.SourceFolder)
	assert.Equal(t, filepath.Join(roots.Install, "engine", "Arieo-BuildEnv"), local.InstallFolder)
	assert.Equal(t, "local", local.Tag)
	assert.Equal(t, "0.0.0", local.Version)
	assert.Empty(t, local.BuildCommands)
	assert.NotNil(t, local.BuildCommands)

	core := plan.Packages["Arieo-Core"]
	sourceFolder := filepath.Join(roots.Source, "engine", "Arieo-Core-main")
	installFolder := filepath.Join(roots.Install, "engine", "Arieo-Core-main")
	buildFolder := filepath.Join(roots.Build, "engine", "Arieo-Core-main")

	assert.Equal(t, 2, core.BuildIndex)
	assert.Equal(t, "Arieo-Core", core.Name)
	assert.Equal(t, "Engine core", core.Description)
	assert.Equal(t, baseURL+"Arieo-Core.git", core.GitURL)
	assert.Equal(t, "main", core.Tag)
	assert.Equal(t, sourceFolder, core.SourceFolder)
	assert.Equal(t, installFolder, core.InstallFolder)
	assert.Equal(t, buildFolder, core.BuildFolder)
	assert.Equal(t, desc.BuildCommands, core.BuildCommands)
	assert.Equal(t, desc.InstallCommands, core.InstallCommands)
	assert.Equal(t, []domain.DependencyInfo{
		{Name: "Arieo-BuildEnv", GitURL: baseURL + "Arieo-BuildEnv.git", Tag: "v3"},
	}, core.Dependencies)
	assert.Equal(t, []domain.EnvVar{
		{Type: domain.Public, Name: "ARIEO_PACKAGE_CORE_INSTALL_FOLDER", Value: installFolder},
		{Type: domain.Private, Name: "ARIEO_PACKAGE_CORE_SOURCE_FOLDER", Value: sourceFolder},
		{Type: domain.Private, Name: "ARIEO_PACKAGE_CORE_BUILD_FOLDER", Value: buildFolder},
		{Type: domain.Private, Name: "ARIEO_CUR_PACKAGE_SOURCE_FOLDER", Value: sourceFolder},
		{Type: domain.Private, Name: "ARIEO_CUR_PACKAGE_BUILD_FOLDER", Value: buildFolder},
		{Type: domain.Private, Name: "ARIEO_CUR_PACKAGE_INSTALL_FOLDER", Value: installFolder},
		{Type: domain.Private, Name: "ARIEO_CUR_PACKAGE_NAME", Value: "Arieo-Core"},
	}, core.EnvironmentVariables)
}
