// Package resolver turns declared package specs and their descriptors into an ordered resolve plan.
package resolver

import (
	"path/filepath"
	"slices"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// External is a dependency that names no declared package.
type External struct {
	Dependent  string
	Dependency string
	Tag        string
}

// Resolve builds the dependency graph of specs, rejects conflicting dependency tags and cycles,
// and emits the plan in build order. descriptors is keyed by spec name.
func Resolve(
	specs []domain.PackageSpec,
	descriptors map[string]*domain.PackageDescriptor,
	roots domain.Roots,
) (*domain.ResolvePlan, error) {
	for i := range specs {
		if _, ok := descriptors[specs[i].Name]; !ok {
			return nil, zerr.With(zerr.Wrap(domain.ErrMissingDescriptor, "cannot resolve package"), "package", specs[i].Name)
		}
	}

	if err := checkConflicts(specs, descriptors); err != nil {
		return nil, err
	}

	graph, err := buildGraph(specs, descriptors)
	if err != nil {
		return nil, err
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}

	byName := make(map[string]*domain.PackageSpec, len(specs))
	for i := range specs {
		byName[specs[i].Name] = &specs[i]
	}

	plan := &domain.ResolvePlan{
		SourceFolder:  roots.Source,
		InstallFolder: roots.Install,
		BuildFolder:   roots.Build,
		EnvironmentVariables: []domain.EnvVar{
			{Type: domain.Public, Name: domain.EnvRootInstallFolder, Value: roots.Install},
		},
		InstallOrder: make([]string, 0, len(specs)),
		Packages:     make(map[string]*domain.ResolvedPackage, len(specs)),
	}

	for idx, name := range graph.Walk() {
		pkg := emit(idx, byName[name], descriptors[name], roots)
		plan.InstallOrder = append(plan.InstallOrder, name)
		plan.Packages[name] = pkg
	}

	return plan, nil
}

// ExternalDependencies lists, in declaration order, every dependency that matches no declared package.
// Such dependencies are assumed to be satisfied and take no part in ordering.
func ExternalDependencies(specs []domain.PackageSpec, descriptors map[string]*domain.PackageDescriptor) []External {
	known := make(map[string]bool, len(specs))
	for i := range specs {
		known[specs[i].Name] = true
	}

	var external []External
	for i := range specs {
		desc, ok := descriptors[specs[i].Name]
		if !ok {
			continue
		}
		for _, ref := range desc.Dependencies.Packages {
			if !known[ref.Name()] {
				external = append(external, External{
					Dependent:  specs[i].Name,
					Dependency: ref.Name(),
					Tag:        ref.RequestedTag(),
				})
			}
		}
	}
	return external
}

type request struct {
	dependent string
	tag       string
}

// checkConflicts fails on the first dependency requested with more than one distinct tag.
func checkConflicts(specs []domain.PackageSpec, descriptors map[string]*domain.PackageDescriptor) error {
	var depOrder []string
	requests := make(map[string][]request)

	for i := range specs {
		for _, ref := range descriptors[specs[i].Name].Dependencies.Packages {
			name := ref.Name()
			if _, seen := requests[name]; !seen {
				depOrder = append(depOrder, name)
			}
			requests[name] = append(requests[name], request{dependent: specs[i].Name, tag: ref.RequestedTag()})
		}
	}

	for _, name := range depOrder {
		reqs := requests[name]
		var tags []string
		for _, r := range reqs {
			if !slices.Contains(tags, r.tag) {
				tags = append(tags, r.tag)
			}
		}
		if len(tags) < 2 {
			continue
		}

		pairs := make([]string, 0, len(reqs))
		for _, r := range reqs {
			pairs = append(pairs, r.dependent+"@"+r.tag)
		}
		err := zerr.With(zerr.Wrap(domain.ErrDependencyConflict, "dependency requested at different tags"), "dependency", name)
		err = zerr.With(err, "tags", tags)
		return zerr.With(err, "requests", pairs)
	}

	return nil
}

func buildGraph(specs []domain.PackageSpec, descriptors map[string]*domain.PackageDescriptor) (*domain.Graph, error) {
	graph := domain.NewGraph()
	for i := range specs {
		if err := graph.AddNode(specs[i].Name); err != nil {
			return nil, err
		}
	}

	for i := range specs {
		for _, ref := range descriptors[specs[i].Name].Dependencies.Packages {
			graph.AddEdge(ref.Name(), specs[i].Name)
		}
	}

	return graph, nil
}

// emit synthesizes the resolved record of one package.
func emit(buildIndex int, spec *domain.PackageSpec, desc *domain.PackageDescriptor, roots domain.Roots) *domain.ResolvedPackage {
	folder := filepath.FromSlash(spec.FolderName)
	sourceFolder := spec.SourceFolder
	if sourceFolder == "" {
		sourceFolder = filepath.Join(roots.Source, folder)
	}
	installFolder := filepath.Join(roots.Install, folder)
	buildFolder := filepath.Join(roots.Build, folder)

	version := desc.Version
	if version == "" {
		version = domain.DefaultVersion
	}

	deps := make([]domain.DependencyInfo, 0, len(desc.Dependencies.Packages))
	for _, ref := range desc.Dependencies.Packages {
		deps = append(deps, domain.DependencyInfo{
			Name:   ref.Name(),
			GitURL: ref.GitURL,
			Tag:    ref.RequestedTag(),
		})
	}

	return &domain.ResolvedPackage{
		BuildIndex:    buildIndex,
		Name:          spec.Name,
		Version:       version,
		Description:   desc.Description,
		GitURL:        spec.GitURL,
		Tag:           spec.Tag,
		SourceFolder:  sourceFolder,
		InstallFolder: installFolder,
		BuildFolder:   buildFolder,
		EnvironmentVariables: []domain.EnvVar{
			{Type: domain.Public, Name: domain.InstallFolderVar(spec.Name), Value: installFolder},
			{Type: domain.Private, Name: domain.SourceFolderVar(spec.Name), Value: sourceFolder},
			{Type: domain.Private, Name: domain.BuildFolderVar(spec.Name), Value: buildFolder},
			{Type: domain.Private, Name: domain.EnvCurrentSourceFolder, Value: sourceFolder},
			{Type: domain.Private, Name: domain.EnvCurrentBuildFolder, Value: buildFolder},
			{Type: domain.Private, Name: domain.EnvCurrentInstallFolder, Value: installFolder},
			{Type: domain.Private, Name: domain.EnvCurrentName, Value: spec.Name},
		},
		BuildCommands:   nonNil(desc.BuildCommands),
		InstallCommands: nonNil(desc.InstallCommands),
		Dependencies:    deps,
	}
}

func nonNil(commands []string) []string {
	if commands == nil {
		return []string{}
	}
	return slices.Clone(commands)
}
