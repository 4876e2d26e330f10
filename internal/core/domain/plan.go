package domain

import (
	"slices"
	"time"
)

// Visibility scopes an environment variable declaration.
type Visibility string

const (
	// Public variables are visible to every package during a run.
	Public Visibility = "public"
	// Private variables are visible only while running the declaring package's commands.
	Private Visibility = "private"
)

// EnvVar is a single environment variable declaration.
type EnvVar struct {
	Type  Visibility `json:"type"`
	Name  string     `json:"name"`
	Value string     `json:"value"`
}

// Scope returns the declaration's visibility. Untyped declarations are public.
func (e EnvVar) Scope() Visibility {
	if e.Type == "" {
		return Public
	}
	return e.Type
}

// DependencyInfo records one dependency of a resolved package.
type DependencyInfo struct {
	Name   string `json:"name"`
	GitURL string `json:"git_url"`
	Tag    string `json:"tag"`
}

// ResolvedPackage is a package fully parameterized for orchestration.
type ResolvedPackage struct {
	BuildIndex           int              `json:"build_index"`
	Name                 string           `json:"name"`
	Version              string           `json:"version,omitempty"`
	Description          string           `json:"description"`
	GitURL               string           `json:"git_url"`
	Tag                  string           `json:"tag"`
	SourceFolder         string           `json:"source_folder"`
	InstallFolder        string           `json:"install_folder"`
	BuildFolder          string           `json:"build_folder"`
	EnvironmentVariables []EnvVar         `json:"environment_variables"`
	BuildCommands        []string         `json:"build_commands"`
	InstallCommands      []string         `json:"install_commands"`
	Dependencies         []DependencyInfo `json:"dependencies"`
}

// DependencyNames returns the names of the package's dependencies in declaration order.
func (p *ResolvedPackage) DependencyNames() []string {
	names := make([]string, 0, len(p.Dependencies))
	for _, dep := range p.Dependencies {
		names = append(names, dep.Name)
	}
	return names
}

// Commands returns the command list for a single stage.
func (p *ResolvedPackage) Commands(stage Stage) []string {
	switch stage {
	case StageBuild:
		return p.BuildCommands
	case StageInstall:
		return p.InstallCommands
	default:
		return nil
	}
}

// ResolvePlan is the ordered, fully parameterized build plan.
type ResolvePlan struct {
	GeneratedAt          time.Time
	SourceFolder         string
	InstallFolder        string
	BuildFolder          string
	EnvironmentVariables []EnvVar
	InstallOrder         []string
	Packages             map[string]*ResolvedPackage
}

// Package returns the resolved package with the given name.
func (p *ResolvePlan) Package(name string) (*ResolvedPackage, bool) {
	pkg, ok := p.Packages[name]
	return pkg, ok
}

// Names returns every package name in install order.
func (p *ResolvePlan) Names() []string {
	return slices.Clone(p.InstallOrder)
}
