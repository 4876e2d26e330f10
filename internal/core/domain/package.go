// Package domain contains the core models of the package resolver and build orchestrator.
package domain

import (
	"path"
	"strings"
)

// SourceKind tells how a package's sources are obtained.
type SourceKind int

const (
	// SourceGit is a version-controlled source fetched at a tag or branch.
	SourceGit SourceKind = iota
	// SourceLocal is a source folder already present on disk.
	SourceLocal
)

// PackageSpec is a package as declared by the manifest, before resolution.
type PackageSpec struct {
	// Name is the unique package name, derived from the source when the manifest omits it.
	Name string
	// Category is an optional grouping label used only for folder layout.
	Category string
	// Kind selects between GitURL/Tag and LocalPath.
	Kind SourceKind
	// GitURL is the repository URL for SourceGit specs.
	GitURL string
	// Tag is the tag or branch for SourceGit specs, LocalTag for SourceLocal specs.
	Tag string
	// LocalPath is the absolute source folder for SourceLocal specs.
	LocalPath string
	// SourceFolder is the absolute folder the sources live in once fetched.
	SourceFolder string
	// FolderName is the relative folder used under the build and install roots.
	FolderName string
}

// IsLocal reports whether the spec points at a local source folder.
func (s *PackageSpec) IsLocal() bool {
	return s.Kind == SourceLocal
}

// PackageDescriptor is the metadata a package declares in its own source folder.
type PackageDescriptor struct {
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	Description     string         `json:"description"`
	Dependencies    DescriptorDeps `json:"dependencies"`
	BuildCommands   []string       `json:"build_commands"`
	InstallCommands []string       `json:"install_commands"`
}

// DescriptorDeps groups the dependency declarations of a descriptor.
type DescriptorDeps struct {
	Packages []DependencyRef `json:"packages"`
}

// DependencyRef references another package by source and tag.
type DependencyRef struct {
	GitURL string `json:"git_url"`
	Tag    string `json:"tag"`
}

// Name returns the canonical name of the referenced package.
func (r DependencyRef) Name() string {
	return CanonicalName(r.GitURL)
}

// RequestedTag returns the tag the reference asks for, DefaultTag when empty.
func (r DependencyRef) RequestedTag() string {
	if r.Tag == "" {
		return DefaultTag
	}
	return r.Tag
}

// CanonicalName derives a package name from a source reference:
// trailing slashes are dropped, the last path segment is kept and a ".git" suffix removed.
func CanonicalName(ref string) string {
	ref = strings.TrimRight(ref, "/")
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		ref = ref[i+1:]
	}
	return strings.TrimSuffix(ref, ".git")
}

// GitFolderName returns the layout folder of a git package: "<category>/<name>-<tag>".
func GitFolderName(category, name, tag string) string {
	return joinCategory(category, name+"-"+tag)
}

// LocalFolderName returns the layout folder of a local package: "<category>/<name>".
func LocalFolderName(category, name string) string {
	return joinCategory(category, name)
}

func joinCategory(category, folder string) string {
	if category == "" {
		return folder
	}
	return path.Join(category, folder)
}
