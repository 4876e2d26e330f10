// Package config loads the workspace manifest and package descriptors.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ManifestLoader for package.manifest.yaml.
type Loader struct {
	FS     FileSystem
	Logger ports.Logger
}

// NewLoader creates a Loader reading from the OS filesystem.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{FS: NewOSFS(), Logger: logger}
}

// Load reads the manifest at path, relative to cwd when not absolute.
// An empty path searches cwd and its parents for package.manifest.yaml.
func (l *Loader) Load(cwd, path string) (*domain.Manifest, error) {
	manifestPath, err := l.findManifest(cwd, path)
	if err != nil {
		return nil, err
	}

	data, err := l.FS.ReadFile(manifestPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestReadFailed, err.Error()), "path", manifestPath)
	}

	var file manifestFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrManifestParseFailed, err.Error()), "path", manifestPath)
	}

	dir := filepath.Dir(manifestPath)
	m := &domain.Manifest{
		Path:          manifestPath,
		Dir:           dir,
		SourceFolder:  resolvePath(dir, withDefault(file.SourceFolder, domain.DefaultSourceFolder)),
		InstallFolder: resolvePath(dir, withDefault(file.InstallFolder, domain.DefaultInstallFolder)),
		BuildFolder:   resolvePath(dir, withDefault(file.BuildFolder, domain.DefaultBuildFolder)),
	}
	m.ResolveFile = domain.DefaultResolveFile(m.InstallFolder)
	if file.ResolveFile != "" {
		m.ResolveFile = resolvePath(dir, file.ResolveFile)
	}

	if err := l.loadPackages(m, &file.Packages); err != nil {
		return nil, zerr.With(err, "path", manifestPath)
	}

	return m, nil
}

func (l *Loader) findManifest(cwd, path string) (string, error) {
	if path != "" {
		if !filepath.IsAbs(path) {
			path = filepath.Join(cwd, path)
		}
		path = filepath.Clean(path)
		if _, err := l.FS.Stat(path); err != nil {
			return "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "manifest file does not exist"), "path", path)
		}
		return path, nil
	}

	current := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(current, domain.ManifestFileName)
		if info, err := l.FS.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return "", zerr.With(zerr.Wrap(domain.ErrManifestNotFound, "no manifest in the directory or its parents"), "cwd", cwd)
}

// loadPackages decodes the category map in declaration order.
func (l *Loader) loadPackages(m *domain.Manifest, node *yaml.Node) error {
	if node.Kind == 0 || node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return zerr.With(zerr.Wrap(domain.ErrManifestParseFailed, "packages must map categories to package lists"), "line", node.Line)
	}

	seen := make(map[string]string)
	for i := 0; i+1 < len(node.Content); i += 2 {
		category := node.Content[i].Value
		var entries []packageEntry
		if err := node.Content[i+1].Decode(&entries); err != nil {
			return zerr.With(zerr.Wrap(domain.ErrManifestParseFailed, err.Error()), "category", category)
		}

		for idx, entry := range entries {
			spec, err := l.resolveEntry(m, category, entry)
			if err != nil {
				err = zerr.With(err, "category", category)
				return zerr.With(err, "entry", idx+1)
			}
			if previous, dup := seen[spec.Name]; dup {
				err := zerr.With(zerr.Wrap(domain.ErrDuplicatePackage, "package declared twice"), "package", spec.Name)
				return zerr.With(err, "categories", []string{previous, category})
			}
			seen[spec.Name] = category
			m.Packages = append(m.Packages, spec)
		}
	}

	return nil
}

func (l *Loader) resolveEntry(m *domain.Manifest, category string, e packageEntry) (domain.PackageSpec, error) {
	if e.Local != "" {
		if e.GitURL != "" || e.Git != "" {
			l.warn(fmt.Sprintf("package entry %q in %q declares both a local path and a git source, using the local path", e.Local, category))
		}
		return l.resolveLocal(m, category, e)
	}

	url, tag := e.GitURL, withDefault(e.Tag, domain.DefaultTag)
	if e.Git != "" {
		url, tag = splitGitRef(e.Git)
	}
	if url == "" {
		return domain.PackageSpec{}, zerr.Wrap(domain.ErrInvalidPackageEntry, "package entry has no source")
	}

	name := withDefault(e.Name, domain.CanonicalName(url))
	folder := domain.GitFolderName(category, name, tag)
	return domain.PackageSpec{
		Name:         name,
		Category:     category,
		Kind:         domain.SourceGit,
		GitURL:       url,
		Tag:          tag,
		SourceFolder: filepath.Join(m.SourceFolder, filepath.FromSlash(folder)),
		FolderName:   folder,
	}, nil
}

func (l *Loader) resolveLocal(m *domain.Manifest, category string, e packageEntry) (domain.PackageSpec, error) {
	path := resolvePath(m.Dir, e.Local)
	if ok, err := l.FS.IsDir(path); err != nil || !ok {
		return domain.PackageSpec{}, zerr.With(zerr.Wrap(domain.ErrLocalPackageNotFound, "local package is not a directory"), "local", path)
	}

	name := withDefault(e.Name, filepath.Base(path))
	return domain.PackageSpec{
		Name:         name,
		Category:     category,
		Kind:         domain.SourceLocal,
		Tag:          domain.LocalTag,
		LocalPath:    path,
		SourceFolder: path,
		FolderName:   domain.LocalFolderName(category, name),
	}, nil
}

func (l *Loader) warn(msg string) {
	if l.Logger != nil {
		l.Logger.Warn(msg)
	}
}

// splitGitRef splits "url@tag" at the last "@". An "@" that belongs to the
// url itself, as in "git@host:org/repo.git", does not start a tag.
func splitGitRef(ref string) (string, string) {
	i := strings.LastIndex(ref, "@")
	if i <= 0 || strings.ContainsAny(ref[i+1:], "/:") {
		return ref, domain.DefaultTag
	}
	return ref[:i], withDefault(ref[i+1:], domain.DefaultTag)
}

// resolvePath expands ${CUR_MANIFEST_FILE_DIR} and environment variables, then
// makes the result absolute against the manifest directory.
func resolvePath(dir, value string) string {
	value = expand(dir, value)
	if !filepath.IsAbs(value) {
		value = filepath.Join(dir, value)
	}
	return filepath.Clean(value)
}

// expand substitutes the manifest directory and set environment variables.
// References to unset variables are left as written.
func expand(dir, value string) string {
	value = strings.ReplaceAll(value, "${"+domain.ManifestDirVar+"}", dir)
	return os.Expand(value, func(name string) string {
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return "${" + name + "}"
	})
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
