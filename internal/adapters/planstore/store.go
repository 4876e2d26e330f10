// Package planstore persists the resolve plan as an indented JSON document.
package planstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Store implements ports.PlanStore on the local filesystem.
type Store struct {
	now func() time.Time
}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{now: time.Now}
}

// Save writes the plan to path atomically. Packages are written in install order.
func (s *Store) Save(path string, plan *domain.ResolvePlan) error {
	generated := plan.GeneratedAt
	if generated.IsZero() {
		generated = s.now()
	}

	env := plan.EnvironmentVariables
	if env == nil {
		env = []domain.EnvVar{}
	}
	order := plan.InstallOrder
	if order == nil {
		order = []string{}
	}
	for _, name := range order {
		if _, ok := plan.Packages[name]; !ok {
			err := zerr.Wrap(domain.ErrResolveFileWriteFailed, "install order names a package missing from the plan")
			return zerr.With(err, "package", name)
		}
	}

	doc := document{
		GeneratedAt:          generated.UTC().Format(time.RFC3339),
		SourceFolder:         plan.SourceFolder,
		InstallFolder:        plan.InstallFolder,
		BuildFolder:          plan.BuildFolder,
		EnvironmentVariables: env,
		InstallOrder:         order,
		Packages:             orderedPackages{order: order, byName: plan.Packages},
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return writeError(err, "failed to encode resolve plan", path)
	}
	data := buf.Bytes()

	return writeAtomic(path, data)
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return writeError(err, "failed to create resolve file directory", path)
	}

	tmpFile, err := os.CreateTemp(dir, ".arieo-resolve-*.json")
	if err != nil {
		return writeError(err, "failed to create temp file", path)
	}
	tmpName := tmpFile.Name()

	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return writeError(err, "failed to write temp file", path)
	}
	if err := tmpFile.Close(); err != nil {
		return writeError(err, "failed to close temp file", path)
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return writeError(err, "failed to set resolve file permissions", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return writeError(err, "failed to move resolve file into place", path)
	}
	return nil
}

func writeError(cause error, msg, path string) error {
	err := zerr.Wrap(domain.ErrResolveFileWriteFailed, msg)
	err = zerr.With(err, "path", path)
	return zerr.With(err, "cause", cause.Error())
}

// Load reads the plan stored at path.
func (s *Store) Load(path string) (*domain.ResolvePlan, error) {
	//nolint:gosec // Path is provided by the manifest.
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(zerr.Wrap(domain.ErrResolveFileNotFound, "run init first"), "path", path)
		}
		return nil, corrupt("failed to read resolve file", path, err)
	}

	var doc loadDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, corrupt("invalid JSON", path, err)
	}
	if doc.InstallOrder == nil {
		return nil, corrupt("missing install_order", path, nil)
	}
	if doc.Packages == nil {
		return nil, corrupt("missing packages", path, nil)
	}
	if len(doc.InstallOrder) != len(doc.Packages) {
		return nil, corrupt("install_order and packages disagree", path, nil)
	}
	seen := make(map[string]bool, len(doc.InstallOrder))
	for _, name := range doc.InstallOrder {
		if seen[name] {
			return nil, zerr.With(corrupt("install_order repeats a package", path, nil), "package", name)
		}
		seen[name] = true

		pkg, ok := doc.Packages[name]
		if !ok || pkg == nil {
			return nil, zerr.With(corrupt("install_order names an unknown package", path, nil), "package", name)
		}
		if err := normalizeScopes(pkg.EnvironmentVariables, path); err != nil {
			return nil, zerr.With(err, "package", name)
		}
	}
	if err := normalizeScopes(doc.EnvironmentVariables, path); err != nil {
		return nil, err
	}

	plan := &domain.ResolvePlan{
		SourceFolder:         doc.SourceFolder,
		InstallFolder:        doc.InstallFolder,
		BuildFolder:          doc.BuildFolder,
		EnvironmentVariables: doc.EnvironmentVariables,
		InstallOrder:         slices.Clone(doc.InstallOrder),
		Packages:             doc.Packages,
	}
	if generated, err := time.Parse(time.RFC3339, doc.GeneratedAt); err == nil {
		plan.GeneratedAt = generated
	}
	return plan, nil
}

// normalizeScopes types untyped declarations as public and rejects unknown types.
func normalizeScopes(vars []domain.EnvVar, path string) error {
	for i := range vars {
		switch vars[i].Type {
		case domain.Public, domain.Private:
		case "":
			vars[i].Type = domain.Public
		default:
			err := zerr.With(corrupt("unknown environment variable type", path, nil), "variable", vars[i].Name)
			return zerr.With(err, "type", string(vars[i].Type))
		}
	}
	return nil
}

func corrupt(msg, path string, cause error) error {
	err := zerr.With(zerr.Wrap(domain.ErrResolveFileCorrupt, msg), "path", path)
	if cause != nil {
		err = zerr.With(err, "cause", cause.Error())
	}
	return err
}
