package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// CleanOptions configures the Clean method.
type CleanOptions struct {
	Manifest string
	// Build removes the build root.
	Build bool
	// Install removes the install root and the resolve file.
	Install bool
}

// Clean removes the workspace folders named by the manifest.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	manifest, err := a.loadManifest(opts.Manifest)
	if err != nil {
		return err
	}

	var errs error

	remove := func(path, name string) {
		if err := checkRemovable(path, manifest.Dir); err != nil {
			errs = errors.Join(errs, err)
			return
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return
		}
		a.logger.Info(fmt.Sprintf("removing %s %s...", name, path))
		if err := os.RemoveAll(path); err != nil {
			err = zerr.With(zerr.Wrap(domain.ErrCleanFailed, err.Error()), "path", path)
			errs = errors.Join(errs, err)
			return
		}
		a.logger.Info(fmt.Sprintf("removed %s", name))
	}

	if opts.Build {
		remove(manifest.BuildFolder, "build folder")
	}
	if opts.Install {
		remove(manifest.ResolveFile, "resolve file")
		remove(manifest.InstallFolder, "install folder")
	}

	return errs
}

// checkRemovable refuses the filesystem root and any folder containing the manifest.
func checkRemovable(path, manifestDir string) error {
	clean := filepath.Clean(path)
	if clean == filepath.Dir(clean) {
		return zerr.With(zerr.Wrap(domain.ErrCleanFailed, "refusing to remove filesystem root"), "path", path)
	}
	rel, err := filepath.Rel(clean, manifestDir)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.Wrap(domain.ErrCleanFailed, "refusing to remove folder containing the manifest"), "path", path)
	}
	return nil
}
