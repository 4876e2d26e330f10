// Package git obtains package sources by cloning or updating git checkouts.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.arieo.dev/arieo-pkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// runFunc runs git with args in dir and returns its combined output.
type runFunc func(ctx context.Context, dir string, args ...string) ([]byte, error)

// Fetcher implements ports.SourceFetcher using the git command line.
type Fetcher struct {
	logger ports.Logger
	run    runFunc
}

// NewFetcher creates a new Fetcher.
func NewFetcher(logger ports.Logger) *Fetcher {
	return &Fetcher{logger: logger, run: runGit}
}

// Fetch clones url at ref into destDir, or updates the checkout already there.
func (f *Fetcher) Fetch(ctx context.Context, url, ref, destDir string) (string, error) {
	info, err := os.Stat(destDir)
	switch {
	case err == nil && !info.IsDir():
		return "", fetchError("destination is not a directory", url, ref, destDir, nil)
	case err == nil:
		if _, gitErr := os.Stat(filepath.Join(destDir, ".git")); gitErr != nil {
			return "", fetchError("destination exists and is not a git checkout", url, ref, destDir, nil)
		}
		return destDir, f.update(ctx, url, ref, destDir)
	case errors.Is(err, fs.ErrNotExist):
		return destDir, f.clone(ctx, url, ref, destDir)
	default:
		return "", fetchError("failed to inspect destination", url, ref, destDir, err)
	}
}

func (f *Fetcher) clone(ctx context.Context, url, ref, destDir string) error {
	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return fetchError("failed to create source folder", url, ref, destDir, err)
	}

	if _, err := f.run(ctx, parent, "clone", "--branch", ref, url, destDir); err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	// --branch rejects commit hashes; retry with a plain clone and an explicit checkout.
	_ = os.RemoveAll(destDir)
	if out, err := f.run(ctx, parent, "clone", url, destDir); err != nil {
		return fetchError("git clone failed", url, ref, destDir, outputError(err, out))
	}
	if out, err := f.run(ctx, destDir, "checkout", ref); err != nil {
		f.logger.Warn(fmt.Sprintf("Could not checkout %s in %s, staying on the default branch: %s",
			ref, destDir, strings.TrimSpace(string(out))))
	}
	return nil
}

func (f *Fetcher) update(ctx context.Context, url, ref, destDir string) error {
	if out, err := f.run(ctx, destDir, "fetch", "--all"); err != nil {
		return fetchError("git fetch failed", url, ref, destDir, outputError(err, out))
	}
	if out, err := f.run(ctx, destDir, "checkout", ref); err != nil {
		f.logger.Warn(fmt.Sprintf("Could not checkout %s in %s: %s", ref, destDir, strings.TrimSpace(string(out))))
	}
	// Pull fails on a detached tag checkout, which is expected.
	_, _ = f.run(ctx, destDir, "pull")
	return ctx.Err()
}

func runGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

func outputError(err error, out []byte) error {
	if msg := strings.TrimSpace(string(out)); msg != "" {
		return zerr.With(zerr.Wrap(err, "git reported an error"), "output", msg)
	}
	return err
}

func fetchError(msg, url, ref, destDir string, cause error) error {
	err := zerr.Wrap(domain.ErrFetchFailed, msg)
	err = zerr.With(err, "url", url)
	err = zerr.With(err, "ref", ref)
	err = zerr.With(err, "path", destDir)
	if cause != nil {
		err = zerr.With(err, "cause", cause.Error())
	}
	return err
}
