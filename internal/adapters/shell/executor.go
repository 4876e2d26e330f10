// Package shell runs package commands through the system shell.
package shell

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/creack/pty"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// Executor implements ports.Executor. Commands run under a pseudo-terminal when
// the platform supports one, so tools keep their interactive output; otherwise
// they run with plain pipes.
type Executor struct{}

// NewExecutor creates a new Executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute runs cmd.Line with the platform shell in cmd.Dir with exactly cmd.Env.
// The returned error is non-nil only when the command could not be run to completion;
// a command that ran and failed reports its status through the exit code.
func (e *Executor) Execute(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) (int, error) {
	if cmd.Dir != "" {
		info, err := os.Stat(cmd.Dir)
		if err != nil {
			return -1, zerr.With(zerr.Wrap(err, "working directory is not accessible"), "dir", cmd.Dir)
		}
		if !info.IsDir() {
			return -1, zerr.With(zerr.New("working directory is not a directory"), "dir", cmd.Dir)
		}
	}

	proc, err := startPTY(ctx, cmd, stdout)
	if err != nil {
		proc, err = startPipes(ctx, cmd, stdout, stderr)
	}
	if err != nil {
		return -1, zerr.With(zerr.Wrap(err, "failed to start shell"), "command", cmd.Line)
	}

	if err := proc.wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return -1, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, zerr.Wrap(err, "failed to wait for shell")
	}

	return 0, nil
}

type process struct {
	cmd    *exec.Cmd
	ioDone <-chan struct{}
}

func (p *process) wait() error {
	err := p.cmd.Wait()
	if p.ioDone != nil {
		<-p.ioDone
	}
	return err
}

// startPTY starts the command attached to a pseudo-terminal.
// Output of both streams is merged onto stdout.
func startPTY(ctx context.Context, cmd *domain.Command, stdout io.Writer) (*process, error) {
	c := newCmd(ctx, cmd)
	ptmx, err := pty.Start(c)
	if err != nil {
		return nil, err
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		_, _ = io.Copy(stdout, ptmx)
	}()

	return &process{cmd: c, ioDone: ioDone}, nil
}

func startPipes(ctx context.Context, cmd *domain.Command, stdout, stderr io.Writer) (*process, error) {
	c := newCmd(ctx, cmd)
	c.Stdout = stdout
	c.Stderr = stderr
	if err := c.Start(); err != nil {
		return nil, err
	}
	return &process{cmd: c}, nil
}

func newCmd(ctx context.Context, cmd *domain.Command) *exec.Cmd {
	name, args := shellCommand(runtime.GOOS, cmd.Line)

	executable := name
	if lp, err := lookPath(name, cmd.Env); err == nil {
		executable = lp
	}

	c := exec.CommandContext(ctx, executable, args...) //nolint:gosec // commands come from package descriptors
	c.Args[0] = name
	c.Dir = cmd.Dir
	c.Env = cmd.Env
	return c
}

// shellCommand returns the shell invocation for line on the given OS.
func shellCommand(goos, line string) (string, []string) {
	if goos == "windows" {
		return "cmd", []string{"/C", line}
	}
	return "sh", []string{"-c", line}
}

// lookPath searches the PATH of env for an executable.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if v, ok := strings.CutPrefix(e, "PATH="); ok {
			path = v
		}
	}

	if path == "" {
		return exec.LookPath(file)
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if runtime.GOOS == "windows" {
			candidate += ".exe"
		}
		if err := findExecutable(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && (runtime.GOOS == "windows" || m&0o111 != 0) {
		return nil
	}
	return os.ErrPermission
}
