package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellCommand(t *testing.T) {
	name, args := shellCommand("linux", "cmake --build .")
	assert.Equal(t, "sh", name)
	assert.Equal(t, []string{"-c", "cmake --build ."}, args)

	name, args = shellCommand("windows", "cmake --build .")
	assert.Equal(t, "cmd", name)
	assert.Equal(t, []string{"/C", "cmake --build ."}, args)
}

func TestLookPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bits are not used on windows")
	}

	dir := t.TempDir()
	tool := filepath.Join(dir, "arieo-tool")
	require.NoError(t, os.WriteFile(tool, []byte("#!/bin/sh\n"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "not-exec"), []byte(""), 0o644))

	got, err := lookPath("arieo-tool", []string{"HOME=/tmp", "PATH=/nonexistent" + string(os.PathListSeparator) + dir})
	require.NoError(t, err)
	assert.Equal(t, tool, got)

	_, err = lookPath("not-exec", []string{"PATH=" + dir})
	require.ErrorIs(t, err, exec.ErrNotFound)

	_, err = lookPath("missing-tool", []string{"PATH=" + dir})
	require.ErrorIs(t, err, exec.ErrNotFound)
}
