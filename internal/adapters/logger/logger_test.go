package logger_test

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.arieo.dev/arieo-pkg/internal/adapters/logger"
	"go.arieo.dev/arieo-pkg/internal/core/domain"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with colors disabled.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Info(t *testing.T) {
	tests := []struct {
		name       string
		msg        string
		goldenName string
	}{
		{name: "simple message", msg: "Resolved 3 packages", goldenName: "info_basic"},
		{name: "multiline message", msg: "Total combinations: 2\nTotal builds: 3 × 2 = 6", goldenName: "info_multiline"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Info(tt.msg)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Warn(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Warn("descriptor name \"arieo-core\" differs from manifest name \"core\"")

	g := goldie.New(t)
	g.Assert(t, "warn_basic", buf.Bytes())
}

func TestLogger_Error(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		goldenName string
	}{
		{
			name:       "simple error",
			err:        os.ErrPermission,
			goldenName: "error_simple",
		},
		{
			name:       "multiline error",
			err:        errors.New("yaml: unmarshal errors:\n  line 4: cannot unmarshal !!seq into string"),
			goldenName: "error_multiline",
		},
		{
			name: "domain error with metadata",
			err: func() error {
				err := zerr.Wrap(domain.ErrCommandFailed, "command exited with non-zero status")
				err = zerr.With(err, "package", "core")
				err = zerr.With(err, "stage", "build")
				return zerr.With(err, "exit_code", 2)
			}(),
			goldenName: "error_command_failed",
		},
		{
			name: "list metadata",
			err: zerr.With(
				zerr.Wrap(domain.ErrDependencyConflict, "dependents require different tags"),
				"requests", []string{"render@v1.0", "audio@v2.0"},
			),
			goldenName: "error_metadata_list",
		},
		{
			name: "three level chain",
			err: zerr.Wrap(
				zerr.With(zerr.Wrap(errors.New("exit status 128"), "git clone failed"), "url", "https://example.com/core.git"),
				"failed to fetch package sources",
			),
			goldenName: "error_chain_three",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lg, buf := newTestLogger(t)
			lg.Error(tt.err)

			g := goldie.New(t)
			g.Assert(t, tt.goldenName, buf.Bytes())
		})
	}
}

func TestLogger_Error_StdlibChain(t *testing.T) {
	inner := errors.New("connection refused")
	outer := fmt.Errorf("failed to fetch: %w", inner)

	lg, buf := newTestLogger(t)
	lg.Error(outer)

	assert.Equal(t, "✗ Error: failed to fetch: connection refused\n", buf.String())
}

func TestLogger_Error_Nil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)

	assert.Empty(t, buf.String())
}

func TestLogger_SetJSON_WithMetadata(t *testing.T) {
	err := zerr.With(zerr.Wrap(errors.New("exit status 1"), "git fetch failed"), "package", "core")

	lg, buf := newTestLogger(t)
	lg.SetJSON(true)
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.Contains(t, out, `"error":"git fetch failed: exit status 1"`)
	assert.Contains(t, out, `"package":"core"`)
	assert.NotContains(t, out, "✗")
}

func TestLogger_FormatSwitching(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Error(errors.New("pretty"))
	pretty := buf.String()
	buf.Reset()

	lg.SetJSON(true)
	lg.Info("json")
	jsonOut := buf.String()
	buf.Reset()

	lg.SetJSON(false)
	lg.Error(errors.New("pretty again"))
	back := buf.String()

	assert.Contains(t, pretty, "✗")
	assert.Contains(t, jsonOut, `"msg":"json"`)
	assert.Contains(t, back, "✗ Error: pretty again")
}

func TestLogger_SetOutput_Nil(t *testing.T) {
	require.NotPanics(t, func() {
		lg := logger.New().(*logger.Logger)
		lg.SetOutput(nil)
	})
}

func TestLogger_ConcurrentAccess(t *testing.T) {
	lg, _ := newTestLogger(t)

	var wg sync.WaitGroup
	for i := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch i % 4 {
			case 0:
				lg.Info("info")
			case 1:
				lg.Warn("warn")
			case 2:
				lg.Error(errors.New("error"))
			default:
				lg.SetJSON(i%2 == 0)
			}
		}()
	}
	wg.Wait()
}
