// Package detector inspects the process environment to choose how output is rendered.
package detector

import (
	"os"

	"github.com/muesli/termenv"
	"go.arieo.dev/arieo-pkg/internal/ui/output"
	"golang.org/x/term"
)

// OutputMode represents the rendering mode for the application.
type OutputMode int

const (
	// ModeAuto picks pretty or plain output from the environment.
	ModeAuto OutputMode = iota
	// ModePretty uses the full terminal color profile.
	ModePretty
	// ModePlain uses basic ANSI colors suitable for CI logs.
	ModePlain
	// ModeJSON emits log records as JSON.
	ModeJSON
	// ModeTUI shows stages in an interactive full-screen view.
	ModeTUI
)

// String returns the flag spelling of the mode.
func (m OutputMode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	case ModeTUI:
		return "tui"
	default:
		return "auto"
	}
}

// DetectEnvironment returns ModePlain when stdout is not a terminal or CI is set, ModePretty otherwise.
func DetectEnvironment() OutputMode {
	if !term.IsTerminal(int(os.Stdout.Fd())) || isCI() {
		return ModePlain
	}
	return ModePretty
}

// ResolveMode applies the user's --output flag to the auto-detected mode.
// Unknown values fall back to auto-detection.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "plain":
		return ModePlain
	case "json":
		return ModeJSON
	case "tui":
		return ModeTUI
	default:
		return autoDetected
	}
}

// Profile returns the termenv profile used by renderers in the given mode.
func Profile(mode OutputMode) func() termenv.Profile {
	if mode == ModePretty || mode == ModeTUI {
		return output.ColorProfile
	}
	return output.PlainProfile
}

// IsInteractive reports whether a confirmation prompt can be answered on stdin.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && !isCI()
}

func isCI() bool {
	ci := os.Getenv("CI")
	return ci == "true" || ci == "1"
}
