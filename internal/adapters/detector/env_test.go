package detector_test

import (
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"go.arieo.dev/arieo-pkg/internal/adapters/detector"
)

func TestDetectEnvironment_CI(t *testing.T) {
	for _, ci := range []string{"true", "1"} {
		t.Run("CI="+ci, func(t *testing.T) {
			t.Setenv("CI", ci)
			assert.Equal(t, detector.ModePlain, detector.DetectEnvironment())
			assert.False(t, detector.IsInteractive())
		})
	}
}

func TestDetectEnvironment_NoTerminal(t *testing.T) {
	// go test does not attach stdout to a terminal.
	t.Setenv("CI", "")
	assert.Equal(t, detector.ModePlain, detector.DetectEnvironment())
}

func TestResolveMode(t *testing.T) {
	tests := []struct {
		name         string
		autoDetected detector.OutputMode
		userFlag     string
		expected     detector.OutputMode
	}{
		{name: "auto keeps detection", autoDetected: detector.ModePretty, userFlag: "auto", expected: detector.ModePretty},
		{name: "empty keeps detection", autoDetected: detector.ModePlain, userFlag: "", expected: detector.ModePlain},
		{name: "pretty overrides", autoDetected: detector.ModePlain, userFlag: "pretty", expected: detector.ModePretty},
		{name: "plain overrides", autoDetected: detector.ModePretty, userFlag: "plain", expected: detector.ModePlain},
		{name: "json overrides", autoDetected: detector.ModePretty, userFlag: "json", expected: detector.ModeJSON},
		{name: "tui overrides", autoDetected: detector.ModePlain, userFlag: "tui", expected: detector.ModeTUI},
		{name: "unknown falls back", autoDetected: detector.ModePretty, userFlag: "fancy", expected: detector.ModePretty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, detector.ResolveMode(tt.autoDetected, tt.userFlag))
		})
	}
}

func TestOutputMode_String(t *testing.T) {
	assert.Equal(t, "auto", detector.ModeAuto.String())
	assert.Equal(t, "pretty", detector.ModePretty.String())
	assert.Equal(t, "plain", detector.ModePlain.String())
	assert.Equal(t, "json", detector.ModeJSON.String())
	assert.Equal(t, "tui", detector.ModeTUI.String())
}

func TestProfile_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	assert.Equal(t, termenv.Ascii, detector.Profile(detector.ModePretty)())
	assert.Equal(t, termenv.Ascii, detector.Profile(detector.ModePlain)())
}
