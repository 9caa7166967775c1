package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatError(t *testing.T) {
	tests := []struct {
		name     string
		opts     ErrorOptions
		contains []string
		excludes []string
	}{
		{
			name: "basic error",
			opts: ErrorOptions{
				Level:   ErrorLevelError,
				Context: "scenario not found",
				Problem: "Cannot find scenario 'x'.",
			},
			contains: []string{"❌", "SCENARIO NOT FOUND: Cannot find scenario 'x'."},
			excludes: []string{"Did you mean"},
		},
		{
			name: "suggestions and help",
			opts: ErrorOptions{
				Level:        ErrorLevelError,
				Problem:      "Cannot find scenario 'cycel'.",
				Suggestions:  []string{"cycle"},
				HelpCommands: []string{"See all scenarios: mixinctl scenarios"},
			},
			contains: []string{"Did you mean: cycle?", "→ See all scenarios: mixinctl scenarios"},
		},
		{
			name:     "warning",
			opts:     ErrorOptions{Level: ErrorLevelWarning, Problem: "nothing configured", Consequence: "empty plan"},
			contains: []string{"⚠️ nothing configured", "   empty plan"},
		},
		{
			name:     "info",
			opts:     ErrorOptions{Level: ErrorLevelInfo, Problem: "hello"},
			contains: []string{"ℹ️ hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NoColor = true
			output := FormatError(tt.opts)
			for _, want := range tt.contains {
				assert.Contains(t, output, want)
			}
			for _, unwanted := range tt.excludes {
				assert.NotContains(t, output, unwanted)
			}
			assert.NotContains(t, output, "\x1b[")
		})
	}
}

func TestScenarioNotFoundError(t *testing.T) {
	output := ScenarioNotFoundError("inheritence", []string{"inheritance"}, true)
	assert.Contains(t, output, "SCENARIO NOT FOUND")
	assert.Contains(t, output, "Cannot find scenario 'inheritence'.")
	assert.Contains(t, output, "Did you mean: inheritance?")
	assert.Contains(t, output, "mixinctl scenarios")
}

func TestBuildFailedError(t *testing.T) {
	output := BuildFailedError("cycle", 1, true)
	assert.Contains(t, output, "BUILD FAILED")
	assert.Contains(t, output, "Scenario 'cycle' has 1 configuration error(s).")
	assert.Contains(t, output, "mixinctl plan cycle --json")
}

func TestWriteHelpers(t *testing.T) {
	var buf bytes.Buffer
	WriteSuccess(&buf, "built", true)
	assert.Equal(t, "✓ built\n", buf.String())

	buf.Reset()
	WriteError(&buf, ErrorOptions{Problem: "boom", NoColor: true})
	assert.Equal(t, "❌ boom\n", buf.String())

	assert.Contains(t, Warning("careful", []string{"x"}, true), "Did you mean: x?")
}
