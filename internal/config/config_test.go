package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.Equal(t, "info", settings.Log.Level)
	assert.Equal(t, FormatConsole, settings.Log.Format)
	assert.False(t, settings.Resolution.StrictReplacement)
	assert.False(t, settings.Output.NoColor)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	content := `
log:
  level: DEBUG
  format: json
resolution:
  strict_replacement: true
output:
  no_color: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mixinctl.yml"), []byte(content), 0o644))

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", settings.Log.Level)
	assert.Equal(t, FormatJSON, settings.Log.Format)
	assert.True(t, settings.Resolution.StrictReplacement)
	assert.True(t, settings.Output.NoColor)
}

func TestLoad_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "warn", settings.Log.Level)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("MIXINCTL_LOG_LEVEL", "error")
	t.Setenv("MIXINCTL_RESOLUTION_STRICT_REPLACEMENT", "true")

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "error", settings.Log.Level)
	assert.True(t, settings.Resolution.StrictReplacement)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "unknown level", content: "log:\n  level: verbose\n", wantErr: "log.level"},
		{name: "unknown format", content: "log:\n  format: xml\n", wantErr: "log.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mixinctl.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
