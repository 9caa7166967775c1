package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/types"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	noColor := color.NoColor
	t.Cleanup(func() { color.NoColor = noColor })

	var out, errOut bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color", "--config", ""))
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "mixinctl", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "scenarios", "plan", "completion"} {
		assert.Contains(t, names, expected)
	}

	for _, flag := range []string{"config", "no-color", "strict", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	Version = "1.0.0-test"
	GitCommit = "abc123"
	t.Cleanup(func() { Version, GitCommit = "dev", "unknown" })

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mixinctl version: 1.0.0-test")
	assert.Contains(t, stdout, "Git commit: abc123")
	assert.Contains(t, stdout, "Go version: go")
}

func TestScenariosCommand(t *testing.T) {
	stdout, _, err := execute(t, "scenarios")
	require.NoError(t, err)
	for _, name := range []string{"inheritance", "replacement", "replacement-missing", "closed-generic", "cycle"} {
		assert.Contains(t, stdout, name)
	}
	assert.True(t, strings.HasPrefix(stdout, "Name"))
}

func TestPlanCommand(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		stdout, _, err := execute(t, "plan", "inheritance")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Plan for Derived (scenario inheritance)")
		assert.Contains(t, stdout, "Mixins:        2")

		logging := strings.Index(stdout, "Logging")
		auditing := strings.Index(stdout, "Auditing")
		require.Positive(t, logging)
		assert.Less(t, logging, auditing)
	})

	t.Run("json", func(t *testing.T) {
		stdout, _, err := execute(t, "plan", "layered", "--target", "Derived", "--json")
		require.NoError(t, err)

		var view PlanView
		require.NoError(t, json.Unmarshal([]byte(stdout), &view))
		assert.Equal(t, "layered", view.Scenario)
		assert.Equal(t, types.TypeID("Derived"), view.Target)
		require.Len(t, view.Mixins, 2)
		assert.Equal(t, types.TypeID("Logging"), view.Mixins[0].Type)
		assert.Equal(t, types.TypeID("Auditing"), view.Mixins[1].Type)
		assert.Equal(t, []types.TypeID{"Logging"}, view.Mixins[1].Dependencies)
		assert.Equal(t, []types.TypeID{"IEntity", "IAuditable"}, view.Interfaces)
		assert.NotEmpty(t, view.Configuration)
		assert.Empty(t, view.Errors)
	})

	t.Run("unconfigured target", func(t *testing.T) {
		stdout, _, err := execute(t, "plan", "inheritance", "--target", "Pipeline")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Pipeline has no mixins configured")
	})

	t.Run("build errors", func(t *testing.T) {
		_, stderr, err := execute(t, "plan", "cycle")
		require.ErrorIs(t, err, ErrPlanFailed)
		assert.Contains(t, stderr, "BUILD FAILED")
		assert.Contains(t, stderr, "MIX200")
	})

	t.Run("strict json errors", func(t *testing.T) {
		stdout, _, err := execute(t, "plan", "replacement-missing", "--strict", "--json")
		require.ErrorIs(t, err, ErrPlanFailed)

		var view PlanView
		require.NoError(t, json.Unmarshal([]byte(stdout), &view))
		require.Len(t, view.Errors, 1)
		assert.Equal(t, errors.ErrCodeMissingReplacement, view.Errors[0].Code)
	})

	t.Run("lenient by default", func(t *testing.T) {
		stdout, _, err := execute(t, "plan", "replacement-missing")
		require.NoError(t, err)
		assert.Contains(t, stdout, "V1Behavior")
	})

	t.Run("unknown scenario", func(t *testing.T) {
		_, stderr, err := execute(t, "plan", "inheritnce")
		require.Error(t, err)
		assert.Contains(t, stderr, "SCENARIO NOT FOUND")
		assert.Contains(t, stderr, "Did you mean: inheritance?")
	})

	t.Run("argument count", func(t *testing.T) {
		_, _, err := execute(t, "plan")
		assert.Error(t, err)
	})
}

func TestCompletionCommand(t *testing.T) {
	stdout, _, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, stdout, "mixinctl")

	_, _, err = execute(t, "completion", "tcsh")
	assert.Error(t, err)
}
