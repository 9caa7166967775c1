package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/internal/cli/ui"
	"github.com/conduit-lang/mixins/internal/samples"
	utilstrings "github.com/conduit-lang/mixins/internal/util/strings"
	"github.com/conduit-lang/mixins/pkg/errors"
	"github.com/conduit-lang/mixins/pkg/mixins"
	"github.com/conduit-lang/mixins/pkg/model"
	"github.com/conduit-lang/mixins/pkg/types"
)

// ErrPlanFailed is returned when a scenario does not build
var ErrPlanFailed = fmt.Errorf("configuration failed to build")

// PlanView is the JSON form of a resolved plan
type PlanView struct {
	Scenario      string                `json:"scenario"`
	Target        types.TypeID          `json:"target"`
	Configuration string                `json:"configuration,omitempty"`
	Mixins        []MixinView           `json:"mixins"`
	Interfaces    []types.TypeID        `json:"composed_interfaces"`
	Errors        []*errors.ConfigError `json:"errors,omitempty"`
}

// MixinView is the JSON form of one planned mixin
type MixinView struct {
	Type         types.TypeID   `json:"type"`
	Kind         string         `json:"kind"`
	Visibility   string         `json:"visibility"`
	Dependencies []types.TypeID `json:"dependencies,omitempty"`
	Origin       string         `json:"origin"`
}

func newPlanCommand(s *session) *cobra.Command {
	var (
		asJSON bool
		target string
	)

	cmd := &cobra.Command{
		Use:   "plan <scenario>",
		Short: "Print the resolved mixin plan of a scenario",
		Long: `Build a sample scenario and print the ordered mixins and composed
interfaces of its target type.`,
		Example: `  mixinctl plan inheritance
  mixinctl plan layered --target Derived
  mixinctl plan replacement-missing --strict --json`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			return samples.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, s, args[0], target, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the plan as JSON")
	cmd.Flags().StringVar(&target, "target", "", "Resolve this type instead of the scenario's target")

	return cmd
}

func runPlan(cmd *cobra.Command, s *session, name, target string, asJSON bool) error {
	noColor := s.settings.Output.NoColor

	scenario, ok := samples.Lookup(name)
	if !ok {
		suggestions := utilstrings.FindSimilar(name, samples.Names(), nil)
		fmt.Fprint(cmd.ErrOrStderr(), ui.ScenarioNotFoundError(name, suggestions, noColor))
		return fmt.Errorf("unknown scenario %q", name)
	}
	if target == "" {
		target = scenario.Target.String()
	}

	view := PlanView{Scenario: scenario.Name, Target: types.TypeID(target)}
	cfg, err := scenario.Build(
		mixins.WithStrictReplacement(s.settings.Resolution.StrictReplacement),
		mixins.WithLogger(s.logger),
	)
	var ctx *model.ClassContext
	if err == nil {
		view.Configuration = cfg.ID().String()
		ctx, err = cfg.Resolve(view.Target)
	}
	if err != nil {
		view.Errors = errors.ConfigErrors(err)
		s.logger.Debug("scenario failed", zap.String("scenario", name), zap.Error(err))
		if asJSON {
			if encErr := writeJSON(cmd.OutOrStdout(), view); encErr != nil {
				return encErr
			}
		} else {
			writeBuildErrors(cmd.ErrOrStderr(), name, err, noColor)
		}
		return ErrPlanFailed
	}
	if ctx == nil {
		ctx = model.Empty(view.Target)
	}

	view.Mixins = mixinViews(ctx)
	view.Interfaces = ctx.ComposedInterfaces()
	if view.Interfaces == nil {
		view.Interfaces = []types.TypeID{}
	}

	if asJSON {
		return writeJSON(cmd.OutOrStdout(), view)
	}
	writePlan(cmd.OutOrStdout(), view, noColor)
	return nil
}

func mixinViews(ctx *model.ClassContext) []MixinView {
	views := make([]MixinView, 0, ctx.Len())
	for _, m := range ctx.Mixins() {
		views = append(views, MixinView{
			Type:         m.MixinType(),
			Kind:         m.Kind().String(),
			Visibility:   m.Visibility().String(),
			Dependencies: m.Dependencies(),
			Origin:       m.Origin().String(),
		})
	}
	return views
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writePlan(w io.Writer, view PlanView, noColor bool) {
	ui.Header(w, fmt.Sprintf("Plan for %s (scenario %s)", view.Target, view.Scenario), noColor)

	summary := ui.NewKeyValueTable(w, noColor)
	summary.AddRow("Configuration", view.Configuration)
	summary.AddRow("Mixins", strconv.Itoa(len(view.Mixins)))
	summary.AddRow("Interfaces", joinOrNone(view.Interfaces))
	summary.Render()
	fmt.Fprintln(w)

	if len(view.Mixins) == 0 {
		fmt.Fprint(w, ui.Warning(fmt.Sprintf("%s has no mixins configured", view.Target), nil, noColor))
		return
	}

	table := ui.NewTable(w, []string{"#", "Mixin", "Kind", "Visibility", "Depends On"}, &ui.TableOptions{NoColor: noColor})
	for i, m := range view.Mixins {
		table.AddRow(strconv.Itoa(i+1), m.Type.String(), m.Kind, m.Visibility, joinOrNone(m.Dependencies))
	}
	table.Render()
}

func writeBuildErrors(w io.Writer, scenario string, err error, noColor bool) {
	errs := errors.Errors(err)
	fmt.Fprint(w, ui.BuildFailedError(scenario, len(errs), noColor))
	for _, e := range errs {
		fmt.Fprintln(w)
		if cfgErr, ok := errors.As(e); ok {
			fmt.Fprint(w, errors.FormatForTerminal(cfgErr, noColor))
		} else {
			fmt.Fprintln(w, e.Error())
		}
	}
}

func joinOrNone(ids []types.TypeID) string {
	if len(ids) == 0 {
		return "-"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ", ")
}
