package commands

import (
	"github.com/spf13/cobra"

	"github.com/conduit-lang/mixins/internal/cli/ui"
	"github.com/conduit-lang/mixins/internal/samples"
)

func newScenariosCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the built-in sample scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := ui.NewTable(cmd.OutOrStdout(), []string{"Name", "Target", "Description"},
				&ui.TableOptions{NoColor: s.settings.Output.NoColor})
			for _, sc := range samples.All() {
				table.AddRow(sc.Name, sc.Target.String(), sc.Description)
			}
			table.Render()
			return nil
		},
	}
}
