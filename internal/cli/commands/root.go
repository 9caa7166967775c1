package commands

import (
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conduit-lang/mixins/internal/config"
	"github.com/conduit-lang/mixins/internal/logging"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// session holds what every subcommand needs once flags are parsed
type session struct {
	configPath string
	noColor    bool
	strict     bool
	verbose    bool

	settings *config.Settings
	logger   *zap.Logger
}

// load reads the settings and applies flag overrides
func (s *session) load() error {
	settings, err := config.Load(s.configPath)
	if err != nil {
		return err
	}
	if s.noColor {
		settings.Output.NoColor = true
	}
	if s.strict {
		settings.Resolution.StrictReplacement = true
	}
	if s.verbose {
		settings.Log.Level = "debug"
	}
	if settings.Output.NoColor {
		color.NoColor = true
	}

	s.settings = settings
	s.logger = logging.New(settings)
	return nil
}

func (s *session) close() {
	if s.logger != nil {
		_ = s.logger.Sync()
	}
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "mixinctl",
		Short: "Inspect mixin configurations",
		Long: color.CyanString(`mixinctl - mixin configuration inspector

mixinctl builds sample mixin configurations and prints the resolved
composition plan of their target types: which mixins apply, in which
order, and which interfaces are composed.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			s.close()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.configPath, "config", "", "Config file (default: ./mixinctl.yml)")
	rootCmd.PersistentFlags().BoolVar(&s.noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&s.strict, "strict", false, "Fail when a replacement rule's replacement mixin is missing")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Log resolution events")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newScenariosCommand(s))
	rootCmd.AddCommand(newPlanCommand(s))
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the mixinctl version, Git commit, build date, and Go version",
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			titleColor := color.New(color.FgCyan, color.Bold)
			valueColor := color.New(color.FgWhite)
			out := cmd.OutOrStdout()

			for _, row := range [][2]string{
				{"mixinctl version: ", Version},
				{"Git commit: ", GitCommit},
				{"Build date: ", BuildDate},
				{"Go version: ", goVer},
			} {
				titleColor.Fprint(out, row[0])
				valueColor.Fprintln(out, row[1])
			}
		},
	}
}

// Execute runs the root command
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		errorColor := color.New(color.FgRed, color.Bold)
		errorColor.Fprintf(rootCmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	return nil
}
