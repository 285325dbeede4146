package cmd

import (
	"errors"

	"github.com/go-logr/zerologr"
	"github.com/jzelinskie/cobrautil/v2"
	"github.com/jzelinskie/cobrautil/v2/cobraotel"
	"github.com/jzelinskie/cobrautil/v2/cobrazerolog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	log "github.com/authzed/rpqplan/internal/logging"
	"github.com/authzed/rpqplan/pkg/bench"
	"github.com/authzed/rpqplan/pkg/runtime"
)

// ErrParsing is returned when the command line could not be parsed.
var ErrParsing = errors.New("parsing error")

func RegisterRootFlags(cmd *cobra.Command) {
	cobrazerolog.New().RegisterFlags(cmd.PersistentFlags())
	cobraotel.New(cmd.Use).RegisterFlags(cmd.PersistentFlags())
	runtime.RegisterFlags(cmd.PersistentFlags())
}

// DefaultPreRunE sets up viper, zerolog, and OpenTelemetry flag handling for a
// command.
func DefaultPreRunE(programName string) cobrautil.CobraRunFunc {
	return cobrautil.CommandStack(
		cobrautil.SyncViperDotEnvPreRunE(programName, programName+".env", zerologr.New(&log.Logger)),
		cobrazerolog.New(
			cobrazerolog.WithTarget(func(logger zerolog.Logger) {
				log.SetGlobalLogger(logger)
			}),
		).RunE(),
		cobraotel.New(programName,
			cobraotel.WithLogger(zerologr.New(&log.Logger)),
		).RunE(),
		runtime.RunE(),
	)
}

func NewRootCommand(programName string) *cobra.Command {
	return &cobra.Command{
		Use:           programName,
		Short:         "A regular path query plan optimizer",
		Long:          "Optimizes regular path query plans with equality saturation and benchmarks them against labeled graphs",
		Example:       BenchExample(programName),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
}

// BuildRootCommand returns the root command with every subcommand attached.
func BuildRootCommand() (*cobra.Command, error) {
	rootCmd := NewRootCommand("rpqplan")
	RegisterRootFlags(rootCmd)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		cmd.Println(err)
		cmd.Println(cmd.UsageString())
		return ErrParsing
	})

	benchConfig := bench.NewConfigWithOptionsAndDefaults()
	benchCmd := NewBenchCommand(rootCmd.Use, benchConfig)
	if err := RegisterBenchFlags(benchCmd, benchConfig); err != nil {
		return nil, err
	}
	rootCmd.AddCommand(benchCmd)

	optimizeConfig := NewOptimizeConfig()

	explainCmd := NewExplainCommand(rootCmd.Use, optimizeConfig)
	RegisterOptimizeFlags(explainCmd, optimizeConfig)
	rootCmd.AddCommand(explainCmd)

	evalCmd := NewEvalCommand(rootCmd.Use, optimizeConfig)
	RegisterOptimizeFlags(evalCmd, optimizeConfig)
	RegisterEvalFlags(evalCmd, optimizeConfig)
	rootCmd.AddCommand(evalCmd)

	versionCmd := NewVersionCommand(rootCmd.Use)
	RegisterVersionFlags(versionCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.AddCommand(NewManCommand())

	return rootCmd, nil
}
