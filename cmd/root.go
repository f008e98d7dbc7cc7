// Package cmd provides the root command and CLI setup for jamcheck.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"jamcheck.dev/pkg/jamcheck/internal/adapter"
	"jamcheck.dev/pkg/jamcheck/internal/controller"
	"jamcheck.dev/pkg/jamcheck/internal/domain"
	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

var fsAdapter adapter.RepoFSAdapter
var toolRunner adapter.ToolRunnerAdapter
var reportStore adapter.ReportStore
var ui controller.UI
var harness domain.Harness

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

// repoRootFlag overrides root resolution from the executable path.
var repoRootFlag string

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

// plainFlag forces the non-interactive presenter even on a terminal.
var plainFlag bool

// verboseFlag switches the log level to debug.
var verboseFlag bool

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalRepoFSAdapter()
	toolRunner = adapter.NewLocalToolRunnerAdapter()
	reportStore = adapter.NewYAMLReportStore()
	harness = domain.NewHarness(fsAdapter, toolRunner, reportStore, ui)
}

const rootLongDescription = `Jamcheck is the quality harness for the jamjar tools: it runs the static
analyzer restricted to error-severity findings over the package's source
files, then runs the unit-test suite with the repository root on the module
search path, and fails if either stage failed.

The repository root is resolved from the jamcheck executable's own location
(symlinks dereferenced), so invocations behave identically from any working
directory. Use --root to check a different checkout.`

const runLongDescription = `Run the full check pipeline: the lint stage followed by the tests stage.

Both stages run by default and the command fails if any stage failed;
--fail-fast skips the remaining stages after the first failure.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "jamcheck",
		Short: "Lint and test harness for the jamjar tools",
		Long:  rootLongDescription,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			configureLogger("", viper.GetBool(logVerboseKey) || verboseFlag)

			// The plain flag is only known after flag parsing, so the
			// interactive presenter is swapped out here when requested.
			if viper.GetBool(plainFlagName) {
				ui = controller.NewSimpleUI(cmd.Root())
				harness = domain.NewHarness(fsAdapter, toolRunner, reportStore, ui)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(outputFlagName),
			"output directory for run reports",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), outputFlagName)

	cmd.PersistentFlags().StringVar(&repoRootFlag, rootFlagName, viper.GetString(rootFlagName), "repository root (default: directory of the jamcheck executable)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(rootFlagName), rootFlagName)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude source files matching regex (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)

	cmd.PersistentFlags().BoolVar(&plainFlag, plainFlagName, viper.GetBool(plainFlagName), "plain output even on a terminal")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(plainFlagName), plainFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// harnessRunArgs assembles RunArgs from the effective configuration for the
// requested stages (none means the full pipeline).
func harnessRunArgs(stages ...m.StageName) domain.RunArgs {
	return domain.RunArgs{
		Root:          m.Path(viper.GetString(rootFlagName)),
		PackageDir:    viper.GetString(packageDirKey),
		TestsDir:      viper.GetString(testsDirKey),
		SourcePattern: viper.GetString(sourcePatternKey),
		TestPattern:   viper.GetString(testPatternKey),
		Exclude:       viper.GetStringSlice(excludeConfigKey),
		LintCommand:   viper.GetStringSlice(lintCommandKey),
		LintFlags:     viper.GetStringSlice(lintFlagsKey),
		TestCommand:   viper.GetStringSlice(testCommandKey),
		SearchPathVar: viper.GetString(searchPathKey),
		Reports:       m.Path(viper.GetString(outputFlagName)),
		Stages:        stages,
		FailFast:      viper.GetBool(failFastKey),
		ToolTimeout:   viper.GetDuration(toolTimeoutKey),
	}
}
