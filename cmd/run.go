package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runFailFastFlag bool
var runTimeoutFlag time.Duration

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the lint and test stages",
		Long:  runLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return harness.Run(context.Background(), harnessRunArgs())
		},
	}

	configureRunFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func configureRunFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&runFailFastFlag, failFastFlagName, viper.GetBool(failFastKey), "skip remaining stages after the first failure")
	bindFlagToConfig(cmd.Flags().Lookup(failFastFlagName), failFastKey)

	cmd.Flags().DurationVar(&runTimeoutFlag, timeoutFlagName, viper.GetDuration(toolTimeoutKey), "per-tool timeout (0 = no timeout)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), toolTimeoutKey)
}
