package cmd

import (
	"context"

	"github.com/spf13/cobra"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// testCmd represents the test command.
var testCmd = newTestCmd()

func newTestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Run only the unit-test stage",
		Long:  "Invoke the test runner's discovery over the tests directory and execute the suite.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return harness.Run(context.Background(), harnessRunArgs(m.StageTests))
		},
	}
}

func init() {
	rootCmd.AddCommand(testCmd)
}
