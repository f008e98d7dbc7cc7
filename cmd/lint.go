package cmd

import (
	"context"

	"github.com/spf13/cobra"

	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// lintCmd represents the lint command.
var lintCmd = newLintCmd()

func newLintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint",
		Short: "Run only the static-analysis stage",
		Long:  "Invoke the analyzer in error-only mode against the package's source files.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return harness.Run(context.Background(), harnessRunArgs(m.StageLint))
		},
	}
}

func init() {
	rootCmd.AddCommand(lintCmd)
}
