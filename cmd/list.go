package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jamcheck.dev/pkg/jamcheck/internal/domain"
	m "jamcheck.dev/pkg/jamcheck/internal/model"
)

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the source files the analyzer would check",
		Long:  "Discover and print the package's source file set without invoking any tool.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return harness.List(context.Background(), domain.ListArgs{
				Root:          m.Path(viper.GetString(rootFlagName)),
				PackageDir:    viper.GetString(packageDirKey),
				SourcePattern: viper.GetString(sourcePatternKey),
				Exclude:       viper.GetStringSlice(excludeConfigKey),
			})
		},
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
}
