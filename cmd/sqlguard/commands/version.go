package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlguard/internal/ui"
	"github.com/satishbabariya/sqlguard/internal/version"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	var latest string

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// version needs no configuration
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), version.Get().FullString())
			if latest == "" {
				return nil
			}
			newer, err := version.Newer(latest)
			if err != nil {
				return err
			}
			if newer {
				ui.PrintWarning("A newer version is available: %s", latest)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&latest, "compare", "", "Report whether this release is older than the given version")
	return cmd
}
