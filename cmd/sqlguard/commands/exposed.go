package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlguard/internal/ui"
)

// NewExposedCommand creates the exposed command.
func NewExposedCommand(app *App) *cobra.Command {
	var flags requestFlags

	cmd := &cobra.Command{
		Use:   "exposed",
		Short: "List the caller-adjustable conditions for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client(nil, nil)
			if err != nil {
				return err
			}
			ctx := flags.context()
			res, err := c.Resolve(ctx, nil)
			if err != nil {
				return err
			}
			if !res.Matched {
				ui.PrintWarning("roles %v match no restriction", ctx.Roles())
				return nil
			}
			exposed, err := c.ExposedConditions(ctx)
			if err != nil {
				return err
			}
			if len(exposed) == 0 {
				ui.PrintSuccess("role %s exposes no conditions", res.Role)
				return nil
			}
			rows := make([][]string, 0, len(exposed))
			for _, e := range exposed {
				rows = append(rows, []string{e.Field, string(e.Operator.Normalize()), ui.FormatValue(e.Value), fmt.Sprint(len(e.Metadata))})
			}
			ui.PrintSuccess("role %s", res.Role)
			return ui.PrintTable([]string{"field", "operator", "default", "metadata"}, rows)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&flags.userID, "user-id", "", "Current user id")
	fl.StringSliceVar(&flags.roles, "role", nil, "Current user roles")
	fl.StringVar(&flags.department, "department", "", "Current user department")
	fl.StringToStringVar(&flags.attributes, "attr", nil, "Current user attributes as key=value")

	return cmd
}
