package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/sqlguard/internal/core/policy"
	"github.com/satishbabariya/sqlguard/internal/ui"
	"github.com/satishbabariya/sqlguard/internal/watch"
)

// NewWatchCommand creates the watch command.
func NewWatchCommand(app *App) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Validate the policy document on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			file := app.Config.Policy.File
			if file == "" {
				return fmt.Errorf("no policy file configured; set policy.file or --policy")
			}

			m := policy.NewManager()
			w, err := watch.WatchPolicy(m, file, debounce)
			if err != nil {
				return err
			}
			defer w.Stop()
			if err := w.Start(); err != nil {
				return err
			}

			ui.PrintSuccess("watching %s (roles: %v)", w.File(), m.Roles())

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			select {
			case <-sig:
			case <-cmd.Context().Done():
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Delay before reloading after a change")
	return cmd
}
