package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"
)

func newPublishCommand(ctx *commandContext) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Validate and publish every publishable item in a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, sess, err := ctx.openSessionEnv(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			defer environment.close()

			// One publisher at a time per data dir; concurrent runs would race
			// on the same destinations.
			lock := flock.New(filepath.Join(environment.cfg.Paths.DataDir, "publish.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire publish lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another publish is in progress")
			}
			defer func() {
				_ = lock.Unlock()
			}()

			items, err := environment.runner.Publish(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), itemTable(items))
			return summarizeFailures(items)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session to publish (defaults to the latest)")
	return cmd
}
