package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lookpub/internal/session"
)

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Re-check every publishable item against current disk state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, sess, err := ctx.openSessionEnv(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			defer environment.close()

			items, err := environment.runner.Validate(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), itemTable(items))
			return summarizeFailures(items)
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session to validate (defaults to the latest)")
	return cmd
}

func summarizeFailures(items []*session.Item) error {
	failed := 0
	for _, item := range items {
		if item.Status == session.StatusFailed {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d item(s) failed", failed)
	}
	return nil
}
