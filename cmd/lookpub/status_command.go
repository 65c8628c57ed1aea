package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the items and publishes of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, sess, err := ctx.openSessionEnv(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			defer environment.close()

			items, err := environment.store.ItemsBySession(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}
			records, err := environment.store.Publishes(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", sess.ID)
			fmt.Fprintf(out, "Scene   %s\n", sess.ScenePath)
			if len(items) == 0 {
				fmt.Fprintln(out, "No items recorded")
				return nil
			}
			fmt.Fprintln(out, itemTable(items))
			if len(records) > 0 {
				fmt.Fprintln(out, publishTable(records))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session to show (defaults to the latest)")
	return cmd
}
