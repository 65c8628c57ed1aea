package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAcceptCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <scene>",
		Short: "Scan a scene and record which items can be published",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, err := ctx.openEnv(args[0])
			if err != nil {
				return err
			}
			defer environment.close()

			sess, items, err := environment.runner.Accept(cmd.Context(), environment.scene)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Session %s\n", sess.ID)
			if len(items) == 0 {
				fmt.Fprintln(out, "No publishable items found")
				return nil
			}
			fmt.Fprintln(out, itemTable(items))
			return nil
		},
	}
}
