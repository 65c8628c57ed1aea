package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lookpub/internal/scan"
	"lookpub/internal/scenegraph"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <scene>",
		Short: "List the publishable items in a scene document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := scenegraph.Load(args[0])
			if err != nil {
				return err
			}
			items, err := scan.Scene(scene)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{item.Type, item.Name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Type", "Name"}, rows))
			return nil
		},
	}
}
