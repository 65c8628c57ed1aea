package main

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"lookpub/internal/session"
	"lookpub/internal/view"
)

func newSelectCommand(ctx *commandContext) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "select [node] [version]",
		Short: "Choose which work-file version to publish for a node",
		Long: "Choose which work-file version to publish. With no arguments an " +
			"interactive prompt walks every publishable node; otherwise the node " +
			"and version are given directly.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			environment, sess, err := ctx.openSessionEnv(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			defer environment.close()

			if len(args) == 2 {
				item, err := environment.runner.Select(cmd.Context(), sess.ID, args[0], args[1])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), itemTable([]*session.Item{item}))
				return nil
			}

			if !isInteractive(cmd.OutOrStdout()) {
				return errors.New("node and version arguments are required when not running interactively")
			}

			model, err := environment.runner.SelectionView(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}
			if len(model.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing left to select; no publishable items")
				return nil
			}

			nodes := model.Items
			if len(args) == 1 {
				entry, ok := model.Node(args[0])
				if !ok {
					return fmt.Errorf("no publishable item for node %q", args[0])
				}
				nodes = []view.NodeChoices{entry}
			}

			for _, entry := range nodes {
				choice, err := promptVersion(entry)
				if err != nil {
					return err
				}
				if _, err := environment.runner.Select(cmd.Context(), sess.ID, entry.Node, choice); err != nil {
					return err
				}
			}

			items, err := environment.store.ItemsBySession(cmd.Context(), sess.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), itemTable(items))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Session to modify (defaults to the latest)")
	return cmd
}

func promptVersion(entry view.NodeChoices) (string, error) {
	options := make([]string, 0, len(entry.Choices))
	preset := ""
	for _, choice := range entry.Choices {
		options = append(options, choice.Label)
		if choice.Path == entry.Selected {
			preset = choice.Label
		}
	}

	prompt := &survey.Select{
		Message: fmt.Sprintf("Version for %s:", entry.Title),
		Options: options,
		Default: preset,
	}
	var answer string
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
