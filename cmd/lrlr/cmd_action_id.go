package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
)

var nextActionIDCmd = &cobra.Command{
	Use:   "next-action-id",
	Short: "Print the smallest action id actions.csv does not use",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := turnOptions(false, false)
		actions, err := turn.ReadActions(opts.Path(turn.ActionsFile))
		if err != nil {
			return err
		}
		id, err := turn.NextActionID(actions)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}
