package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

var missingRange int

var missingCmd = &cobra.Command{
	Use:   "missing",
	Short: "List lands near the lair that start.csv does not cover",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := turnOptions(false, false)
		m, err := turn.LoadBoard(mapPath, opts)
		if err != nil {
			return err
		}
		p, err := turn.NewParser(opts, &lair.Conf{PieceNames: lair.TextNames, SlurpOrder: lair.SlurpByRange}, m)
		if err != nil {
			return err
		}
		missing, err := p.Missing(missingRange)
		if err != nil {
			return err
		}
		text := "nothing!"
		if len(missing) > 0 {
			text = strings.Join(missing, ", ")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "missing %s\n", text)
		return nil
	},
}

func init() {
	missingCmd.Flags().IntVar(&missingRange, "range", 2, "Find missing lands up to given range")
}
