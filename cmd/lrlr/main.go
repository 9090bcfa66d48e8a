// Command lrlr plans the Lair incarna's turn in a large Spirit Island game.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/talshorer/spirit-island-144p-lair/internal/config"
	"github.com/talshorer/spirit-island-144p-lair/internal/logger"
	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

var (
	cfg = config.Load()

	configDir string
	mapPath   string
	turnNum   int
)

var rootCmd = &cobra.Command{
	Use:           "lrlr",
	Short:         "Plan the Lair incarna's turn",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		runID := logger.Init(nil)
		cmd.SetContext(logger.WithRunID(cmd.Context(), runID))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", cfg.Dir, "Directory holding the turn<N> directories (or set LRLR_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVar(&mapPath, "map", cfg.MapPath, "Map file (or set LRLR_MAP)")
	rootCmd.PersistentFlags().IntVar(&turnNum, "turn", 5, "Choose turn's config dir")

	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(missingCmd)
	rootCmd.AddCommand(nextActionIDCmd)
	rootCmd.AddCommand(mapCmd)
}

func turnOptions(serverEmojis, logPrestart bool) turn.Options {
	return turn.Options{
		Dir:          filepath.Join(configDir, fmt.Sprintf("turn%d", turnNum)),
		ServerEmojis: serverEmojis,
		LogPrestart:  logPrestart,
	}
}

// loadTurn reads the map, the turn's input and its data files.
func loadTurn(opts turn.Options, names lair.PieceNames, displayNameRange bool) (*turn.Parser, *turn.Input, error) {
	m, err := turn.LoadBoard(mapPath, opts)
	if err != nil {
		return nil, nil, err
	}
	in, err := turn.LoadInput(opts.Path(turn.InputFile))
	if err != nil {
		return nil, nil, err
	}
	if err := in.CheckLands(m); err != nil {
		return nil, nil, err
	}
	p, err := turn.NewParser(opts, in.Conf(names, displayNameRange), m)
	if err != nil {
		return nil, nil, err
	}
	return p, in, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		log.Error().Err(err).Msg("lrlr failed")
		os.Exit(1)
	}
}
