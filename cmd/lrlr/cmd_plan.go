package main

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/talshorer/spirit-island-144p-lair/internal/logger"
	"github.com/talshorer/spirit-island-144p-lair/internal/report"
	"github.com/talshorer/spirit-island-144p-lair/internal/search"
	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// Report formats of the plan command.
const (
	outputLog        = "log"
	outputDiff       = "diff"
	outputCatCafe    = "cat-cafe"
	outputActionsCSV = "actions.csv"
)

var outputs = []string{outputLog, outputDiff, outputCatCafe, outputActionsCSV}

type planFlags struct {
	output        string
	split         string
	splitHeader   string
	filter        string
	noSummary     bool
	postravage    bool
	diffAll       bool
	best          int
	workers       int
	forceLine     []string
	diffSortRange bool
	allowIllegal  bool
	record        string
}

var plan planFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Find the best ordering of the turn's actions",
	Long: `Plans every ordering of the configured actions and both lair innates,
scores each plan after the final ravage and prints the best ones, worst
first. With --output a report of each shown plan follows its summary.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVar(&plan.output, "output", "", "Report to print: "+strings.Join(outputs, "|"))
	f.StringVar(&plan.split, "split", "", "Write the report to `DIRECTORY`, split into chat-message files")
	f.StringVar(&plan.splitHeader, "split-header", "", "Append a marker to each split file header")
	f.StringVar(&plan.filter, "filter", "", "Show only actions for a specific island")
	f.BoolVar(&plan.noSummary, "no-summary", false, "Don't display final lair state summary")
	f.BoolVar(&plan.postravage, "postravage", false, "Display postravage results instead of preravage")
	f.BoolVar(&plan.diffAll, "diff-all", false, "Show all lands in diffview even if they're unchanged")
	f.IntVar(&plan.best, "best", 1, "Display `N` best solutions")
	f.IntVar(&plan.workers, "workers", cfg.Workers, "Number of sequences planned in parallel (or set LRLR_WORKERS)")
	f.StringSliceVar(&plan.forceLine, "force-line", nil, "Force specific line instead of calculating best line")
	f.BoolVar(&plan.diffSortRange, "diff-sort-range", false, "Sort diffview by range rather than by island")
	f.BoolVar(&plan.allowIllegal, "allow-illegal", false, "Rank plans whose ravage breaks leave-behind pins instead of skipping them")
	f.StringVar(&plan.record, "record", "", "Write every scored sequence to `FILE` as zstd-compressed JSONL")
}

func runPlan(cmd *cobra.Command, args []string) error {
	if plan.output != "" && !slices.Contains(outputs, plan.output) {
		return fmt.Errorf("unknown output %q, want one of %s", plan.output, strings.Join(outputs, ", "))
	}
	for _, action := range plan.forceLine {
		if !lair.IsToplevel(action) || action == lair.ActionRavage {
			return &lair.ConfigError{Key: "force-line", Message: fmt.Sprintf("unknown action %q", action)}
		}
	}

	serverEmojis := plan.split != ""
	names := lair.TextNames
	if serverEmojis {
		names = lair.EmojiNames
	}
	logPrestart := plan.output == outputCatCafe || plan.output == outputActionsCSV
	opts := turnOptions(serverEmojis, logPrestart)
	p, in, err := loadTurn(opts, names, plan.output != outputActionsCSV)
	if err != nil {
		return err
	}
	scorer, err := search.NewScorer(in.Score)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var rec *search.Recorder
	if plan.record != "" {
		rec, err = search.NewRecorder(plan.record, logger.RunIDFromContext(ctx))
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	seqs := search.Candidates(in.Actions, plan.forceLine)
	log.Info().Int("sequences", len(seqs)).Int("workers", plan.workers).Str("dir", opts.Dir).Msg("planning")
	results, err := search.Run(ctx, p, seqs, search.Options{
		Workers:     plan.workers,
		Best:        plan.best,
		Scorer:      scorer,
		Recorder:    rec,
		DropIllegal: !plan.allowIllegal,
	})
	if err != nil {
		return err
	}
	if rec != nil {
		if err := rec.Close(); err != nil {
			return fmt.Errorf("closing record: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	for i := len(results) - 1; i >= 0; i-- {
		res := results[i]
		st := res.Preravage
		if plan.postravage {
			st = res.Postravage
		}
		if !plan.noSummary && plan.output != outputActionsCSV {
			score, err := scorer.Score(p.Conf(), st)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, summaryLine(res.Sequence, st, names, score))
		}
		if err := writeReport(out, p, st, names); err != nil {
			return err
		}
	}
	return nil
}

func summaryLine(seq search.Sequence, st *lair.State, names lair.PieceNames, score search.Score) string {
	return strings.Join([]string{
		fmt.Sprintf("%-58s", seq.String()),
		"(" + st.Lair.Describe(names) + ")",
		fmt.Sprintf("wasted_damage=%d", st.WastedDamage),
		fmt.Sprintf("total_gathers=%d", st.TotalGathers),
		fmt.Sprintf("wasted_invader_gathers=%d", st.WastedInvaderGathers),
		fmt.Sprintf("wasted_dahan_gathers=%d", st.WastedDahanGathers),
		fmt.Sprintf("wasted_downgrades=%d", st.WastedDowngrades),
		fmt.Sprintf("fear=%d", st.Fear),
		"score=" + score.String(),
	}, " ")
}

func writeReport(out io.Writer, p *turn.Parser, st *lair.State, names lair.PieceNames) error {
	switch plan.output {
	case outputLog:
		return printOrSplit(out, report.Digest(st.Log, plan.filter), st, false)
	case outputDiff:
		orig, _, err := p.ParseAll()
		if err != nil {
			return err
		}
		diff := report.Diff(orig.State(), st, names, report.DiffOptions{
			All:       plan.diffAll,
			SortRange: plan.diffSortRange,
			Filter:    plan.filter,
		})
		return printOrSplit(out, diff, st, true)
	case outputCatCafe:
		return report.CatCafe(out, p.InitialLair(), st.Log, names)
	case outputActionsCSV:
		_, delayed, err := p.ParseAll()
		if err != nil {
			return err
		}
		return report.ActionsCSV(out, st, names, delayed.MaxActionID)
	}
	return nil
}

func printOrSplit(out io.Writer, raw string, st *lair.State, forceCommitOnToplevel bool) error {
	if plan.split == "" {
		_, err := fmt.Fprintln(out, raw)
		return err
	}
	suffix := ""
	if plan.splitHeader != "" {
		suffix = " " + plan.splitHeader
	}
	msgs := (&report.Splitter{ForceCommitOnToplevel: forceCommitOnToplevel}).Split(raw)
	log.Info().Int("messages", len(msgs)).Str("dir", plan.split).Msg("writing split report")
	return report.WriteMessages(plan.split, msgs, st.Lair.Key, suffix)
}
