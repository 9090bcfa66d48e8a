// Package search plans every candidate ordering of a turn's actions and
// keeps the best-scoring ones.
package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// Result is a planned sequence with the plan before and after the final
// ravage.
type Result struct {
	Sequence   Sequence
	Preravage  *lair.State
	Postravage *lair.State
	Score      Score
}

// better orders results by score, then by sequence text so the ranking is
// total.
func (r Result) better(o Result) bool {
	if c := r.Score.Compare(o.Score); c != 0 {
		return c > 0
	}
	return r.Sequence.String() < o.Sequence.String()
}

// resultHeap is a min-heap of Result by rank, used to track the top-N plans.
type resultHeap []Result

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[j].better(h[i]) }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)        { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// offer keeps r if it ranks among the best n seen so far.
func (h *resultHeap) offer(r Result, n int) {
	if h.Len() < n {
		heap.Push(h, r)
		return
	}
	if r.better((*h)[0]) {
		(*h)[0] = r
		heap.Fix(h, 0)
	}
}

// Options tune a search.
type Options struct {
	Workers  int
	Best     int
	Scorer   *Scorer
	Recorder *Recorder

	// DropIllegal skips plans whose ravage broke a leave-behind pin.
	DropIllegal bool
}

// RunSequence plans seq from a fresh parse of the turn.
func RunSequence(p *turn.Parser, seq Sequence) (*Result, error) {
	planner, delayed, err := p.ParseAll()
	if err != nil {
		return nil, err
	}
	expected := 1
	for _, action := range seq {
		expected += lair.RavagesFor(action)
	}
	planner.SetExpectedRavages(expected)

	if err := delayed.Run(turn.AfterStart, true); err != nil {
		return nil, err
	}
	for _, action := range seq {
		if err := planner.Run(action); err != nil {
			return nil, err
		}
		if err := delayed.Run(action, true); err != nil {
			return nil, err
		}
	}
	pre := planner.State().Clone()
	if err := planner.Run(lair.ActionRavage); err != nil {
		return nil, err
	}
	if err := delayed.Run(lair.ActionRavage, true); err != nil {
		return nil, err
	}
	if pending := delayed.Pending(); len(pending) > 0 {
		return nil, &lair.ConfigError{
			Key:     turn.ActionsFile,
			Message: fmt.Sprintf("actions after %s never ran in %s", strings.Join(pending, ", "), seq),
		}
	}
	return &Result{Sequence: seq, Preravage: pre, Postravage: planner.State()}, nil
}

// Run plans every sequence on a bounded worker pool and returns the best
// opts.Best results, best first. Sequences whose reservations cannot be
// met are infeasible and skipped, as are illegal plans when
// opts.DropIllegal is set; any other error aborts the search.
func Run(ctx context.Context, p *turn.Parser, seqs []Sequence, opts Options) ([]Result, error) {
	scorer := opts.Scorer
	if scorer == nil {
		var err error
		if scorer, err = NewScorer(nil); err != nil {
			return nil, err
		}
	}
	best := max(opts.Best, 1)

	var (
		mu         sync.Mutex
		top        = &resultHeap{}
		illegal    = &resultHeap{}
		infeasible int
		exhausted  *lair.ResourceExhaustionError
		exhaustSeq string
	)
	heap.Init(top)
	heap.Init(illegal)

	g, gctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for _, seq := range seqs {
		if gctx.Err() != nil {
			break
		}
		seq := seq
		g.Go(func() error {
			res, err := RunSequence(p, seq)
			var rerr *lair.ResourceExhaustionError
			if errors.As(err, &rerr) {
				log.Debug().Stringer("sequence", seq).Err(err).Msg("infeasible sequence")
				mu.Lock()
				infeasible++
				if exhausted == nil || seq.String() < exhaustSeq {
					exhausted, exhaustSeq = rerr, seq.String()
				}
				mu.Unlock()
				return record(opts.Recorder, RecordEntry{Sequence: seq, Error: err.Error()})
			}
			if err != nil {
				return fmt.Errorf("sequence %s: %w", seq, err)
			}
			res.Score, err = scorer.Score(p.Conf(), res.Postravage)
			if err != nil {
				return fmt.Errorf("sequence %s: %w", seq, err)
			}

			mu.Lock()
			if opts.DropIllegal && len(res.Postravage.Violations) > 0 {
				log.Debug().Stringer("sequence", seq).Int("violations", len(res.Postravage.Violations)).Msg("illegal sequence")
				illegal.offer(*res, 1)
			} else {
				top.offer(*res, best)
			}
			mu.Unlock()
			return record(opts.Recorder, entryFor(res, p.Conf()))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Info().
		Int("sequences", len(seqs)).
		Int("infeasible", infeasible).
		Int("illegal", illegal.Len()).
		Msg("search finished")
	if top.Len() == 0 {
		if illegal.Len() > 0 {
			res := (*illegal)[0]
			return nil, &lair.InvariantViolationError{Sequence: res.Sequence.String(), Violations: res.Postravage.Violations}
		}
		if exhausted != nil {
			return nil, fmt.Errorf("no feasible action sequence: %w", exhausted)
		}
		return nil, errors.New("no feasible action sequence")
	}

	out := make([]Result, top.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(top).(Result)
	}
	return out, nil
}

func record(r *Recorder, e RecordEntry) error {
	if r == nil {
		return nil
	}
	return r.Write(e)
}

func entryFor(res *Result, conf *lair.Conf) RecordEntry {
	st := res.Postravage
	return RecordEntry{
		Sequence:     res.Sequence,
		Feasible:     true,
		Score:        res.Score,
		Lair:         st.Lair.Describe(conf.PieceNames),
		TotalGathers: st.TotalGathers,
		WastedDamage: st.WastedDamage,
		Fear:         st.Fear,
		Violations:   len(st.Violations),
	}
}
