package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// DefaultScore ranks by cleared lands, then invaders in the lair, then
// invader gathers that went to waste.
var DefaultScore = []string{"ClearedLands", "LairInvaders", "WastedInvaderGathers"}

// ScoreEnv is the environment score expressions are evaluated in.
type ScoreEnv struct {
	ClearedLands         int
	LairInvaders         int
	LairExplorers        int
	LairTowns            int
	LairCities           int
	LairDahan            int
	TotalGathers         int
	WastedDamage         int
	WastedDowngrades     int
	WastedInvaderGathers int
	WastedDahanGathers   int
	Fear                 int
}

// NewScoreEnv summarizes a plan. Cleared lands only count pathable lands
// whose terrain appears in the terrain priority.
func NewScoreEnv(conf *lair.Conf, st *lair.State) ScoreEnv {
	cleared := 0
	for _, l := range st.Lands {
		if l.TotalInvaders() == 0 && conf.HasTerrain(l.Terrain) {
			cleared++
		}
	}
	r0 := st.Lair.Pieces
	return ScoreEnv{
		ClearedLands:         cleared,
		LairInvaders:         r0.Invaders(),
		LairExplorers:        r0[lair.Explorer],
		LairTowns:            r0[lair.Town],
		LairCities:           r0[lair.City],
		LairDahan:            r0[lair.Dahan],
		TotalGathers:         st.TotalGathers,
		WastedDamage:         st.WastedDamage,
		WastedDowngrades:     st.WastedDowngrades,
		WastedInvaderGathers: st.WastedInvaderGathers,
		WastedDahanGathers:   st.WastedDahanGathers,
		Fear:                 st.Fear,
	}
}

// Score is compared lexicographically; higher is better.
type Score []int

// Compare returns -1, 0 or 1.
func (s Score) Compare(o Score) int {
	for i := 0; i < len(s) && i < len(o); i++ {
		switch {
		case s[i] < o[i]:
			return -1
		case s[i] > o[i]:
			return 1
		}
	}
	switch {
	case len(s) < len(o):
		return -1
	case len(s) > len(o):
		return 1
	}
	return 0
}

func (s Score) String() string {
	parts := make([]string, len(s))
	for i, v := range s {
		parts[i] = strconv.Itoa(v)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Scorer evaluates a list of compiled integer expressions.
type Scorer struct {
	sources  []string
	programs []*vm.Program
}

// NewScorer compiles exprs, falling back to DefaultScore when empty.
func NewScorer(exprs []string) (*Scorer, error) {
	if len(exprs) == 0 {
		exprs = DefaultScore
	}
	s := &Scorer{sources: exprs}
	for _, src := range exprs {
		prog, err := expr.Compile(src, expr.Env(ScoreEnv{}), expr.AsInt())
		if err != nil {
			return nil, &lair.ConfigError{Key: "score", Message: fmt.Sprintf("%q: %v", src, err)}
		}
		s.programs = append(s.programs, prog)
	}
	return s, nil
}

// Sources returns the expressions in evaluation order.
func (s *Scorer) Sources() []string {
	return s.sources
}

// Score evaluates every expression against the plan.
func (s *Scorer) Score(conf *lair.Conf, st *lair.State) (Score, error) {
	env := NewScoreEnv(conf, st)
	out := make(Score, len(s.programs))
	for i, prog := range s.programs {
		v, err := expr.Run(prog, env)
		if err != nil {
			return nil, fmt.Errorf("evaluating score %q: %w", s.sources[i], err)
		}
		n, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("score %q returned %T, not int", s.sources[i], v)
		}
		out[i] = n
	}
	return out, nil
}
