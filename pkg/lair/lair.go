// Package lair plans one turn of the Lair incarna: innate thresholds, the
// call and blur actions, and the ravage that ends the turn.
package lair

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
)

// Toplevel action names.
const (
	ActionLairBlue   = "lair_blue"
	ActionLairOrange = "lair_orange"
	ActionCall       = "call"
	ActionBlur       = "blur"
	ActionBlur2      = "blur2"
	ActionRavage     = "ravage"
)

// ToplevelActions lists every action Run accepts.
var ToplevelActions = []string{
	ActionLairBlue, ActionLairOrange, ActionCall, ActionBlur, ActionBlur2, ActionRavage,
}

// IsToplevel reports whether name is a toplevel action.
func IsToplevel(name string) bool {
	return contains(ToplevelActions, name)
}

// RavagesFor returns how many ravages an action performs before the final one.
func RavagesFor(action string) int {
	switch action {
	case ActionBlur:
		return 1
	case ActionBlur2:
		return 2
	}
	return 0
}

// Planner applies toplevel actions to a turn's lands.
type Planner struct {
	conf  *Conf
	board *board.Map
	state *State

	r1         []*Land
	gathersTo  map[string]*Land
	gatherCost map[string]int

	uncommitted []Entry
	ravagesLeft int
}

// New builds a planner around the lair standing on map land src. lands is
// the start data in file order; log receives every planned action.
func New(lair *Land, lands []*Land, src string, conf *Conf, actionLog *Log, m *board.Map) (*Planner, error) {
	srcLand, ok := m.Land(src)
	if !ok {
		return nil, &ConfigError{Key: src, Message: "lair land is not on the map"}
	}

	byKey := make(map[string]*Land, len(lands))
	for _, l := range lands {
		byKey[l.Key] = l
	}

	dist, prev, err := board.Distances(srcLand, distanceTiebreaker(conf, byKey, src))
	if err != nil {
		return nil, err
	}

	p := &Planner{
		conf:       conf,
		board:      m,
		gathersTo:  make(map[string]*Land),
		gatherCost: make(map[string]int),
	}
	for _, l := range lands {
		if _, ok := prev[l.Key]; ok && dist[l.Key] != 0 {
			p.gathersTo[l.Key] = byKey[prev[l.Key]]
		}
	}

	var r2, unpathable []*Land
	for _, l := range lands {
		d, ok := dist[l.Key]
		if _, reached := prev[l.Key]; !ok || !reached || d == 0 {
			continue
		}
		if conf.DisplayNameRange {
			l.DisplayName += fmt.Sprintf(" [%d]", d)
		}
		switch {
		case d == 1:
			p.gathersTo[l.Key] = l
			p.r1 = append(p.r1, l)
			r2 = append(r2, l)
		case p.r1GathersTo(l, dist) != nil:
			r2 = append(r2, l)
		default:
			unpathable = append(unpathable, l)
		}
	}

	p.state = &State{
		Lair:       lair,
		Lands:      r2,
		Unpathable: unpathable,
		Log:        actionLog,
		Dist:       dist,
	}
	for key := range p.gathersTo {
		cost := dist[key] - 1
		if bypassesIgnored(conf, prev, key, src) {
			cost++
		}
		p.gatherCost[key] = cost
	}

	log.Debug().
		Str("src", src).
		Int("r1", len(p.r1)).
		Int("pathable", len(r2)).
		Int("unpathable", len(unpathable)).
		Msg("lair constructed")
	return p, nil
}

// distanceTiebreaker prefers paths that avoid ignored lands, then lands of
// higher terrain priority, then range-1 lands with fewer dahan.
func distanceTiebreaker(conf *Conf, byKey map[string]*Land, src string) board.Tiebreaker {
	return func(l *board.Land, dist map[string]int, prev map[string]string) (board.Priority, error) {
		prio := conf.LandPriority("", l.Terrain, l.Coastal)

		key := l.Key
		for dist[key] > 1 {
			pk, ok := prev[key]
			if !ok {
				break
			}
			key = pk
		}
		r1Dahan := 0
		if dist[key] == 1 {
			land, ok := byKey[key]
			switch {
			case ok:
				r1Dahan = land.Pieces[Dahan]
			case !conf.AllowMissingR1:
				return nil, &ConfigError{Key: key, Message: "range-1 land missing from start data"}
			}
		}

		ignored := 0
		for k := l.Key; k != src; {
			if conf.Ignored(k) {
				ignored = 1
				break
			}
			pk, ok := prev[k]
			if !ok {
				break
			}
			k = pk
		}
		return board.Priority{ignored, -prio, r1Dahan}, nil
	}
}

// bypassesIgnored reports whether the path from key to src crosses an
// ignored land other than key itself.
func bypassesIgnored(conf *Conf, prev map[string]string, key, src string) bool {
	for k, ok := prev[key]; ok && k != src; k, ok = prev[k] {
		if conf.Ignored(k) {
			return true
		}
	}
	return false
}

func (p *Planner) r1GathersTo(l *Land, dist map[string]int) *Land {
	for dist[l.Key] > 1 {
		next := p.gathersTo[l.Key]
		if next == nil {
			return nil
		}
		l = next
	}
	return l
}

// State returns the plan built so far.
func (p *Planner) State() *State {
	return p.state
}

// Conf returns the planner configuration.
func (p *Planner) Conf() *Conf {
	return p.conf
}

// R1 returns the range-1 lands in start-data order.
func (p *Planner) R1() []*Land {
	return p.r1
}

// GatherCost returns the gathers spent per piece moved one step toward the
// range-1 land.
func (p *Planner) GatherCost(key string) (int, bool) {
	c, ok := p.gatherCost[key]
	return c, ok
}

// SetExpectedRavages sets how many ravages remain this turn, the final one
// included. Slurps only pull pieces into the lair that survive them.
func (p *Planner) SetExpectedRavages(n int) {
	p.ravagesLeft = n
}

// Run applies one toplevel action.
func (p *Planner) Run(action string) error {
	log.Debug().Str("action", action).Str("lair", p.state.Lair.Describe(p.conf.PieceNames)).Msg("toplevel action")
	switch action {
	case ActionLairBlue:
		return p.lairAll(Blue)
	case ActionLairOrange:
		return p.lairAll(Orange)
	case ActionCall:
		return p.topLog("call", p.call)
	case ActionBlur:
		return p.blur()
	case ActionBlur2:
		if err := p.blur(); err != nil {
			return err
		}
		return p.blur()
	case ActionRavage:
		return p.topLog("ravage", func() error {
			p.ravage()
			return nil
		})
	}
	return &ConfigError{Key: action, Message: "unknown toplevel action"}
}

// topLog runs fn in a forked log and records the lair before and after
// as a single summary line ahead of fn's entries.
func (p *Planner) topLog(what string, fn func() error) error {
	parent := p.state.Log
	child := parent.Fork()
	p.state.Log = child
	before := p.state.Lair.Describe(p.conf.PieceNames)

	err := fn()
	p.commit()

	after := p.state.Lair.Describe(p.conf.PieceNames)
	parent.Commentf("%s in %s: (%s) => (%s)", what, p.state.Lair.Key, before, after)
	parent.Join(child)
	p.state.Log = parent
	return err
}

func (p *Planner) commit() {
	sort.SliceStable(p.uncommitted, func(i, j int) bool {
		return p.uncommitted[i].SrcLand < p.uncommitted[j].SrcLand
	})
	for _, e := range p.uncommitted {
		p.state.Log.Add(e)
	}
	p.uncommitted = nil
}

func (p *Planner) blur() error {
	return p.topLog("blur", func() error {
		r0 := p.state.Lair
		if r0.Pieces[Dahan] > 0 {
			p.add(r0, Dahan, 1)
		}
		p.build(r0)
		p.ravage()
		return nil
	})
}
