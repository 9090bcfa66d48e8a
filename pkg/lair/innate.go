package lair

import (
	"fmt"
	"sort"
)

// Tier is one innate threshold.
type Tier int

const (
	Thresh1 Tier = iota + 1 // downgrades
	Thresh2                 // one invader and one dahan gather
	Thresh3                 // slurp
)

func (t Tier) String() string {
	return fmt.Sprintf("thresh%d", int(t))
}

// Tiers lists the innate thresholds in resolution order.
var Tiers = []Tier{Thresh1, Thresh2, Thresh3}

const (
	downgradeDivisor = 3
	slurpDivisor     = 6

	callTowns     = 5
	callExplorers = 15
	callDahan     = 5
)

func (p *Planner) lairAll(a Actor) error {
	for _, tier := range Tiers {
		what := fmt.Sprintf("lair-%s-%s", a, tier)
		err := p.topLog(what, func() error {
			switch tier {
			case Thresh1:
				p.thresh1()
			case Thresh2:
				p.thresh2()
			case Thresh3:
				return p.thresh3(a)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Planner) thresh1() {
	r0 := p.state.Lair
	downgrades := (r0.Pieces[Explorer] + r0.Pieces[Dahan]) / downgradeDivisor
	p.state.Log.Commentf("available downgrades: %d", downgrades)
	downgrades -= p.downgrade(Town, r0, downgrades)
	downgrades -= p.downgrade(City, r0, downgrades)
	p.state.WastedDowngrades += downgrades
}

func (p *Planner) thresh2() {
	gathers := 1
	for _, t := range []PieceType{Explorer, Town} {
		for _, land := range p.r1MostDahan() {
			gathers -= p.gather(t, land, gathers, true)
		}
	}
	p.state.WastedInvaderGathers += gathers

	gathers = 1
	for _, land := range p.r1MostDahan() {
		gathers -= p.gather(Dahan, land, gathers, true)
	}
	p.state.WastedDahanGathers += gathers
}

func (p *Planner) thresh3(a Actor) error {
	ic := p.conf.Innate(a)
	r0 := p.state.Lair
	gathers := (r0.Pieces[Explorer] + r0.Pieces[Dahan]) / slurpDivisor
	p.state.Log.Commentf("available gathers: %d", gathers)

	if ic.ReserveGathers > 0 {
		if ic.ReserveGathers > gathers {
			return &ResourceExhaustionError{
				Actor:     a,
				Tier:      Thresh3.String(),
				Requested: ic.ReserveGathers,
				Available: gathers,
			}
		}
		p.state.Log.Indent(func() {
			p.state.Log.Commentf("reserved %d gathers", ic.ReserveGathers)
		})
		gathers -= ic.ReserveGathers
	}

	for _, land := range p.sortByLandOrder(p.state.Lands) {
		if p.state.Dist[land.Key] > ic.MaxRange {
			continue
		}
		gathers -= p.slurp(City, land, gathers)
		gathers -= p.slurp(Town, land, gathers)
		gathers -= p.slurp(Explorer, land, gathers)
	}
	p.commit()

	for _, land := range p.r1MostDahan() {
		gathers -= p.gather(Explorer, land, gathers, true)
	}
	p.commit()

	p.state.Log.Commentf("unused gathers left at end of slurp: %d", gathers)
	p.state.WastedInvaderGathers += gathers
	return nil
}

func (p *Planner) callOne(lands []*Land, t PieceType, gathers int) int {
	for _, land := range lands {
		gathers -= p.gather(t, land, gathers, true)
	}
	return gathers
}

func (p *Planner) call() error {
	wasted := p.callOne(p.r1MostDahan(), Town, callTowns)
	wasted += p.callOne(p.r1MostDahan(), Explorer, callExplorers)
	p.state.WastedInvaderGathers += wasted
	p.state.Log.Commentf("unused gathers left at end of call: %d", wasted)
	p.state.WastedDahanGathers += p.callOne(p.r1LeastDahan(), Dahan, callDahan)
	return nil
}

// r1MostDahan orders range-1 lands by dahan, most first, then by key.
func (p *Planner) r1MostDahan() []*Land {
	return p.r1SortedByDahan(true)
}

// r1LeastDahan orders range-1 lands by dahan, fewest first, then by key.
func (p *Planner) r1LeastDahan() []*Land {
	return p.r1SortedByDahan(false)
}

func (p *Planner) r1SortedByDahan(most bool) []*Land {
	lands := append([]*Land(nil), p.r1...)
	sort.SliceStable(lands, func(i, j int) bool {
		di, dj := lands[i].Pieces[Dahan], lands[j].Pieces[Dahan]
		if di != dj {
			if most {
				return di > dj
			}
			return di < dj
		}
		return lands[i].Key < lands[j].Key
	})
	return lands
}

// landOrder is the sort key of slurp and ravage targets.
type landOrder struct {
	ignored  bool
	dist     int
	priority int
	r1Dahan  int
	key      string
}

func (p *Planner) orderOf(land *Land) landOrder {
	coastal := false
	if ml, ok := p.board.Land(land.Key); ok {
		coastal = ml.Coastal
	}
	o := landOrder{
		ignored:  p.conf.Ignored(land.Key),
		dist:     p.state.Dist[land.Key],
		priority: p.conf.LandPriority(land.Key, land.Terrain, coastal),
		key:      land.Key,
	}
	if r1 := p.r1GathersTo(land, p.state.Dist); r1 != nil {
		o.r1Dahan = r1.Pieces[Dahan]
	}
	return o
}

func (p *Planner) less(a, b landOrder) bool {
	if a.ignored != b.ignored {
		return !a.ignored
	}
	first, second := [2]int{a.dist, a.priority}, [2]int{b.dist, b.priority}
	if p.conf.SlurpOrder == SlurpByPriority {
		first, second = [2]int{a.priority, a.dist}, [2]int{b.priority, b.dist}
	}
	if first != second {
		if first[0] != second[0] {
			return first[0] < second[0]
		}
		return first[1] < second[1]
	}
	if a.r1Dahan != b.r1Dahan {
		return a.r1Dahan < b.r1Dahan
	}
	return a.key < b.key
}

// sortByLandOrder returns lands ordered by (ignored, range, land priority,
// range-1 dahan, key). With SlurpByPriority, priority comes before range.
func (p *Planner) sortByLandOrder(lands []*Land) []*Land {
	keys := make(map[*Land]landOrder, len(lands))
	for _, l := range lands {
		keys[l] = p.orderOf(l)
	}
	out := append([]*Land(nil), lands...)
	sort.SliceStable(out, func(i, j int) bool {
		return p.less(keys[out[i]], keys[out[j]])
	})
	return out
}
