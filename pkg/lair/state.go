package lair

// State is the plan being built: the lair, the lands it reaches and the
// counters the search scores on.
type State struct {
	Lair *Land
	// Lands are the pathable lands, range 1 first in start-data order.
	Lands      []*Land
	Unpathable []*Land
	Log        *Log
	Dist       map[string]int

	TotalGathers         int
	WastedDamage         int
	WastedDowngrades     int
	WastedInvaderGathers int
	WastedDahanGathers   int
	Fear                 int

	Violations []Violation
}

// Clone returns a deep copy of the state.
func (s *State) Clone() *State {
	c := *s
	c.Lair = s.Lair.Clone()
	c.Lands = cloneLands(s.Lands)
	c.Unpathable = cloneLands(s.Unpathable)
	c.Log = s.Log.Clone()
	if s.Dist != nil {
		c.Dist = make(map[string]int, len(s.Dist))
		for k, v := range s.Dist {
			c.Dist[k] = v
		}
	}
	if s.Violations != nil {
		c.Violations = make([]Violation, len(s.Violations))
		copy(c.Violations, s.Violations)
	}
	return &c
}

func cloneLands(lands []*Land) []*Land {
	if lands == nil {
		return nil
	}
	out := make([]*Land, len(lands))
	for i, l := range lands {
		out[i] = l.Clone()
	}
	return out
}

// Land returns the state's land with the given key, including the lair.
func (s *State) Land(key string) (*Land, bool) {
	if s.Lair.Key == key {
		return s.Lair, true
	}
	for _, group := range [][]*Land{s.Lands, s.Unpathable} {
		for _, l := range group {
			if l.Key == key {
				return l, true
			}
		}
	}
	return nil, false
}

// Totals sums every piece type across the lair and all lands.
func (s *State) Totals() Pieces {
	var total Pieces
	add := func(l *Land) {
		for p := range total {
			total[p] += l.Pieces[p] + l.pending[p]
		}
	}
	add(s.Lair)
	for _, l := range s.Lands {
		add(l)
	}
	for _, l := range s.Unpathable {
		add(l)
	}
	return total
}
