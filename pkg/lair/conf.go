package lair

import (
	"strings"

	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
)

// InnateConf tunes one actor's innate.
type InnateConf struct {
	// ReserveGathers is removed from the tier-3 gathers before slurping.
	ReserveGathers int
	// MaxRange bounds the lands slurped by tier 3.
	MaxRange int
}

// SlurpOrder selects the sort key of the tier-3 slurp.
type SlurpOrder string

const (
	SlurpByRange    SlurpOrder = "range"
	SlurpByPriority SlurpOrder = "priority"
)

// Actor is one of the two lair innates.
type Actor string

const (
	Blue   Actor = "blue"
	Orange Actor = "orange"
)

// Actors lists the innate actors.
var Actors = []Actor{Blue, Orange}

// Conf is the per-turn planner configuration.
type Conf struct {
	TerrainPriority string
	Blue            InnateConf
	Orange          InnateConf
	// LeaveBehind maps land key to text piece name to a minimum residual count.
	LeaveBehind map[string]map[string]int
	// RecklessOffensive holds land key substrings that keep 2 towns and 2 dahan.
	RecklessOffensive []string
	PieceNames        PieceNames
	IgnoreLands       []string
	PriorityLands     []string
	SlurpOrder        SlurpOrder

	// DisplayNameRange appends " [range]" to land display names.
	DisplayNameRange bool
	// AllowMissingR1 tolerates range-1 lands absent from the start data.
	AllowMissingR1 bool
}

// Innate returns the configuration of actor a.
func (c *Conf) Innate(a Actor) InnateConf {
	if a == Orange {
		return c.Orange
	}
	return c.Blue
}

func (c *Conf) terrainPriority(letter rune) int {
	prio := []rune(c.TerrainPriority)
	for i, r := range prio {
		if r == letter {
			return i
		}
	}
	return len(prio)
}

// LandPriority ranks a land for gathering and ravaging; lower goes first.
// key may be empty when priority_lands should not apply.
func (c *Conf) LandPriority(key string, terrain board.Terrain, coastal bool) int {
	if key != "" && contains(c.PriorityLands, key) {
		return -1
	}
	p := c.terrainPriority(rune(terrain))
	if coastal {
		p = min(p, c.terrainPriority(board.Coastal))
	}
	return p
}

// HasTerrain reports whether terrain appears in the terrain priority.
func (c *Conf) HasTerrain(t board.Terrain) bool {
	return strings.ContainsRune(c.TerrainPriority, rune(t))
}

// Ignored reports whether the land is excluded from gathers and ravages.
func (c *Conf) Ignored(key string) bool {
	return contains(c.IgnoreLands, key)
}

// LeaveFor returns how many pieces of type p must stay in the land.
func (c *Conf) LeaveFor(key string, p PieceType) int {
	leave := c.LeaveBehind[key][TextNames.Name(p)]
	if p == Town || p == Dahan {
		for _, sub := range c.RecklessOffensive {
			if sub != "" && strings.Contains(key, sub) {
				leave = max(leave, 2)
			}
		}
	}
	return leave
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
