package lair

import (
	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
)

// LairKey is the land key of the lair itself.
const LairKey = "LAIR"

// Land is a land's planning state. It is mutated in place by the planner.
type Land struct {
	Key         string
	DisplayName string
	Terrain     board.Terrain
	Pieces      Pieces

	// pending holds military-response pieces placed when a ravage ends.
	pending Pieces
}

// NewLand creates a land holding the given pieces.
func NewLand(key, displayName string, terrain board.Terrain, pieces Pieces) *Land {
	return &Land{
		Key:         key,
		DisplayName: displayName,
		Terrain:     terrain,
		Pieces:      pieces,
	}
}

// Count returns the number of pieces of type p.
func (l *Land) Count(p PieceType) int {
	return l.Pieces[p]
}

// TotalInvaders returns explorers + towns + cities.
func (l *Land) TotalInvaders() int {
	return l.Pieces.Invaders()
}

// Describe renders the land's pieces with the given names.
func (l *Land) Describe(names PieceNames) string {
	return l.Pieces.Describe(names)
}

// placePending moves military-response pieces onto the land.
func (l *Land) placePending() {
	for _, p := range Invaders {
		l.Pieces[p] += l.pending[p]
		l.pending[p] = 0
	}
}

// Clone returns an independent copy of the land.
func (l *Land) Clone() *Land {
	c := *l
	return &c
}
