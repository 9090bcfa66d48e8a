package lair

import (
	"strconv"
	"strings"
)

// PieceType identifies one of the four piece kinds the planner moves.
type PieceType int

const (
	Explorer PieceType = iota
	Town
	City
	Dahan

	numPieceTypes
)

// Invaders lists invader piece types, smallest first.
var Invaders = []PieceType{Explorer, Town, City}

// AllPieces lists every piece type in display order.
var AllPieces = []PieceType{Explorer, Town, City, Dahan}

// Health is the damage needed to destroy one piece.
func (p PieceType) Health() int {
	switch p {
	case Explorer:
		return 1
	case Town, Dahan:
		return 2
	case City:
		return 3
	}
	return 0
}

// Fear is generated per destroyed piece.
func (p PieceType) Fear() int {
	switch p {
	case Town:
		return 1
	case City:
		return 2
	}
	return 0
}

// Response returns the piece added by military response when p is destroyed
// or downgraded.
func (p PieceType) Response() (PieceType, bool) {
	switch p {
	case Town:
		return Explorer, true
	case City:
		return Town, true
	}
	return 0, false
}

func (p PieceType) String() string {
	return TextNames.Name(p)
}

// PieceNames holds the display names of each piece type.
type PieceNames struct {
	Explorer string
	Town     string
	City     string
	Dahan    string
}

var (
	TextNames = PieceNames{
		Explorer: "explorer",
		Town:     "town",
		City:     "city",
		Dahan:    "dahan",
	}
	EmojiNames = PieceNames{
		Explorer: ":InvaderExplorer:",
		Town:     ":InvaderTown:",
		City:     ":InvaderCity:",
		Dahan:    ":Dahan:",
	}
)

// Name returns the display name of p.
func (n PieceNames) Name(p PieceType) string {
	switch p {
	case Explorer:
		return n.Explorer
	case Town:
		return n.Town
	case City:
		return n.City
	case Dahan:
		return n.Dahan
	}
	return "void"
}

// Lookup maps a display name back to its piece type.
func (n PieceNames) Lookup(name string) (PieceType, bool) {
	for _, p := range AllPieces {
		if n.Name(p) == name {
			return p, true
		}
	}
	return 0, false
}

// Pieces counts pieces per type.
type Pieces [numPieceTypes]int

// Invaders is the number of explorers, towns and cities.
func (c Pieces) Invaders() int {
	return c[Explorer] + c[Town] + c[City]
}

// NamedCount is a count of pieces under a display name.
type NamedCount struct {
	Name  string
	Count int
}

// Stringify renders counts as "2 explorer 1 town", skipping zeros, or
// "CLEAR" when nothing is left.
func Stringify(counts []NamedCount) string {
	var parts []string
	for _, c := range counts {
		if c.Count != 0 {
			parts = append(parts, strconv.Itoa(c.Count)+" "+c.Name)
		}
	}
	if len(parts) == 0 {
		return "CLEAR"
	}
	return strings.Join(parts, " ")
}

// Describe renders c with the given names.
func (c Pieces) Describe(names PieceNames) string {
	counts := make([]NamedCount, 0, numPieceTypes)
	for _, p := range AllPieces {
		counts = append(counts, NamedCount{Name: names.Name(p), Count: c[p]})
	}
	return Stringify(counts)
}
