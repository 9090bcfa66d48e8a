package board

import "fmt"

// Terrain is the single-letter terrain code of a land.
type Terrain byte

const (
	Jungle   Terrain = 'J'
	Mountain Terrain = 'M'
	Sands    Terrain = 'S'
	Wetlands Terrain = 'W'
	Ocean    Terrain = 'O'
	Lair     Terrain = 'L' // pseudo-terrain of the lair itself, never on a map
)

// Coastal is the pseudo-terrain letter used in priority strings for coastal lands.
const Coastal = 'C'

func (t Terrain) String() string {
	switch t {
	case Jungle:
		return "Jungle"
	case Mountain:
		return "Mountain"
	case Sands:
		return "Sands"
	case Wetlands:
		return "Wetlands"
	case Ocean:
		return "Ocean"
	case Lair:
		return "Lair"
	default:
		return "unknown"
	}
}

// Letter returns the terrain code as a one-character string.
func (t Terrain) Letter() string {
	return string(rune(t))
}

// IsMapTerrain reports whether t can appear on a map.
func (t Terrain) IsMapTerrain() bool {
	switch t {
	case Jungle, Mountain, Sands, Wetlands, Ocean:
		return true
	}
	return false
}

// ParseTerrain converts a one-letter code into a Terrain.
func ParseTerrain(s string) (Terrain, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("invalid terrain %q", s)
	}
	t := Terrain(s[0])
	if !t.IsMapTerrain() && t != Lair {
		return 0, fmt.Errorf("invalid terrain %q", s)
	}
	return t, nil
}
