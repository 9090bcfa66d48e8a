package board

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Link is a one-way edge to a neighbouring land.
type Link struct {
	Distance int
	Land     *Land
}

// Land is a single node on the map.
type Land struct {
	Key     string
	Terrain Terrain
	Coastal bool

	links   []Link
	linkIdx map[string]int
}

// Links returns the land's outgoing edges in declaration order.
func (l *Land) Links() []Link {
	return l.links
}

// LinkTo returns the edge from l to the land with the given key.
func (l *Land) LinkTo(key string) (Link, bool) {
	i, ok := l.linkIdx[key]
	if !ok {
		return Link{}, false
	}
	return l.links[i], true
}

func (l *Land) linkOneWay(other *Land, distance int) error {
	if i, ok := l.linkIdx[other.Key]; ok {
		existing := l.links[i].Distance
		switch {
		case distance == 0:
			l.links[i].Distance = 0
		case existing != 0 && existing != distance:
			return fmt.Errorf("land %s: conflicting distances %d and %d to %s", l.Key, existing, distance, other.Key)
		}
		return nil
	}
	l.linkIdx[other.Key] = len(l.links)
	l.links = append(l.links, Link{Distance: distance, Land: other})
	return nil
}

func link(a, b *Land, distance int) error {
	if a == b {
		return fmt.Errorf("land %s: cannot link to itself", a.Key)
	}
	if err := a.linkOneWay(b, distance); err != nil {
		return err
	}
	return b.linkOneWay(a, distance)
}

// Map is the land graph. It is read-only once loaded and weaved, so one
// Map may be shared by concurrent planners.
type Map struct {
	lands map[string]*Land
	keys  []string
}

// Land looks up a land by key.
func (m *Map) Land(key string) (*Land, bool) {
	l, ok := m.lands[key]
	return l, ok
}

// Keys returns all land keys in sorted order.
func (m *Map) Keys() []string {
	return m.keys
}

// Weave links two lands at distance 0, overriding any existing distance.
func (m *Map) Weave(a, b string) error {
	la, ok := m.lands[a]
	if !ok {
		return &UnknownLandError{Key: a}
	}
	lb, ok := m.lands[b]
	if !ok {
		return &UnknownLandError{Key: b}
	}
	return link(la, lb, 0)
}

// UnknownLandError is returned when a land key is not on the map.
type UnknownLandError struct {
	Key string
}

func (e *UnknownLandError) Error() string {
	return fmt.Sprintf("unknown land %q", e.Key)
}

type landFile struct {
	Key         string   `yaml:"key"`
	Terrain     string   `yaml:"terrain"`
	Coastal     bool     `yaml:"coastal"`
	Links       []string `yaml:"links"`
	Archipelago []string `yaml:"archipelago"`
}

type mapFile struct {
	Lands []landFile `yaml:"lands"`
}

// Load reads a map file from disk.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse builds a Map from its YAML representation. Links are bidirectional,
// so each pair only needs to be listed on one side. Lands adjacent to an
// ocean are marked coastal.
func Parse(data []byte) (*Map, error) {
	var f mapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing map: %w", err)
	}

	m := &Map{lands: make(map[string]*Land, len(f.Lands))}
	for _, lf := range f.Lands {
		if lf.Key == "" {
			return nil, fmt.Errorf("land with empty key")
		}
		if _, dup := m.lands[lf.Key]; dup {
			return nil, fmt.Errorf("duplicate land %q", lf.Key)
		}
		t, err := ParseTerrain(lf.Terrain)
		if err != nil || !t.IsMapTerrain() {
			return nil, fmt.Errorf("land %s: invalid terrain %q", lf.Key, lf.Terrain)
		}
		m.lands[lf.Key] = &Land{
			Key:     lf.Key,
			Terrain: t,
			Coastal: lf.Coastal,
			linkIdx: make(map[string]int),
		}
		m.keys = append(m.keys, lf.Key)
	}
	sort.Strings(m.keys)

	for _, lf := range f.Lands {
		src := m.lands[lf.Key]
		for _, group := range []struct {
			keys     []string
			distance int
		}{{lf.Links, 1}, {lf.Archipelago, 2}} {
			for _, key := range group.keys {
				dst, ok := m.lands[key]
				if !ok {
					return nil, fmt.Errorf("land %s: %w", lf.Key, &UnknownLandError{Key: key})
				}
				if err := link(src, dst, group.distance); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, l := range m.lands {
		if l.Terrain == Ocean {
			continue
		}
		for _, ln := range l.links {
			if ln.Land.Terrain == Ocean && ln.Distance == 1 {
				l.Coastal = true
			}
		}
	}
	return m, nil
}
