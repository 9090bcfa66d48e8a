package board

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// A diamond: A1 reaches A4 through either A2 or A3.
const diamondMap = `
lands:
  - key: A1
    terrain: M
    links: [A2, A3]
  - key: A2
    terrain: W
    links: [A4]
  - key: A3
    terrain: J
    links: [A4]
  - key: A4
    terrain: S
    archipelago: [B1]
  - key: B1
    terrain: J
  - key: O1
    terrain: O
    links: [A3]
`

func mustParse(t *testing.T, src string) *Map {
	t.Helper()
	m, err := Parse([]byte(src))
	require.NoError(t, err)
	return m
}

func TestParse_LinksAreBidirectional(t *testing.T) {
	m := mustParse(t, diamondMap)
	for _, key := range m.Keys() {
		l, _ := m.Land(key)
		for _, ln := range l.Links() {
			back, ok := ln.Land.LinkTo(key)
			if !ok {
				t.Errorf("link %s -> %s has no reverse", key, ln.Land.Key)
				continue
			}
			if back.Distance != ln.Distance {
				t.Errorf("link %s <-> %s distances differ: %d vs %d", key, ln.Land.Key, ln.Distance, back.Distance)
			}
		}
	}
}

func TestParse_KeysSorted(t *testing.T) {
	m := mustParse(t, diamondMap)
	want := []string{"A1", "A2", "A3", "A4", "B1", "O1"}
	if diff := cmp.Diff(want, m.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_OceanMakesCoastal(t *testing.T) {
	m := mustParse(t, diamondMap)
	a3, _ := m.Land("A3")
	a2, _ := m.Land("A2")
	if !a3.Coastal {
		t.Error("A3 borders the ocean and should be coastal")
	}
	if a2.Coastal {
		t.Error("A2 should not be coastal")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unknown link", "lands:\n  - {key: A1, terrain: M, links: [Z9]}\n"},
		{"bad terrain", "lands:\n  - {key: A1, terrain: Q}\n"},
		{"lair terrain", "lands:\n  - {key: A1, terrain: L}\n"},
		{"duplicate", "lands:\n  - {key: A1, terrain: M}\n  - {key: A1, terrain: J}\n"},
		{"self link", "lands:\n  - {key: A1, terrain: M, links: [A1]}\n"},
		{"conflicting distance", "lands:\n  - {key: A1, terrain: M, links: [A2]}\n  - {key: A2, terrain: J, archipelago: [A1]}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.src)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWeave_ZeroDistance(t *testing.T) {
	m := mustParse(t, diamondMap)
	require.NoError(t, m.Weave("A1", "B1"))

	a1, _ := m.Land("A1")
	dist, _, err := Distances(a1, nil)
	require.NoError(t, err)
	if dist["B1"] != 0 {
		t.Errorf("woven land distance = %d, want 0", dist["B1"])
	}
	// A4 is archipelago-linked to B1, so it is now 2 away through the weave.
	if dist["A4"] != 2 {
		t.Errorf("A4 distance = %d, want 2", dist["A4"])
	}
}

func TestWeave_UnknownLand(t *testing.T) {
	m := mustParse(t, diamondMap)
	err := m.Weave("A1", "Z9")
	var unknown *UnknownLandError
	if !errors.As(err, &unknown) || unknown.Key != "Z9" {
		t.Errorf("expected UnknownLandError for Z9, got %v", err)
	}
}

func TestDistances(t *testing.T) {
	m := mustParse(t, diamondMap)
	a1, _ := m.Land("A1")
	dist, prev, err := Distances(a1, nil)
	require.NoError(t, err)

	want := map[string]int{"A1": 0, "A2": 1, "A3": 1, "A4": 2, "B1": 4}
	if diff := cmp.Diff(want, dist); diff != "" {
		t.Errorf("distances mismatch (-want +got):\n%s", diff)
	}
	// Without a tiebreaker the last equal predecessor wins.
	if prev["A4"] != "A3" {
		t.Errorf("prev[A4] = %s, want A3", prev["A4"])
	}
}

func TestDistances_TiebreakerPicksLower(t *testing.T) {
	m := mustParse(t, diamondMap)
	a1, _ := m.Land("A1")
	prefer := func(l *Land, _ map[string]int, _ map[string]string) (Priority, error) {
		if l.Key == "A2" {
			return Priority{0}, nil
		}
		return Priority{1}, nil
	}
	_, prev, err := Distances(a1, prefer)
	require.NoError(t, err)
	if prev["A4"] != "A2" {
		t.Errorf("prev[A4] = %s, want A2", prev["A4"])
	}
}

func TestDistances_TiebreakerError(t *testing.T) {
	m := mustParse(t, diamondMap)
	a1, _ := m.Land("A1")
	boom := errors.New("boom")
	_, _, err := Distances(a1, func(l *Land, _ map[string]int, _ map[string]string) (Priority, error) {
		if l.Key == "A4" {
			return nil, boom
		}
		return nil, nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected tiebreaker error, got %v", err)
	}
}

func TestPath(t *testing.T) {
	m := mustParse(t, diamondMap)
	a1, _ := m.Land("A1")
	_, prev, err := Distances(a1, nil)
	require.NoError(t, err)

	path, ok := Path(prev, "A1", "B1")
	require.True(t, ok)
	if diff := cmp.Diff([]string{"A1", "A3", "A4", "B1"}, path); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	if _, ok := Path(prev, "A1", "O1"); ok {
		t.Error("ocean land should be unreachable")
	}
}

func TestNearestDistances(t *testing.T) {
	m := mustParse(t, diamondMap)
	a2, _ := m.Land("A2")
	b1, _ := m.Land("B1")
	got, err := NearestDistances([]*Land{a2, b1})
	require.NoError(t, err)
	want := map[string]int{"A1": 1, "A2": 0, "A3": 2, "A4": 1, "B1": 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("nearest mismatch (-want +got):\n%s", diff)
	}
}

func TestPriorityCompare(t *testing.T) {
	tests := []struct {
		a, b Priority
		want int
	}{
		{Priority{0, 1}, Priority{0, 2}, -1},
		{Priority{1}, Priority{0, 5}, 1},
		{Priority{0, -1, 3}, Priority{0, -1, 3}, 0},
		{nil, nil, 0},
		{Priority{0}, Priority{0, 0}, -1},
	}
	for _, tt := range tests {
		if got := tt.a.Compare(tt.b); got != tt.want {
			t.Errorf("%v.Compare(%v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}
