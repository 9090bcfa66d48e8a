package lair

import (
	"testing"

	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name   string
		pieces Pieces
		names  PieceNames
		want   string
	}{
		{"empty", Pieces{}, TextNames, "CLEAR"},
		{"skips zeros", pieces(2, 0, 1, 0), TextNames, "2 explorer 1 city"},
		{"all", pieces(1, 2, 3, 4), TextNames, "1 explorer 2 town 3 city 4 dahan"},
		{"emoji", pieces(0, 1, 0, 2), EmojiNames, "1 :InvaderTown: 2 :Dahan:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.pieces.Describe(tt.names); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPieceNamesLookup(t *testing.T) {
	for _, p := range AllPieces {
		for _, names := range []PieceNames{TextNames, EmojiNames} {
			got, ok := names.Lookup(names.Name(p))
			if !ok || got != p {
				t.Errorf("Lookup(%q) = %v, %v", names.Name(p), got, ok)
			}
		}
	}
	if _, ok := TextNames.Lookup("blight"); ok {
		t.Error("unknown name should not resolve")
	}
}

func TestPieceRules(t *testing.T) {
	tests := []struct {
		piece    PieceType
		health   int
		fear     int
		response PieceType
		hasResp  bool
	}{
		{Explorer, 1, 0, 0, false},
		{Town, 2, 1, Explorer, true},
		{City, 3, 2, Town, true},
		{Dahan, 2, 0, 0, false},
	}
	for _, tt := range tests {
		if tt.piece.Health() != tt.health || tt.piece.Fear() != tt.fear {
			t.Errorf("%s: health/fear = %d/%d", tt.piece, tt.piece.Health(), tt.piece.Fear())
		}
		resp, ok := tt.piece.Response()
		if ok != tt.hasResp || (ok && resp != tt.response) {
			t.Errorf("%s: response = %v, %v", tt.piece, resp, ok)
		}
	}
}

func TestLandPriority(t *testing.T) {
	conf := &Conf{TerrainPriority: "WCJ", PriorityLands: []string{"X1"}}
	tests := []struct {
		key     string
		terrain board.Terrain
		coastal bool
		want    int
	}{
		{"A1", board.Wetlands, false, 0},
		{"A1", board.Jungle, false, 2},
		{"A1", board.Jungle, true, 1},
		{"A1", board.Mountain, false, 3},
		{"X1", board.Mountain, false, -1},
		{"", board.Mountain, true, 1},
	}
	for _, tt := range tests {
		if got := conf.LandPriority(tt.key, tt.terrain, tt.coastal); got != tt.want {
			t.Errorf("LandPriority(%s, %s, %v) = %d, want %d", tt.key, tt.terrain, tt.coastal, got, tt.want)
		}
	}
}

func TestLeaveFor(t *testing.T) {
	conf := &Conf{
		LeaveBehind:       map[string]map[string]int{"A1": {"explorer": 3, "town": 1}},
		RecklessOffensive: []string{"A"},
	}
	tests := []struct {
		key   string
		piece PieceType
		want  int
	}{
		{"A1", Explorer, 3},
		{"A1", Town, 2},
		{"A1", Dahan, 2},
		{"A1", City, 0},
		{"B1", Town, 0},
	}
	for _, tt := range tests {
		if got := conf.LeaveFor(tt.key, tt.piece); got != tt.want {
			t.Errorf("LeaveFor(%s, %s) = %d, want %d", tt.key, tt.piece, got, tt.want)
		}
	}
}

func TestLogForkAndIndent(t *testing.T) {
	l := NewLog()
	l.Commentf("top")
	child := l.Fork()
	child.Commentf("child")
	child.Indent(func() { child.Commentf("grandchild") })
	l.Join(child)

	var nests []int
	for _, r := range l.Records {
		nests = append(nests, r.Nest)
	}
	want := []int{0, 1, 2}
	for i := range want {
		if nests[i] != want[i] {
			t.Fatalf("nests = %v, want %v", nests, want)
		}
	}
}
