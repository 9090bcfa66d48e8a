package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

func same(name string, n int) lair.PieceCount {
	return lair.PieceCount{Src: name, Tgt: name, Count: n}
}

func manualPieces(explorers, towns, cities, dahan int) []lair.PieceCount {
	return []lair.PieceCount{
		same("explorer", explorers), same("town", towns), same("city", cities), same("dahan", dahan),
	}
}

func TestEntryText(t *testing.T) {
	tests := []struct {
		name  string
		entry lair.Entry
		want  string
	}{
		{
			name:  "comment",
			entry: lair.Entry{Kind: lair.Comment, Text: "available gathers: 2"},
			want:  "available gathers: 2",
		},
		{
			name: "gather",
			entry: lair.Entry{
				Kind: lair.Gather, SrcLand: "A4S", TgtLand: "lair",
				Pieces: []lair.PieceCount{same("explorer", 2)}, Intermediate: []string{"A2W"}, Mult: 2,
			},
			want: "gather 2 explorer from A4S to A2W to lair (total 4)",
		},
		{
			name:  "add",
			entry: lair.Entry{Kind: lair.Add, TgtLand: "lair", Pieces: []lair.PieceCount{{Tgt: "town", Count: 1}}},
			want:  "add 1 town in lair (total 1)",
		},
		{
			name: "destroy with response",
			entry: lair.Entry{
				Kind: lair.Destroy, SrcLand: "A2W", TgtLand: "A2W",
				Pieces: []lair.PieceCount{{Src: "town", Tgt: "explorer", Count: 2}},
			},
			want: "destroy 2 town in A2W, MR adds 2 explorer in A2W",
		},
		{
			name:  "destroy",
			entry: lair.Entry{Kind: lair.Destroy, SrcLand: "A3J", Pieces: []lair.PieceCount{{Src: "explorer", Count: 3}}},
			want:  "destroy 3 explorer in A3J",
		},
		{
			name: "downgrade",
			entry: lair.Entry{
				Kind: lair.Downgrade, SrcLand: "A5S", TgtLand: "A5S",
				Pieces: []lair.PieceCount{{Src: "city", Tgt: "town", Count: 1}},
			},
			want: "downgrade 1 city in A5S (total 1)",
		},
		{
			name: "manual",
			entry: lair.Entry{
				Kind: lair.Manual, Text: "Spirit power - Gather", SrcLand: "A2W", TgtLand: "LAIRL",
				Pieces: manualPieces(0, 1, 0, 0),
			},
			want: "manual action: Gather -(1 town) in A2W +(1 town) in LAIRL",
		},
		{
			name:  "manual without lands",
			entry: lair.Entry{Kind: lair.Manual, Text: "Spirit power", Pieces: manualPieces(0, 0, 0, 0)},
			want:  "manual action: Spirit power",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EntryText(tt.entry); got != tt.want {
				t.Errorf("EntryText = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	log := lair.NewLog()
	log.Commentf("call in lair: (6 explorer) => (9 explorer)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "A2W", TgtLand: "lair", Pieces: []lair.PieceCount{same("explorer", 1)}, Mult: 1})
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "B1W", TgtLand: "lair", Pieces: []lair.PieceCount{same("explorer", 2)}, Mult: 1})
	})

	want := strings.Join([]string{
		"- call in lair: (6 explorer) => (9 explorer)",
		"  - gather 1 explorer from A2W to lair (total 1)",
		"  - gather 2 explorer from B1W to lair (total 2)",
	}, "\n")
	if diff := cmp.Diff(want, Digest(log, "")); diff != "" {
		t.Errorf("digest mismatch (-want +got):\n%s", diff)
	}

	want = strings.Join([]string{
		"- call in lair: (6 explorer) => (9 explorer)",
		"  - gather 2 explorer from B1W to lair (total 2)",
	}, "\n")
	if diff := cmp.Diff(want, Digest(log, "B1")); diff != "" {
		t.Errorf("filtered digest mismatch (-want +got):\n%s", diff)
	}
}

func diffStates() (*lair.State, *lair.State) {
	orig := &lair.State{
		Lair: lair.NewLand("lair", "lair", 'L', lair.Pieces{lair.Explorer: 6}),
		Lands: []*lair.Land{
			lair.NewLand("A2", "A2W", 'W', lair.Pieces{lair.Town: 1}),
			lair.NewLand("A3", "A3J", 'J', lair.Pieces{lair.Explorer: 3}),
		},
		Unpathable: []*lair.Land{lair.NewLand("B1", "B1W", 'W', lair.Pieces{lair.Explorer: 2})},
		Log:        lair.NewLog(),
	}
	final := orig.Clone()
	final.Dist = map[string]int{"A1": 0, "A2": 1, "A3": 1, "B1": 3}
	final.Lair.Pieces = lair.Pieces{lair.Explorer: 4, lair.Town: 1}
	final.Lands[0].Pieces = lair.Pieces{}
	final.Unpathable[0].Pieces = lair.Pieces{lair.Explorer: 1}
	return orig, final
}

func TestDiff(t *testing.T) {
	orig, final := diffStates()
	tests := []struct {
		name string
		opts DiffOptions
		want []string
	}{
		{
			name: "by islet",
			want: []string{
				"- lair A diff",
				"  - A2W: (1 town) => (CLEAR)",
				"- lair B diff",
				"  - B1W: (2 explorer) => (1 explorer)",
				"- lair l diff",
				"  - lair: (6 explorer) => (4 explorer 1 town)",
			},
		},
		{
			name: "all",
			opts: DiffOptions{All: true, Filter: "A"},
			want: []string{
				"- lair A diff",
				"  - A2W: (1 town) => (CLEAR)",
				"  - A3J: (3 explorer) => (UNCHANGED)",
			},
		},
		{
			name: "by range",
			opts: DiffOptions{SortRange: true},
			want: []string{
				"- lair 0 diff",
				"  - lair: (6 explorer) => (4 explorer 1 town)",
				"- lair 1 diff",
				"  - A2W: (1 town) => (CLEAR)",
				"- lair 3 diff",
				"  - B1W: (2 explorer) => (1 explorer)",
			},
		},
		{
			name: "filtered",
			opts: DiffOptions{Filter: "B1"},
			want: []string{
				"- lair B diff",
				"  - B1W: (2 explorer) => (1 explorer)",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(orig, final, lair.TextNames, tt.opts)
			if diff := cmp.Diff(strings.Join(tt.want, "\n"), got); diff != "" {
				t.Errorf("diff mismatch (-want +got):\n%s", diff)
			}
			if again := Diff(orig, final, lair.TextNames, tt.opts); again != got {
				t.Error("diff is not reproducible")
			}
		})
	}
}

func TestCatCafe(t *testing.T) {
	initial := lair.NewLand("lair", "lair", 'L', lair.Pieces{lair.Explorer: 6, lair.Town: 1, lair.Dahan: 2})
	log := lair.NewLog()
	log.Commentf("execute delayed actions for start: (x) => (y)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Manual, Text: "Invader move", SrcLand: "B9W", TgtLand: "LAIRL", Pieces: manualPieces(2, 0, 0, 0)})
	})
	log.Commentf("lair-blue-thresh3 in lair: (x) => (y)")
	log.Indent(func() {
		log.Commentf("available gathers: 1")
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "A2W", TgtLand: "lair", Pieces: []lair.PieceCount{same("town", 1)}, Mult: 1})
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "A4S", TgtLand: "A2W", Pieces: []lair.PieceCount{same("town", 1)}, Mult: 1})
	})
	log.Commentf("ravage in lair: (x) => (y)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Destroy, SrcLand: "lair", TgtLand: "lair", Pieces: []lair.PieceCount{{Src: "town", Tgt: "explorer", Count: 1}}})
		log.Add(lair.Entry{Kind: lair.Destroy, SrcLand: "A2W", TgtLand: "lair", Pieces: []lair.PieceCount{{Src: "town", Tgt: "explorer", Count: 1}}})
	})

	var buf bytes.Buffer
	require.NoError(t, CatCafe(&buf, initial, log, lair.TextNames))
	want := strings.Join([]string{
		"6,1,,2,6,1,0,2,LAIR,From last phase",
		"2,,,,8,1,0,2,B9W,Invader move",
		",1,,,8,2,0,2,A2W,lair-blue-thresh3 in lair - gather (1)",
		"1,-1,,,9,1,0,2,lair,ravage in lair - military response",
		"1,,,,10,1,0,2,A2W,ravage in lair - military response",
	}, "\n") + "\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("cat-cafe mismatch (-want +got):\n%s", diff)
	}
	if initial.Pieces[lair.Explorer] != 6 {
		t.Error("CatCafe modified the initial lair")
	}
}

func TestActionsCSV(t *testing.T) {
	st := &lair.State{Lair: lair.NewLand("lair", "lair", 'L', lair.Pieces{}), Log: lair.NewLog()}
	log := st.Log
	log.Commentf("execute delayed actions for : (x) => (y)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Manual, CSV: []string{"A3J", "A2W", "", "", "1", "", "Push", "3", "", "", ""}})
	})
	log.Commentf("lair-blue-thresh3 in lair: (x) => (y)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "A4S", TgtLand: "lair", Pieces: []lair.PieceCount{same("explorer", 2)}, Mult: 2})
	})
	log.Commentf("lair-orange-thresh2 in lair: (x) => (y)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "A2W", TgtLand: "lair", Pieces: []lair.PieceCount{same("town", 1)}, Mult: 1})
	})
	log.Commentf("lair-orange-thresh3 in lair: (x) => (y)")
	log.Indent(func() {
		log.Add(lair.Entry{Kind: lair.Gather, SrcLand: "A5S", TgtLand: "lair", Pieces: []lair.PieceCount{same("dahan", 1)}, Mult: 1})
	})

	var buf bytes.Buffer
	require.NoError(t, ActionsCSV(&buf, st, lair.TextNames, 6))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		turn.ActionsHeader,
		{"A3J", "A2W", "", "", "1", "", "Push", "3", "", "", ""},
		{"A4S", "LAIRL", "", "", "2", "", "Manual gather", "7", "", "generated by --output actions.csv: 4 gathers", "lair_blue"},
		{"A5S", "LAIRL", "", "", "", "1", "Manual gather", "8", "", "generated by --output actions.csv: 1 gathers", "lair_orange"},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("actions.csv mismatch (-want +got):\n%s", diff)
	}

	// The generated rows are valid input for the next phase.
	var actions []turn.CsvAction
	for _, row := range rows[1:] {
		a, err := turn.ParseCsvAction(row)
		require.NoError(t, err)
		actions = append(actions, a)
	}
	next, err := turn.NextActionID(actions)
	require.NoError(t, err)
	if next != 0 {
		t.Errorf("next action id = %d, want 0", next)
	}
}

func TestSpaceEmojis(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"A2:LandWetlands:", "A2 :LandWetlands:"},
		{"2 :InvaderTown: in A2", "2 :InvaderTown: in A2"},
		{"lair: (1 :Dahan:)", "lair: (1 :Dahan: )"},
		{"x:a:b:c:", "x :a: b :c:"},
		{"at 10:3x", "at 10:3x"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := spaceEmojis(tt.in); got != tt.want {
			t.Errorf("spaceEmojis(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func cost(line string) int {
	return len(line) + 1 + strings.Count(line, ":")/2*EmojiCost
}

func TestSplitter_Short(t *testing.T) {
	text := "- call in lair: (x) => (y)\n  - gather 1 explorer from A2W to lair (total 1)"
	got := (&Splitter{}).Split(text)
	if diff := cmp.Diff([]string{text}, got); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitter_Budget(t *testing.T) {
	lines := []string{"- call in lair: (x) => (y)"}
	for i := 0; i < 40; i++ {
		lines = append(lines, "  - gather 1 :InvaderExplorer: from A2:LandWetlands: to lair (total 1)")
		for j := 0; j < 3; j++ {
			lines = append(lines, "    - destroy 1 explorer in A2W")
		}
	}
	msgs := (&Splitter{}).Split(strings.Join(lines, "\n"))
	require.Greater(t, len(msgs), 1)

	var body []string
	for i, m := range msgs {
		ml := strings.Split(m, "\n")
		total := 0
		for _, l := range ml {
			total += cost(l)
		}
		if total > MessageLimit {
			t.Errorf("message %d costs %d", i+1, total)
		}
		if i > 0 {
			if ml[0] != "- call in lair - cont." {
				t.Errorf("message %d starts with %q", i+1, ml[0])
			}
			ml = ml[1:]
		}
		if len(ml) > 0 && strings.HasPrefix(ml[0], "    -") {
			t.Errorf("message %d separates a bullet from its children", i+1)
		}
		body = append(body, ml...)
	}

	var want []string
	for _, l := range lines {
		want = append(want, spaceEmojis(l))
	}
	if diff := cmp.Diff(want, body); diff != "" {
		t.Errorf("split lost lines (-want +got):\n%s", diff)
	}
}

func TestSplitter_ForceCommitOnToplevel(t *testing.T) {
	text := "- lair A diff\n  - A2W: (1 town) => (CLEAR)\n- lair B diff\n  - B1W: (2 explorer) => (1 explorer)"
	got := (&Splitter{ForceCommitOnToplevel: true}).Split(text)
	want := []string{
		"- lair A diff\n  - A2W: (1 town) => (CLEAR)",
		"- lair B diff\n  - B1W: (2 explorer) => (1 explorer)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteMessages(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "msg09.md"), []byte("stale"), 0o644))

	require.NoError(t, WriteMessages(dir, []string{"one", "two"}, "lair", " turn5"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if diff := cmp.Diff([]string{"msg01.md", "msg02.md"}, names); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	data, err := os.ReadFile(filepath.Join(dir, "msg02.md"))
	require.NoError(t, err)
	if got := string(data); got != "lair [2/2] turn5\ntwo" {
		t.Errorf("msg02.md = %q", got)
	}
}
