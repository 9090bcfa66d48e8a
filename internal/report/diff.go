package report

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// DiffOptions control the diff view.
type DiffOptions struct {
	// All shows unchanged lands too.
	All bool
	// SortRange groups lands by range from the lair instead of by islet.
	SortRange bool
	Filter    string
}

func landDiff(a, b *lair.Land, names lair.PieceNames, all bool) string {
	after := ""
	if a.Pieces == b.Pieces {
		if !all {
			return ""
		}
		after = "UNCHANGED"
	} else {
		after = b.Describe(names)
	}
	return fmt.Sprintf("%s: (%s) => (%s)", a.DisplayName, a.Describe(names), after)
}

type diffLine struct {
	text string
	dist int
}

// Diff compares every land of orig with the same land in final. Lands are
// grouped under a header per islet, the first character of the display
// name, or per range.
func Diff(orig, final *lair.State, names lair.PieceNames, opts DiffOptions) string {
	lines := []diffLine{{text: landDiff(orig.Lair, final.Lair, names, opts.All)}}
	for _, group := range [][]*lair.Land{orig.Lands, orig.Unpathable} {
		for _, a := range group {
			b, ok := final.Land(a.Key)
			if !ok {
				continue
			}
			lines = append(lines, diffLine{text: landDiff(a, b, names, opts.All), dist: final.Dist[a.Key]})
		}
	}
	sort.SliceStable(lines, func(i, j int) bool {
		if opts.SortRange {
			return lines[i].dist < lines[j].dist
		}
		return lines[i].text < lines[j].text
	})

	var out []string
	last := ""
	for _, l := range lines {
		if l.text == "" || !strings.Contains(l.text, opts.Filter) {
			continue
		}
		var group string
		if opts.SortRange {
			group = fmt.Sprint(l.dist)
		} else {
			r, _ := utf8.DecodeRuneInString(l.text)
			group = string(r)
		}
		if len(out) == 0 || group != last {
			out = append(out, fmt.Sprintf("- %s %s diff", final.Lair.Key, group))
			last = group
		}
		out = append(out, "  - "+l.text)
	}
	return strings.Join(out, "\n")
}
