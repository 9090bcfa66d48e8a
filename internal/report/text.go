// Package report renders a planned turn for humans and for the shared
// spreadsheets: the action log, a per-land diff, the cat-cafe garrison
// ledger and generated actions.csv rows.
package report

import (
	"fmt"
	"strings"

	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

func srcPieces(e lair.Entry) string {
	counts := make([]lair.NamedCount, len(e.Pieces))
	for i, p := range e.Pieces {
		counts[i] = lair.NamedCount{Name: p.Src, Count: p.Count}
	}
	return lair.Stringify(counts)
}

func tgtPieces(e lair.Entry) string {
	counts := make([]lair.NamedCount, len(e.Pieces))
	for i, p := range e.Pieces {
		counts[i] = lair.NamedCount{Name: p.Tgt, Count: p.Count}
	}
	return lair.Stringify(counts)
}

func hasResponse(e lair.Entry) bool {
	for _, p := range e.Pieces {
		if p.Tgt != "" {
			return true
		}
	}
	return false
}

// EntryText renders one log entry as a single line.
func EntryText(e lair.Entry) string {
	switch e.Kind {
	case lair.Comment:
		return e.Text
	case lair.Gather:
		var via strings.Builder
		for _, l := range e.Intermediate {
			via.WriteString(" to " + l)
		}
		return fmt.Sprintf("gather %s from %s%s to %s (total %d)",
			srcPieces(e), e.SrcLand, via.String(), e.TgtLand, e.TotalCount())
	case lair.Add:
		return fmt.Sprintf("add %s in %s (total %d)", tgtPieces(e), e.TgtLand, e.TotalCount())
	case lair.Destroy:
		response := ""
		if hasResponse(e) {
			response = fmt.Sprintf(", MR adds %s in %s", tgtPieces(e), e.TgtLand)
		}
		return fmt.Sprintf("destroy %s in %s%s", srcPieces(e), e.SrcLand, response)
	case lair.Downgrade:
		return fmt.Sprintf("downgrade %s in %s (total %d)", srcPieces(e), e.SrcLand, e.TotalCount())
	case lair.Manual:
		var b strings.Builder
		b.WriteString("manual action:")
		if e.Text != "" {
			parts := strings.Split(e.Text, " - ")
			b.WriteString(" " + parts[len(parts)-1])
		}
		if e.SrcLand != "" && len(e.Pieces) > 0 {
			fmt.Fprintf(&b, " -(%s) in %s", srcPieces(e), e.SrcLand)
		}
		if e.TgtLand != "" && len(e.Pieces) > 0 {
			fmt.Fprintf(&b, " +(%s) in %s", tgtPieces(e), e.TgtLand)
		}
		return b.String()
	}
	return ""
}

// Digest renders the log as a nested markdown list. Toplevel lines are
// always kept; deeper lines only when they contain filter.
func Digest(log *lair.Log, filter string) string {
	var lines []string
	for _, r := range log.Records {
		line := EntryText(r.Entry)
		if line == "" {
			continue
		}
		if r.Nest != 0 && !strings.Contains(line, filter) {
			continue
		}
		lines = append(lines, strings.Repeat("  ", r.Nest)+"- "+line)
	}
	return strings.Join(lines, "\n")
}

// cutToplevel strips the "(before) => (after)" summary from a toplevel line.
func cutToplevel(line string) string {
	head, _, _ := strings.Cut(line, ": (")
	return head
}
