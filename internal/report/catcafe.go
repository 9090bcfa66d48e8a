package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

type catCafeRow struct {
	diff   lair.Pieces
	total  lair.Pieces
	source string
	action string
}

func optional(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func (r catCafeRow) record() []string {
	return []string{
		optional(r.diff[lair.Explorer]),
		optional(r.diff[lair.Town]),
		optional(r.diff[lair.City]),
		optional(r.diff[lair.Dahan]),
		strconv.Itoa(r.total[lair.Explorer]),
		strconv.Itoa(r.total[lair.Town]),
		strconv.Itoa(r.total[lair.City]),
		strconv.Itoa(r.total[lair.Dahan]),
		r.source,
		r.action,
	}
}

// CatCafe writes the lair garrison ledger: one row for the starting
// garrison, then one row per logged action that moves pieces in or out of
// the lair, with the change and the running totals.
func CatCafe(w io.Writer, initial *lair.Land, log *lair.Log, names lair.PieceNames) error {
	cw := csv.NewWriter(w)
	total := initial.Pieces
	if err := cw.Write(catCafeRow{
		diff:   total,
		total:  total,
		source: lair.LairKey,
		action: "From last phase",
	}.record()); err != nil {
		return err
	}

	isLair := func(display string) bool {
		return display == initial.Key || display == turn.LairRef
	}

	toplevel := ""
	for _, rec := range log.Records {
		e := rec.Entry
		if rec.Nest == 0 {
			toplevel = cutToplevel(e.Text)
		}

		row := catCafeRow{source: e.SrcLand}
		switch e.Kind {
		case lair.Downgrade:
			row.action = toplevel + " - downgrade"
		case lair.Gather:
			row.action = toplevel + " - gather (" + strconv.Itoa(e.TotalCount()) + ")"
		case lair.Add:
			row.action = toplevel + " - add"
		case lair.Destroy:
			row.action = toplevel + " - military response"
		case lair.Manual:
			row.action = e.Text
			if row.action == "" {
				row.action = "UNKNOWN"
			}
		default:
			continue
		}

		srcMult, tgtMult := 0, 0
		if isLair(e.SrcLand) {
			srcMult = 1
		}
		if isLair(e.TgtLand) {
			tgtMult = 1
		}
		if srcMult == 0 && tgtMult == 0 {
			continue
		}

		for _, pc := range e.Pieces {
			if p, ok := names.Lookup(pc.Src); ok {
				row.diff[p] -= pc.Count * srcMult
			}
			if p, ok := names.Lookup(pc.Tgt); ok {
				row.diff[p] += pc.Count * tgtMult
			}
		}
		for p := range total {
			total[p] += row.diff[p]
		}
		row.total = total
		if err := cw.Write(row.record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
