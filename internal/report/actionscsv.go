package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/talshorer/spirit-island-144p-lair/internal/turn"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// ActionsCSV re-emits every manual action of the plan and appends one
// "Manual gather" row per slurp gather, so the plan can be replayed by the
// next phase. New rows get ids after maxActionID.
func ActionsCSV(w io.Writer, st *lair.State, names lair.PieceNames, maxActionID int) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(turn.ActionsHeader); err != nil {
		return err
	}

	inSlurp := ""
	nextID := maxActionID
	for _, rec := range st.Log.Records {
		e := rec.Entry
		switch e.Kind {
		case lair.Manual:
			if err := cw.Write(e.CSV); err != nil {
				return err
			}
		case lair.Comment:
			if rec.Nest != 0 {
				continue
			}
			inSlurp = ""
			for _, a := range lair.Actors {
				if strings.Contains(e.Text, fmt.Sprintf("lair-%s-%s", a, lair.Thresh3)) {
					inSlurp = "lair_" + string(a)
					break
				}
			}
		case lair.Gather:
			if inSlurp == "" {
				continue
			}
			var counts lair.Pieces
			for _, pc := range e.Pieces {
				if p, ok := names.Lookup(pc.Src); ok {
					counts[p] += pc.Count
				}
			}
			nextID++
			dst := strings.ReplaceAll(e.TgtLand, st.Lair.DisplayName, turn.LairRef)
			row := turn.CsvAction{
				Source:        e.SrcLand,
				Destination:   dst,
				Cities:        optional(counts[lair.City]),
				Towns:         optional(counts[lair.Town]),
				Explorers:     optional(counts[lair.Explorer]),
				Dahan:         optional(counts[lair.Dahan]),
				Name:          "Manual gather",
				ID:            strconv.Itoa(nextID),
				Notes:         fmt.Sprintf("generated by --output actions.csv: %d gathers", e.TotalCount()),
				AfterToplevel: inSlurp,
			}
			if err := cw.Write(row.Row()); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
