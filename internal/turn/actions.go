package turn

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// ActionsHeader is the header row of actions.csv.
var ActionsHeader = []string{
	"Source", "Destination", "City", "Town", "Explorer", "Dahan",
	"Action Name", "Action ID", "Parent", "Notes", "After Toplevel",
}

// Ordering keys of delayed actions besides toplevel action names.
const (
	AfterPrestart = ""
	AfterStart    = "start"
)

// LairRef is how actions.csv refers to the lair: key LAIR, terrain L.
const LairRef = lair.LairKey + "L"

// CsvAction is one row of actions.csv. Land references are a land key
// followed by its terrain letter.
type CsvAction struct {
	Source        string
	Destination   string
	Cities        string
	Towns         string
	Explorers     string
	Dahan         string
	Name          string
	ID            string
	Parent        string
	Notes         string
	AfterToplevel string
}

// ParseCsvAction decodes one actions.csv record.
func ParseCsvAction(row []string) (CsvAction, error) {
	if len(row) != len(ActionsHeader) {
		return CsvAction{}, fmt.Errorf("expected %d columns, got %d", len(ActionsHeader), len(row))
	}
	return CsvAction{
		Source:        row[0],
		Destination:   row[1],
		Cities:        row[2],
		Towns:         row[3],
		Explorers:     row[4],
		Dahan:         row[5],
		Name:          row[6],
		ID:            row[7],
		Parent:        row[8],
		Notes:         row[9],
		AfterToplevel: row[10],
	}, nil
}

// Row encodes the action back into an actions.csv record.
func (a CsvAction) Row() []string {
	return []string{
		a.Source, a.Destination, a.Cities, a.Towns, a.Explorers, a.Dahan,
		a.Name, a.ID, a.Parent, a.Notes, a.AfterToplevel,
	}
}

func (a CsvAction) counts() (lair.Pieces, error) {
	var c lair.Pieces
	for _, f := range []struct {
		piece lair.PieceType
		raw   string
	}{
		{lair.Explorer, a.Explorers},
		{lair.Town, a.Towns},
		{lair.City, a.Cities},
		{lair.Dahan, a.Dahan},
	} {
		n, err := toInt(f.raw)
		if err != nil {
			return c, &lair.ConfigError{
				Key:     fmt.Sprintf("action %s", a.ID),
				Message: fmt.Sprintf("invalid %s count %q", f.piece, f.raw),
			}
		}
		c[f.piece] = n
	}
	return c, nil
}

func toInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// splitLandRef splits "🌙R4W" into its key and terrain letter.
func splitLandRef(ref string) (string, board.Terrain) {
	return ref[:len(ref)-1], board.Terrain(ref[len(ref)-1])
}

// Delayed holds the manual actions of a turn, keyed by the toplevel action
// they run after.
type Delayed struct {
	pending map[string][]CsvAction
	byID    map[string]CsvAction
	near    map[string]*lair.Land
	distant map[string]*lair.Land
	names   lair.PieceNames
	opts    Options
	log     *lair.Log

	MaxActionID int
}

func newDelayed(near map[string]*lair.Land, names lair.PieceNames, opts Options, log *lair.Log) *Delayed {
	return &Delayed{
		pending:     make(map[string][]CsvAction),
		byID:        make(map[string]CsvAction),
		near:        near,
		distant:     make(map[string]*lair.Land),
		names:       names,
		opts:        opts,
		log:         log,
		MaxActionID: -1,
	}
}

// Push queues an action. Only the first row of a split action is used as
// the parent of others.
func (d *Delayed) Push(a CsvAction) error {
	id, err := strconv.Atoi(a.ID)
	if err != nil {
		return &lair.ConfigError{Key: ActionsFile, Message: fmt.Sprintf("invalid action id %q", a.ID)}
	}
	if !validAfterKey(a.AfterToplevel) {
		return &lair.ConfigError{
			Key:     fmt.Sprintf("action %s", a.ID),
			Message: fmt.Sprintf("unknown After Toplevel %q", a.AfterToplevel),
		}
	}
	d.pending[a.AfterToplevel] = append(d.pending[a.AfterToplevel], a)
	d.MaxActionID = max(d.MaxActionID, id)
	if _, ok := d.byID[a.ID]; !ok {
		d.byID[a.ID] = a
	}
	return nil
}

func validAfterKey(key string) bool {
	return key == AfterPrestart || key == AfterStart || lair.IsToplevel(key)
}

// Pending returns the keys that still have actions queued, sorted.
func (d *Delayed) Pending() []string {
	keys := make([]string, 0, len(d.pending))
	for k := range d.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Near returns the lands loaded from the start data, plus the lair under
// lair.LairKey.
func (d *Delayed) Near() map[string]*lair.Land {
	return d.near
}

// Run applies every action queued after key, once. When logged, a summary
// of the lair before and after precedes the individual actions.
func (d *Delayed) Run(key string, logged bool) error {
	actions, ok := d.pending[key]
	if !ok {
		return nil
	}
	delete(d.pending, key)

	r0 := d.near[lair.LairKey]
	before := r0.Describe(d.names)
	sub := d.log.Fork()
	for _, a := range actions {
		if err := d.apply(a); err != nil {
			return err
		}
		text, err := d.actionText(a)
		if err != nil {
			return err
		}
		counts, _ := a.counts()
		pieces := make([]lair.PieceCount, 0, len(lair.AllPieces))
		for _, p := range lair.AllPieces {
			name := d.names.Name(p)
			pieces = append(pieces, lair.PieceCount{Src: name, Tgt: name, Count: counts[p]})
		}
		sub.Add(lair.Entry{
			Kind:    lair.Manual,
			Text:    text,
			SrcLand: d.displayName(a.Source),
			TgtLand: d.displayName(a.Destination),
			Pieces:  pieces,
			CSV:     a.Row(),
		})
	}
	if logged {
		d.log.Commentf("execute delayed actions for %s: (%s) => (%s)", key, before, r0.Describe(d.names))
		d.log.Join(sub)
	}
	return nil
}

func (d *Delayed) apply(a CsvAction) error {
	counts, err := a.counts()
	if err != nil {
		return err
	}
	for _, side := range []struct {
		ref  string
		mult int
	}{{a.Source, -1}, {a.Destination, 1}} {
		if side.ref == "" {
			continue
		}
		key, terrain := splitLandRef(side.ref)
		land, near := d.near[key]
		switch {
		case near && land.Terrain != terrain:
			return &lair.ConfigError{
				Key:     fmt.Sprintf("action %s", a.ID),
				Message: fmt.Sprintf("land %s is %s, not %s", key, land.Terrain.Letter(), terrain.Letter()),
			}
		case !near:
			land = d.distant[key]
			if land == nil {
				land = lair.NewLand(key, "FAKE", terrain, lair.Pieces{})
				d.distant[key] = land
			}
		}
		for _, p := range lair.AllPieces {
			delta := side.mult * counts[p]
			land.Pieces[p] += delta
			if near && land.Pieces[p] < 0 {
				return &lair.ConfigError{
					Key: fmt.Sprintf("action %s", a.ID),
					Message: fmt.Sprintf("action %s (%s) is trying to subtract %d %s from %s, but there are only %d",
						a.ID, a.Name, counts[p], p, land.Key, land.Pieces[p]-delta),
				}
			}
		}
	}
	return nil
}

// actionText joins the action's parent chain, outermost first.
func (d *Delayed) actionText(a CsvAction) (string, error) {
	names := []string{a.Name}
	for seen := 0; a.Parent != ""; seen++ {
		parent, ok := d.byID[a.Parent]
		if !ok || seen > len(d.byID) {
			return "", &lair.ConfigError{
				Key:     fmt.Sprintf("action %s", a.ID),
				Message: fmt.Sprintf("unknown parent action %q", a.Parent),
			}
		}
		a = parent
		names = append(names, a.Name)
	}
	for i, j := 0, len(names)-1; i < j; i, j = i+1, j-1 {
		names[i], names[j] = names[j], names[i]
	}
	return strings.Join(names, " - "), nil
}

func (d *Delayed) displayName(ref string) string {
	if ref == "" {
		return ""
	}
	key, terrain := splitLandRef(ref)
	return d.opts.LandDisplayName(key, terrain)
}

// NextActionID returns the smallest non-negative id no action uses.
func NextActionID(actions []CsvAction) (int, error) {
	used := make(map[int]bool, len(actions))
	for _, a := range actions {
		id, err := strconv.Atoi(a.ID)
		if err != nil {
			return 0, &lair.ConfigError{Key: ActionsFile, Message: fmt.Sprintf("invalid action id %q", a.ID)}
		}
		used[id] = true
	}
	for i := 0; ; i++ {
		if !used[i] {
			return i, nil
		}
	}
}
