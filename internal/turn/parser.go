// Package turn loads a turn directory into a planner and its delayed
// manual actions.
package turn

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

// Files of a turn directory.
const (
	InitialLairFile = "initial_lair.yaml"
	StartFile       = "start.csv"
	ActionsFile     = "actions.csv"
	InputFile       = "input.yaml"
	WeavesFile      = "weaves.yaml"
)

var startHeader = []string{"Land", "City", "Town", "Explorer", "Dahan"}

// Options control how a turn directory is read.
type Options struct {
	Dir string
	// ServerEmojis renders lands and the lair with chat-server emojis.
	ServerEmojis bool
	// LogPrestart logs the actions that run before the lair's turn.
	LogPrestart bool
}

// Path joins a file name onto the turn directory.
func (o Options) Path(name string) string {
	return filepath.Join(o.Dir, name)
}

// LairName is the lair's key and display name.
func (o Options) LairName() string {
	if o.ServerEmojis {
		return ":IncarnaAspectLair:"
	}
	return "lair"
}

// LandDisplayName renders a land key with its terrain.
func (o Options) LandDisplayName(key string, t board.Terrain) string {
	if o.ServerEmojis && t.IsMapTerrain() {
		return key + ":Land" + t.String() + ":"
	}
	return key + t.Letter()
}

type initialLair struct {
	Explorers int    `yaml:"explorers"`
	Towns     int    `yaml:"towns"`
	Cities    int    `yaml:"cities"`
	Dahan     int    `yaml:"dahan"`
	Land      string `yaml:"land"`
}

type startRow struct {
	key     string
	terrain board.Terrain
	pieces  lair.Pieces
}

// Parser holds a turn directory's files, decoded once. ParseAll builds a
// fresh planner from them on every call, so one Parser may serve
// concurrent searches.
type Parser struct {
	opts  Options
	conf  *lair.Conf
	board *board.Map

	initial initialLair
	start   []startRow
	actions []CsvAction
}

// NewParser reads the turn files in opts.Dir. m must already carry the
// turn's weaves.
func NewParser(opts Options, conf *lair.Conf, m *board.Map) (*Parser, error) {
	p := &Parser{opts: opts, conf: conf, board: m}
	if err := p.readInitialLair(); err != nil {
		return nil, err
	}
	if err := p.readStart(); err != nil {
		return nil, err
	}
	actions, err := ReadActions(opts.Path(ActionsFile))
	if err != nil {
		return nil, err
	}
	p.actions = actions
	return p, nil
}

func (p *Parser) readInitialLair() error {
	path := p.opts.Path(InitialLairFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return &lair.ConfigError{Key: path, Message: err.Error()}
	}
	if err := yaml.Unmarshal(data, &p.initial); err != nil {
		return &lair.ConfigError{Key: path, Message: err.Error()}
	}
	if p.initial.Land == "" {
		return &lair.ConfigError{Key: path, Message: "missing lair land"}
	}
	if _, ok := p.board.Land(p.initial.Land); !ok {
		return &lair.ConfigError{Key: path, Message: fmt.Sprintf("unknown land %q", p.initial.Land)}
	}
	return nil
}

func (p *Parser) readStart() error {
	path := p.opts.Path(StartFile)
	rows, err := readCSV(path, len(startHeader))
	if errors.Is(err, os.ErrNotExist) {
		return &lair.ConfigError{Key: path, Message: "missing start data"}
	}
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(rows))
	for i, row := range rows {
		key := row[0]
		ml, ok := p.board.Land(key)
		if !ok {
			return &lair.ConfigError{Key: path, Message: fmt.Sprintf("row %d: unknown land %q", i+2, key)}
		}
		if seen[key] {
			return &lair.ConfigError{Key: path, Message: fmt.Sprintf("row %d: duplicate land %q", i+2, key)}
		}
		seen[key] = true

		var pieces lair.Pieces
		for j, piece := range []lair.PieceType{lair.City, lair.Town, lair.Explorer, lair.Dahan} {
			n, err := toInt(row[j+1])
			if err != nil || n < 0 {
				return &lair.ConfigError{Key: path, Message: fmt.Sprintf("row %d: invalid %s count %q", i+2, piece, row[j+1])}
			}
			pieces[piece] = n
		}
		p.start = append(p.start, startRow{key: key, terrain: ml.Terrain, pieces: pieces})
	}
	return nil
}

// ReadActions reads an actions.csv file. A missing file holds no actions.
func ReadActions(path string) ([]CsvAction, error) {
	rows, err := readCSV(path, len(ActionsHeader))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	actions := make([]CsvAction, 0, len(rows))
	for i, row := range rows {
		a, err := ParseCsvAction(row)
		if err != nil {
			return nil, &lair.ConfigError{Key: path, Message: fmt.Sprintf("row %d: %v", i+2, err)}
		}
		actions = append(actions, a)
	}
	return actions, nil
}

// readCSV returns every row after the header.
func readCSV(path string, columns int) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = columns
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	return rows, nil
}

// Actions returns the manual actions of the turn.
func (p *Parser) Actions() []CsvAction {
	return p.actions
}

// LairSource returns the map land the lair stands on.
func (p *Parser) LairSource() string {
	return p.initial.Land
}

// Conf returns the planner configuration shared by every parse.
func (p *Parser) Conf() *lair.Conf {
	return p.conf
}

// Board returns the weaved map.
func (p *Parser) Board() *board.Map {
	return p.board
}

// InitialLair returns a fresh lair land holding its starting garrison.
func (p *Parser) InitialLair() *lair.Land {
	name := p.opts.LairName()
	return lair.NewLand(name, name, board.Lair, lair.Pieces{
		lair.Explorer: p.initial.Explorers,
		lair.Town:     p.initial.Towns,
		lair.City:     p.initial.Cities,
		lair.Dahan:    p.initial.Dahan,
	})
}

// ParseAll builds a planner and its delayed actions from fresh lands.
// Actions with an empty After Toplevel have already run.
func (p *Parser) ParseAll() (*lair.Planner, *Delayed, error) {
	r0 := p.InitialLair()
	lands := make([]*lair.Land, 0, len(p.start))
	near := map[string]*lair.Land{lair.LairKey: r0}
	for _, row := range p.start {
		l := lair.NewLand(row.key, p.opts.LandDisplayName(row.key, row.terrain), row.terrain, row.pieces)
		lands = append(lands, l)
		near[row.key] = l
	}

	actionLog := lair.NewLog()
	delayed := newDelayed(near, p.conf.PieceNames, p.opts, actionLog)
	for _, a := range p.actions {
		if err := delayed.Push(a); err != nil {
			return nil, nil, err
		}
	}
	if err := delayed.Run(AfterPrestart, p.opts.LogPrestart); err != nil {
		return nil, nil, err
	}

	planner, err := lair.New(r0, lands, p.initial.Land, p.conf, actionLog, p.board)
	if err != nil {
		return nil, nil, err
	}
	return planner, delayed, nil
}

// LoadBoard reads the map file and applies the turn's weaves.
func LoadBoard(mapPath string, opts Options) (*board.Map, error) {
	m, err := board.Load(mapPath)
	if err != nil {
		return nil, &lair.ConfigError{Key: mapPath, Message: err.Error()}
	}
	weaves, err := ReadWeaves(opts.Path(WeavesFile))
	if err != nil {
		return nil, err
	}
	if err := ApplyWeaves(m, weaves); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadWeaves reads a list of "A,B" land pairs. A missing file holds none.
func ReadWeaves(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	var weaves []string
	if err := yaml.Unmarshal(data, &weaves); err != nil {
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	return weaves, nil
}

// ApplyWeaves links each pair at distance 0. Pairs naming lands that are
// not on the map are skipped.
func ApplyWeaves(m *board.Map, weaves []string) error {
	for _, w := range weaves {
		a, b, ok := strings.Cut(w, ",")
		if !ok {
			return &lair.ConfigError{Key: WeavesFile, Message: fmt.Sprintf("malformed weave %q", w)}
		}
		err := m.Weave(strings.TrimSpace(a), strings.TrimSpace(b))
		var unknown *board.UnknownLandError
		switch {
		case errors.As(err, &unknown):
			log.Warn().Str("weave", w).Str("land", unknown.Key).Msg("skipping weave with unknown land")
		case err != nil:
			return &lair.ConfigError{Key: WeavesFile, Message: err.Error()}
		}
	}
	return nil
}

// Missing lists the lands within maxRange of the lair that the start data
// does not cover, nearest first.
func (p *Parser) Missing(maxRange int) ([]string, error) {
	conf := *p.conf
	conf.AllowMissingR1 = true
	q := *p
	q.conf = &conf

	planner, delayed, err := q.ParseAll()
	if err != nil {
		return nil, err
	}
	dist := planner.State().Dist
	var missing []string
	for key, d := range dist {
		if d == 0 || d > maxRange {
			continue
		}
		if _, ok := delayed.Near()[key]; ok {
			continue
		}
		missing = append(missing, key)
	}
	sortByDist(missing, dist)
	return missing, nil
}

func sortByDist(keys []string, dist map[string]int) {
	sort.Slice(keys, func(i, j int) bool {
		if dist[keys[i]] != dist[keys[j]] {
			return dist[keys[i]] < dist[keys[j]]
		}
		return keys[i] < keys[j]
	})
}
