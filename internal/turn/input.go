package turn

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/talshorer/spirit-island-144p-lair/pkg/board"
	"github.com/talshorer/spirit-island-144p-lair/pkg/lair"
)

//go:embed input.schema.json
var inputSchemaJSON string

const inputSchemaURL = "input.schema.json"

var inputSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(inputSchemaURL, strings.NewReader(inputSchemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(inputSchemaURL)
})

// InnateInput configures one lair innate.
type InnateInput struct {
	ReserveGathers int `yaml:"reserve_gathers"`
	MaxRange       int `yaml:"max_range"`
}

// Input is the per-turn planner configuration file.
type Input struct {
	Actions           []string                  `yaml:"actions"`
	TerrainPriority   string                    `yaml:"terrain_priority"`
	BlueLair          InnateInput               `yaml:"blue_lair"`
	OrangeLair        InnateInput               `yaml:"orange_lair"`
	LeaveBehind       map[string]map[string]int `yaml:"leave_behind"`
	IgnoreLands       []string                  `yaml:"ignore_lands"`
	PriorityLands     []string                  `yaml:"priority_lands"`
	RecklessOffensive []string                  `yaml:"reckless_offensive"`
	SlurpOrder        string                    `yaml:"slurp_order"`
	Score             []string                  `yaml:"score"`
}

// LoadInput reads and validates an input file. JSON is accepted as well
// as YAML.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	in, err := ParseInput(data)
	if err != nil {
		return nil, &lair.ConfigError{Key: path, Message: err.Error()}
	}
	return in, nil
}

// ParseInput validates data against the input schema and decodes it.
func ParseInput(data []byte) (*Input, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("empty input")
	}

	// The schema validator wants JSON-typed values.
	buf, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(buf, &doc); err != nil {
		return nil, err
	}

	schema, err := inputSchema()
	if err != nil {
		return nil, fmt.Errorf("compiling input schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, err
	}

	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	return &in, nil
}

// CheckLands reports the first land reference that is not on the map.
func (in *Input) CheckLands(m *board.Map) error {
	check := func(field string, keys []string) error {
		for _, key := range keys {
			if _, ok := m.Land(key); !ok {
				return &lair.ConfigError{Key: field, Message: fmt.Sprintf("unknown land %q", key)}
			}
		}
		return nil
	}
	if err := check("ignore_lands", in.IgnoreLands); err != nil {
		return err
	}
	if err := check("priority_lands", in.PriorityLands); err != nil {
		return err
	}
	leave := make([]string, 0, len(in.LeaveBehind))
	for key := range in.LeaveBehind {
		leave = append(leave, key)
	}
	sort.Strings(leave)
	return check("leave_behind", leave)
}

// Conf builds the planner configuration.
func (in *Input) Conf(names lair.PieceNames, displayNameRange bool) *lair.Conf {
	order := lair.SlurpOrder(in.SlurpOrder)
	if order == "" {
		order = lair.SlurpByRange
	}
	return &lair.Conf{
		TerrainPriority: in.TerrainPriority,
		Blue: lair.InnateConf{
			ReserveGathers: in.BlueLair.ReserveGathers,
			MaxRange:       in.BlueLair.MaxRange,
		},
		Orange: lair.InnateConf{
			ReserveGathers: in.OrangeLair.ReserveGathers,
			MaxRange:       in.OrangeLair.MaxRange,
		},
		LeaveBehind:       in.LeaveBehind,
		RecklessOffensive: in.RecklessOffensive,
		PieceNames:        names,
		IgnoreLands:       in.IgnoreLands,
		PriorityLands:     in.PriorityLands,
		SlurpOrder:        order,
		DisplayNameRange:  displayNameRange,
	}
}
