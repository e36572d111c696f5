package data

import (
	"fmt"
	"os"

	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/l1jgo/spawnpool/internal/entity"
)

// Template holds static data for a spawnable NPC type loaded from YAML.
type Template struct {
	ID                entity.TemplateID `yaml:"id"`
	Name              string            `yaml:"name"`
	HP                int32             `yaml:"hp"`
	Poolable          bool              `yaml:"poolable"`
	MaxPoolSize       int               `yaml:"max_pool_size"`       // 0 means entity.DefaultMaxPoolSize
	LifetimeTicks     int               `yaml:"lifetime_ticks"`      // 0 lives until killed
	DeleteDelayTicks  int               `yaml:"delete_delay_ticks"`  // corpse time before release
	RespawnDelayTicks int               `yaml:"respawn_delay_ticks"` // 0 never respawns
}

// SpawnEntry defines where and how many NPCs to spawn at boot.
type SpawnEntry struct {
	Template entity.TemplateID `yaml:"template"`
	MapID    int16             `yaml:"map_id"`
	X        int32             `yaml:"x"`
	Y        int32             `yaml:"y"`
	Heading  int16             `yaml:"heading"`
	Count    int               `yaml:"count"`
	Priority *float64          `yaml:"priority"` // nil means no priority
	Retry    bool              `yaml:"retry"`    // retry failed spawns indefinitely
}

// Placement returns the entry's placement for the i-th copy. Copies are laid
// out along the X axis so they never share a tile.
func (e *SpawnEntry) Placement(i int) entity.Placement {
	return entity.Placement{MapID: e.MapID, X: e.X + int32(i), Y: e.Y, Heading: e.Heading}
}

type templateListFile struct {
	Templates []Template `yaml:"templates"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// NormalizeID case-folds a template id so lookups ignore case.
func NormalizeID(id entity.TemplateID) entity.TemplateID {
	return entity.TemplateID(cases.Fold().String(string(id)))
}

// TemplateTable holds all templates indexed by normalized id.
type TemplateTable struct {
	templates map[entity.TemplateID]*Template
}

// LoadTemplateTable loads templates from a YAML file.
func LoadTemplateTable(path string) (*TemplateTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read templates: %w", err)
	}
	t, err := ParseTemplateTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return t, nil
}

func ParseTemplateTable(raw []byte) (*TemplateTable, error) {
	var f templateListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	t := &TemplateTable{templates: make(map[entity.TemplateID]*Template, len(f.Templates))}
	for i := range f.Templates {
		tpl := &f.Templates[i]
		if tpl.ID == "" {
			return nil, fmt.Errorf("template %d: missing id", i)
		}
		tpl.ID = NormalizeID(tpl.ID)
		if _, dup := t.templates[tpl.ID]; dup {
			return nil, fmt.Errorf("template %q: duplicate id", tpl.ID)
		}
		if tpl.MaxPoolSize < 0 {
			return nil, fmt.Errorf("template %q: negative max_pool_size", tpl.ID)
		}
		t.templates[tpl.ID] = tpl
	}
	return t, nil
}

// Get returns a template by id, or nil if not found.
func (t *TemplateTable) Get(id entity.TemplateID) *Template {
	return t.templates[NormalizeID(id)]
}

// Count returns the number of loaded templates.
func (t *TemplateTable) Count() int {
	return len(t.templates)
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	spawns, err := ParseSpawnList(raw)
	if err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	return spawns, nil
}

func ParseSpawnList(raw []byte) ([]SpawnEntry, error) {
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	for i := range f.Spawns {
		s := &f.Spawns[i]
		s.Template = NormalizeID(s.Template)
		if s.Count <= 0 {
			s.Count = 1
		}
	}
	return f.Spawns, nil
}
