package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/reaper/internal/world"
	"gopkg.in/yaml.v3"
)

// NpcTemplate holds static data for an NPC type loaded from YAML.
type NpcTemplate struct {
	NpcID        int32  `yaml:"npc_id"`
	Name         string `yaml:"name"`
	Category     string `yaml:"category"` // standalone, group_boss, instanced, zone, barrows_brother
	HP           int32  `yaml:"hp"`
	RespawnTicks int    `yaml:"respawn_ticks"` // 0 = removed on death
	Boss         bool   `yaml:"boss"`          // counts toward boss kill statistics
	Zone         string `yaml:"zone,omitempty"`

	category world.Category
}

// EntityCategory returns the parsed category.
func (t *NpcTemplate) EntityCategory() world.Category { return t.category }

// SpawnEntry defines where and how many NPCs to spawn.
type SpawnEntry struct {
	NpcID   int32 `yaml:"npc_id"`
	MapID   int16 `yaml:"map_id"`
	X       int32 `yaml:"x"`
	Y       int32 `yaml:"y"`
	Count   int   `yaml:"count"`
	Heading int16 `yaml:"heading"`
}

type npcListFile struct {
	Npcs []NpcTemplate `yaml:"npcs"`
}

type spawnListFile struct {
	Spawns []SpawnEntry `yaml:"spawns"`
}

// NpcTable holds all NPC templates indexed by NpcID.
type NpcTable struct {
	templates map[int32]*NpcTemplate
}

// LoadNpcTable loads NPC templates from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc_list: %w", err)
	}
	return ParseNpcTable(raw)
}

// ParseNpcTable parses npc_list YAML.
func ParseNpcTable(raw []byte) (*NpcTable, error) {
	var f npcListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc_list: %w", err)
	}
	t := &NpcTable{templates: make(map[int32]*NpcTemplate, len(f.Npcs))}
	for i := range f.Npcs {
		npc := &f.Npcs[i]
		c, err := world.ParseCategory(npc.Category)
		if err != nil {
			return nil, fmt.Errorf("npc %d: %w", npc.NpcID, err)
		}
		if c == world.CategoryPlayer {
			return nil, fmt.Errorf("npc %d: category %q is reserved for players", npc.NpcID, npc.Category)
		}
		npc.category = c
		t.templates[npc.NpcID] = npc
	}
	return t, nil
}

// Get returns an NPC template by ID, or nil if not found.
func (t *NpcTable) Get(npcID int32) *NpcTemplate {
	return t.templates[npcID]
}

// IsBoss reports whether kills of npcID count toward boss statistics.
func (t *NpcTable) IsBoss(npcID int32) bool {
	tmpl := t.templates[npcID]
	return tmpl != nil && tmpl.Boss
}

// Count returns the number of loaded templates.
func (t *NpcTable) Count() int {
	return len(t.templates)
}

// LoadSpawnList loads spawn entries from a YAML file.
func LoadSpawnList(path string) ([]SpawnEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spawn_list: %w", err)
	}
	var f spawnListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse spawn_list: %w", err)
	}
	return f.Spawns, nil
}
