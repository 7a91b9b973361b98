package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/reaper/internal/world"
	"gopkg.in/yaml.v3"
)

// BossGroup is a team of bosses that respawn together.
type BossGroup struct {
	Name    string  `yaml:"name"`
	Members []int32 `yaml:"members"` // NPC template IDs
}

type bossGroupFile struct {
	Groups []BossGroup `yaml:"groups"`
}

// BossGroupTable maps NPC template IDs to their group name.
type BossGroupTable struct {
	byNpc  map[int32]string
	groups []BossGroup
}

// LoadBossGroups loads boss group definitions from a YAML file.
func LoadBossGroups(path string) (*BossGroupTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read boss_groups: %w", err)
	}
	return ParseBossGroups(raw)
}

// ParseBossGroups parses boss_groups YAML. Every group must list exactly
// world.GroupPoolSize members and a member may belong to one group only.
func ParseBossGroups(raw []byte) (*BossGroupTable, error) {
	var f bossGroupFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse boss_groups: %w", err)
	}
	t := &BossGroupTable{byNpc: make(map[int32]string), groups: f.Groups}
	for _, g := range f.Groups {
		if len(g.Members) != world.GroupPoolSize {
			return nil, fmt.Errorf("boss group %q: %d members, want %d", g.Name, len(g.Members), world.GroupPoolSize)
		}
		for _, id := range g.Members {
			if prev, dup := t.byNpc[id]; dup {
				return nil, fmt.Errorf("npc %d in both %q and %q", id, prev, g.Name)
			}
			t.byNpc[id] = g.Name
		}
	}
	return t, nil
}

// GroupOf returns the group name for an NPC template, or "".
func (t *BossGroupTable) GroupOf(npcID int32) string {
	return t.byNpc[npcID]
}

// Count returns the number of groups.
func (t *BossGroupTable) Count() int {
	return len(t.groups)
}
