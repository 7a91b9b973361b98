package world

import "fmt"

// Category selects the post-death handling an entity receives.
type Category int

const (
	CategoryPlayer Category = iota
	// CategoryStandaloneNPC respawns alone after RespawnTicks, or is removed when 0.
	CategoryStandaloneNPC
	// CategoryGroupBoss is one of four bosses that revive together.
	CategoryGroupBoss
	// CategoryInstancedNPC is owned by a player instance and never respawns.
	CategoryInstancedNPC
	// CategoryZoneNPC is spawned by a minigame zone and never respawns.
	CategoryZoneNPC
	// CategoryBarrowsBrother is a crypt brother, tracked per killer.
	CategoryBarrowsBrother
)

var categoryNames = map[Category]string{
	CategoryPlayer:         "player",
	CategoryStandaloneNPC:  "standalone",
	CategoryGroupBoss:      "group_boss",
	CategoryInstancedNPC:   "instanced",
	CategoryZoneNPC:        "zone",
	CategoryBarrowsBrother: "barrows_brother",
}

// Categories lists every category, in declaration order.
func Categories() []Category {
	return []Category{
		CategoryPlayer,
		CategoryStandaloneNPC,
		CategoryGroupBoss,
		CategoryInstancedNPC,
		CategoryZoneNPC,
		CategoryBarrowsBrother,
	}
}

func (c Category) String() string {
	if s, ok := categoryNames[c]; ok {
		return s
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// IsNPC reports whether the category describes a non-player entity.
func (c Category) IsNPC() bool {
	return c != CategoryPlayer
}

// ParseCategory maps a data-file name back to a Category. An empty name means standalone.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryStandaloneNPC, nil
	}
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown entity category %q", s)
}

const (
	// NpcCyclops and NpcCyclopsAlt are the warriors' guild cyclopes.
	NpcCyclops    int32 = 2465
	NpcCyclopsAlt int32 = 2466
)

// IsCyclops reports whether templateID is a warriors' guild cyclops.
func IsCyclops(templateID int32) bool {
	return templateID == NpcCyclops || templateID == NpcCyclopsAlt
}
