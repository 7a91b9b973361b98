package world

import (
	"github.com/l1jgo/reaper/internal/core/ecs"
)

// groundIDBase keeps ground object IDs clear of character IDs.
const groundIDBase int32 = 700_000_000

// GroundItem is loot lying on the ground. In memory only; a restart clears the floor.
type GroundItem struct {
	ID       int32 // assigned by State.AddGroundItem
	ItemID   int32 // template ID
	Count    int32
	Location Location
	Owner    ecs.EntityID // only the owner may pick it up until it turns public; 0 = anyone
}

// Public reports whether anyone may pick the item up.
func (g *GroundItem) Public() bool { return g.Owner.IsZero() }
