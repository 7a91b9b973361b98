package event

import "github.com/l1jgo/reaper/internal/core/ecs"

// --- Death events (emitted by the death resolver, readable next tick) ---

// MobDied is published once per resolved death, player or NPC.
// Killer equals Victim for self-kills and environment kills.
// Subscribers: Lua on_mob_death hook, death journal.
type MobDied struct {
	Victim       ecs.EntityID
	Killer       ecs.EntityID
	VictimName   string
	KillerName   string
	VictimCharID int32 // 0 for NPCs
	KillerCharID int32 // 0 for NPCs
	Category     string
	TemplateID   int32
	MapID        int16
	X, Y         int32
	Tick         uint64
}

// PlayerKilled is published when a player is killed by another player.
// Published in addition to MobDied.
type PlayerKilled struct {
	KillerCharID int32
	VictimCharID int32
	MapID        int16
	X, Y         int32
}

// HardcoreDemoted is published when a hardcore player loses the hardcore tier.
type HardcoreDemoted struct {
	CharID     int32
	Name       string
	TotalLevel int
}

// BossKilled is published after a boss kill count is incremented.
type BossKilled struct {
	KillerCharID int32
	BossID       int32
	Count        int
}

// LootDropped is published for every item placed on the ground by a death.
type LootDropped struct {
	GroundID int32
	ItemID   int32
	Count    int32
	OwnerID  ecs.EntityID
	MapID    int16
	X, Y     int32
}
