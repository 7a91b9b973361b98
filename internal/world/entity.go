package world

import (
	"github.com/l1jgo/reaper/internal/core/ecs"
)

// Animations is the stand/walk/run animation set shown by the client.
type Animations struct {
	Stand int
	Walk  int
	Run   int
}

// DefaultAnimations is the unarmed humanoid set.
var DefaultAnimations = Animations{Stand: 808, Walk: 819, Run: 824}

// MovementQueue holds queued walking steps.
type MovementQueue struct {
	Steps   []Location
	Running bool
}

// Reset drops every queued step.
func (q *MovementQueue) Reset() {
	q.Steps = q.Steps[:0]
	q.Running = false
}

// Destroyer is implemented by instance bosses that tear down their own encounter.
type Destroyer interface {
	DestroySelf()
}

// NpcData holds NPC-only runtime state.
type NpcData struct {
	Group         string       // boss-group identity (CategoryGroupBoss only)
	Boss          bool         // tracked for boss kill counts
	InstanceOwner ecs.EntityID // CategoryInstancedNPC only
	Zone          string       // CategoryZoneNPC only
	Destroyer     Destroyer    // optional self-destruct hook for instance bosses
}

// Entity is a player or NPC currently known to the world.
// Accessed only from the game loop goroutine; no locks.
type Entity struct {
	ID         ecs.EntityID
	Name       string
	Category   Category
	TemplateID int32

	Location      Location
	Heading       int16
	SpawnLocation Location
	SpawnHeading  int16
	RespawnTicks  int // 0 = never respawns

	Combat *CombatState
	Weapon int32 // equipped weapon item ID, 0 = none
	Attrs  Attributes

	Player *PlayerData // nil for NPCs
	Npc    *NpcData    // nil for players

	// Pending relocation applied by the next movement step.
	TeleportTarget *Location

	AppearanceDirty bool
	Animations      Animations
	Active          bool // false while parked waiting for a respawn or group revival
	Movement        MovementQueue
	Interacting     ecs.EntityID
}

// NewNpc builds an NPC entity standing at its spawn point.
func NewNpc(name string, category Category, templateID int32, spawn Location, heading int16, maxHP int32) *Entity {
	return &Entity{
		Name:          name,
		Category:      category,
		TemplateID:    templateID,
		Location:      spawn,
		Heading:       heading,
		SpawnLocation: spawn,
		SpawnHeading:  heading,
		Combat:        NewCombatState(maxHP),
		Attrs:         make(Attributes),
		Npc:           &NpcData{},
		Animations:    DefaultAnimations,
		Active:        true,
	}
}

// NewPlayer builds a player entity.
func NewPlayer(charID int32, name string, loc Location, maxHP int32) *Entity {
	return &Entity{
		Name:          name,
		Category:      CategoryPlayer,
		Location:      loc,
		SpawnLocation: loc,
		Combat:        NewCombatState(maxHP),
		Attrs:         make(Attributes),
		Player:        NewPlayerData(charID),
		Animations:    DefaultAnimations,
		Active:        true,
	}
}

func (e *Entity) IsPlayer() bool { return e.Category == CategoryPlayer && e.Player != nil }
func (e *Entity) IsNPC() bool    { return e.Category.IsNPC() }

// SetTeleportTarget queues a relocation for the next movement step.
func (e *Entity) SetTeleportTarget(loc Location) {
	target := loc
	e.TeleportTarget = &target
}

// FlagAppearance asks the client to refresh this entity's appearance.
func (e *Entity) FlagAppearance() { e.AppearanceDirty = true }

// SetDefaultAnimations restores the unarmed animation set.
func (e *Entity) SetDefaultAnimations() { e.Animations = DefaultAnimations }

// ResetInteractingEntity drops the current interaction target.
func (e *Entity) ResetInteractingEntity() { e.Interacting = 0 }

// ResetTransient clears every per-life attribute.
func (e *Entity) ResetTransient() {
	e.Attrs.Clear()
	e.Interacting = 0
}

// ProcessNextMovement applies a pending teleport, or takes one queued step.
func (e *Entity) ProcessNextMovement() {
	if e.TeleportTarget != nil {
		e.Location = *e.TeleportTarget
		e.TeleportTarget = nil
		e.Movement.Reset()
		return
	}
	if len(e.Movement.Steps) == 0 {
		return
	}
	e.Location = e.Movement.Steps[0]
	e.Movement.Steps = e.Movement.Steps[1:]
}
