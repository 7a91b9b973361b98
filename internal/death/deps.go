package death

import (
	"github.com/l1jgo/reaper/internal/config"
	"github.com/l1jgo/reaper/internal/core/ecs"
	"github.com/l1jgo/reaper/internal/core/event"
	"github.com/l1jgo/reaper/internal/core/tick"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// Scheduler is the deferred-task queue the resolver submits respawns to.
type Scheduler interface {
	Submit(task tick.Task, delayTicks int) *tick.Handle
	Cancel(h *tick.Handle)
	Tick() uint64
}

// Registry is the world's entity registry.
type Registry interface {
	Contains(id ecs.EntityID) bool
	Get(id ecs.EntityID) *world.Entity
	Unregister(e *world.Entity) bool
	GroupPool(name string) *world.GroupRespawnPool
}

// HookPublisher receives one event per resolved death. Publishing never fails
// from the resolver's point of view.
type HookPublisher interface {
	PublishDeath(ev event.MobDied)
}

type LootService interface {
	DropLoot(victim, recipient *world.Entity) error
}

type StatisticsService interface {
	IncreaseBossKillCount(player *world.Entity, bossID int32, amount int) (int, error)
}

type PermissionService interface {
	Is(e *world.Entity, perm world.Permission) bool
	Give(e *world.Entity, perm world.Permission) error
	Remove(e *world.Entity, perm world.Permission) error
}

type SlayerService interface {
	TaskMatches(player *world.Entity, npcName string) bool
	OnTaskKill(player, npc *world.Entity) error
}

type DeadmanService interface {
	OnPlayerKill(killer, victim *world.Entity) error
}

// ZoneDirectory resolves minigame boundaries and their death handlers.
type ZoneDirectory interface {
	BoundaryAt(loc world.Location) (string, bool)
	HandlePlayerDeath(zone string, player *world.Entity) error
	HandleNpcDeath(npc *world.Entity) error
}

type Messenger interface {
	SendMessage(e *world.Entity, text string)
	Broadcast(text string)
	Sprintf(format string, args ...any) string
}

type ContentManager interface {
	OnDeath(player *world.Entity)
}

// RespawnLocator may move a player's respawn point away from the realm.
type RespawnLocator interface {
	RespawnLocation(mapID int16) (world.Location, bool)
}

type WarriorsGuild interface {
	ReleaseArmour(player, npc *world.Entity) bool
	KilledCyclops(player *world.Entity, at world.Location) error
}

type BarrowsTracker interface {
	OnBrotherKilled(player, brother *world.Entity) error
}

// Deps holds every collaborator the resolver talks to. Content, Respawn,
// Zones, Deadman, Guild and Barrows are optional.
type Deps struct {
	Config *config.Config
	Log    *zap.Logger

	Scheduler Scheduler
	World     Registry
	Hooks     HookPublisher

	Loot     LootService
	Stats    StatisticsService
	Perms    PermissionService
	Slayer   SlayerService
	Messages Messenger

	Content ContentManager
	Respawn RespawnLocator
	Zones   ZoneDirectory
	Deadman DeadmanService
	Guild   WarriorsGuild
	Barrows BarrowsTracker
}

// BusHooks publishes death events on the event bus.
type BusHooks struct {
	Bus *event.Bus
}

func (h BusHooks) PublishDeath(ev event.MobDied) {
	event.Emit(h.Bus, ev)
}
