package death

import (
	"errors"
	"fmt"

	"github.com/l1jgo/reaper/internal/core/event"
	"github.com/l1jgo/reaper/internal/world"
)

type dropCall struct {
	victim, recipient *world.Entity
}

type fakeLoot struct {
	calls []dropCall
	err   error
}

func (f *fakeLoot) DropLoot(victim, recipient *world.Entity) error {
	f.calls = append(f.calls, dropCall{victim, recipient})
	return f.err
}

type bossKill struct {
	player *world.Entity
	bossID int32
	amount int
}

type fakeStats struct {
	calls  []bossKill
	counts map[int32]int
}

func (f *fakeStats) IncreaseBossKillCount(player *world.Entity, bossID int32, amount int) (int, error) {
	f.calls = append(f.calls, bossKill{player, bossID, amount})
	if f.counts == nil {
		f.counts = make(map[int32]int)
	}
	f.counts[bossID] += amount
	return f.counts[bossID], nil
}

type fakePerms struct{}

func (fakePerms) Is(e *world.Entity, perm world.Permission) bool {
	return e.Player != nil && e.Player.Permissions[perm]
}

func (fakePerms) Give(e *world.Entity, perm world.Permission) error {
	e.Player.Permissions[perm] = true
	return nil
}

func (fakePerms) Remove(e *world.Entity, perm world.Permission) error {
	delete(e.Player.Permissions, perm)
	return nil
}

type fakeSlayer struct {
	task  string
	kills []*world.Entity
}

func (f *fakeSlayer) TaskMatches(player *world.Entity, npcName string) bool {
	return f.task != "" && f.task == npcName
}

func (f *fakeSlayer) OnTaskKill(player, npc *world.Entity) error {
	f.kills = append(f.kills, npc)
	return nil
}

type fakeDeadman struct {
	kills int
}

func (f *fakeDeadman) OnPlayerKill(killer, victim *world.Entity) error {
	f.kills++
	return nil
}

type fakeMessenger struct {
	broadcasts []string
}

func (f *fakeMessenger) SendMessage(e *world.Entity, text string) {
	if e.Player != nil {
		e.Player.Inbox = append(e.Player.Inbox, text)
	}
}

func (f *fakeMessenger) Broadcast(text string) { f.broadcasts = append(f.broadcasts, text) }

func (f *fakeMessenger) Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

type fakeContent struct {
	deaths int
	panics bool
}

func (f *fakeContent) OnDeath(player *world.Entity) {
	f.deaths++
	if f.panics {
		panic("content hook exploded")
	}
}

type fakeZones struct {
	name          string
	min, max      world.Location
	playerDeaths  []*world.Entity
	npcDeaths     []*world.Entity
	playerHandler func(*world.Entity)
}

func (f *fakeZones) BoundaryAt(loc world.Location) (string, bool) {
	if f.name != "" && loc.Within(f.min, f.max) {
		return f.name, true
	}
	return "", false
}

func (f *fakeZones) HandlePlayerDeath(zone string, player *world.Entity) error {
	f.playerDeaths = append(f.playerDeaths, player)
	if f.playerHandler != nil {
		f.playerHandler(player)
	}
	return nil
}

func (f *fakeZones) HandleNpcDeath(npc *world.Entity) error {
	f.npcDeaths = append(f.npcDeaths, npc)
	return nil
}

type fakeGuild struct {
	released int
	cyclopes []world.Location
}

func (f *fakeGuild) ReleaseArmour(player, npc *world.Entity) bool {
	if player.Player.GuildArmour == npc.ID {
		player.Player.GuildArmour = 0
		f.released++
		return true
	}
	return false
}

func (f *fakeGuild) KilledCyclops(player *world.Entity, at world.Location) error {
	f.cyclopes = append(f.cyclopes, at)
	return nil
}

type fakeBarrows struct {
	killers []*world.Entity
}

func (f *fakeBarrows) OnBrotherKilled(player, brother *world.Entity) error {
	f.killers = append(f.killers, player)
	return nil
}

type fakeLocator struct {
	byMap map[int16]world.Location
}

func (f fakeLocator) RespawnLocation(mapID int16) (world.Location, bool) {
	loc, ok := f.byMap[mapID]
	return loc, ok
}

type fakeHooks struct {
	events []event.MobDied
}

func (f *fakeHooks) PublishDeath(ev event.MobDied) { f.events = append(f.events, ev) }

type destroyer struct{ calls int }

func (d *destroyer) DestroySelf() { d.calls++ }

// countingRegistry counts Unregister calls that actually removed something.
type countingRegistry struct {
	*world.State
	removed map[*world.Entity]int
}

func (c *countingRegistry) Unregister(e *world.Entity) bool {
	ok := c.State.Unregister(e)
	if ok {
		c.removed[e]++
	}
	return ok
}

var errLootDown = errors.New("loot service down")

// brokenMessenger panics on every delivery.
type brokenMessenger struct{ *fakeMessenger }

func (brokenMessenger) SendMessage(*world.Entity, string) { panic("chat down") }
func (brokenMessenger) Broadcast(string)                  { panic("chat down") }

type brokenSlayer struct{ fakeSlayer }

func (*brokenSlayer) TaskMatches(*world.Entity, string) bool { panic("slayer down") }

type brokenPerms struct{ fakePerms }

func (brokenPerms) Is(*world.Entity, world.Permission) bool { panic("permissions down") }

type brokenZones struct{ fakeZones }

func (*brokenZones) BoundaryAt(world.Location) (string, bool) { panic("zones down") }

type brokenLocator struct{}

func (brokenLocator) RespawnLocation(int16) (world.Location, bool) { panic("script error") }
