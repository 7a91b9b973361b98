package death

import (
	"fmt"

	"github.com/l1jgo/reaper/internal/config"
	"github.com/l1jgo/reaper/internal/core/ecs"
	"github.com/l1jgo/reaper/internal/core/event"
	"github.com/l1jgo/reaper/internal/core/tick"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// Outcome is the result of category dispatch. It decides whether kill credit
// and the generic teleport step still run.
type Outcome int

const (
	// OutcomeRelocate sends the entity to the computed teleport target.
	OutcomeRelocate Outcome = iota
	// OutcomeNoRelocation means the category moved, parked or removed the entity itself.
	OutcomeNoRelocation
	// OutcomeDeferredRespawn means the entity is parked until a scheduled respawn.
	OutcomeDeferredRespawn
	// OutcomeTerminal ends resolution after dispatch (hardcore demotion, minigame delegate).
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRelocate:
		return "relocate"
	case OutcomeNoRelocation:
		return "no_relocation"
	case OutcomeDeferredRespawn:
		return "deferred_respawn"
	case OutcomeTerminal:
		return "terminal"
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// episode is the working state of one resolution.
type episode struct {
	victim   *world.Entity
	killer   *world.Entity
	teleport world.Location
}

type categoryHandler func(r *Resolver, ep *episode) Outcome

// Resolver turns a dead entity into loot, credit and a fresh life.
// Game loop only.
type Resolver struct {
	deps     Deps
	log      *zap.Logger
	realm    world.Location
	handlers map[world.Category]categoryHandler
	respawns map[ecs.EntityID]*tick.Handle
}

func New(deps Deps) *Resolver {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	realm := deps.Config.Death.RespawnRealm
	return &Resolver{
		deps:     deps,
		log:      deps.Log,
		realm:    world.NewLocation(realm.X, realm.Y, realm.MapID),
		handlers: dispatchTable(),
		respawns: make(map[ecs.EntityID]*tick.Handle),
	}
}

// Realm returns the default teleport target.
func (r *Resolver) Realm() world.Location { return r.realm }

// Resolve runs the death of victim. It is a no-op unless the victim is flagged
// dead and still registered, so a repeated call for the same death does nothing.
func (r *Resolver) Resolve(victim *world.Entity) {
	if victim == nil || victim.Combat == nil || !victim.Combat.Dead {
		return
	}
	if victim.Attrs.Has(world.AttrIsPortal) {
		return
	}
	if !r.deps.World.Contains(victim.ID) {
		r.log.Debug("死亡已處理，略過", zap.String("entity", victim.Name), zap.Stringer("id", victim.ID))
		return
	}

	// 無論哪個分支提前結束，都必須重置本次生命狀態
	defer r.resetEpisode(victim)

	ep := &episode{victim: victim}
	ep.killer = r.attributeKiller(victim)
	r.publish(ep)
	if victim.IsPlayer() {
		r.playerPreLoot(ep)
	}
	r.resolveLoot(ep)
	ep.teleport = r.teleportTarget(victim)

	outcome := r.dispatch(ep)
	r.log.Debug("死亡處理",
		zap.String("victim", victim.Name),
		zap.String("killer", ep.killer.Name),
		zap.String("category", victim.Category.String()),
		zap.String("outcome", outcome.String()),
	)
	if outcome == OutcomeTerminal {
		return
	}
	r.creditKill(ep)
	if outcome == OutcomeRelocate {
		r.finalize(ep)
	}
}

// CancelPendingRespawn cancels e's scheduled respawn and reports whether one was pending.
func (r *Resolver) CancelPendingRespawn(e *world.Entity) bool {
	h, ok := r.respawns[e.ID]
	if !ok {
		return false
	}
	delete(r.respawns, e.ID)
	r.deps.Scheduler.Cancel(h)
	return true
}

// PendingRespawns returns how many standalone respawns are scheduled.
func (r *Resolver) PendingRespawns() int { return len(r.respawns) }

// ==================== Steps ====================

// attributeKiller returns the top damage dealer, or the victim when nobody
// (still registered) hurt it.
func (r *Resolver) attributeKiller(victim *world.Entity) *world.Entity {
	id, ok := victim.Combat.Damage.HighestDamage()
	if !ok {
		return victim
	}
	var killer *world.Entity
	r.contain("registry", victim, func() error {
		killer = r.deps.World.Get(id)
		return nil
	})
	if killer == nil {
		return victim
	}
	return killer
}

func (r *Resolver) publish(ep *episode) {
	v, k := ep.victim, ep.killer
	ev := event.MobDied{
		Victim:     v.ID,
		Killer:     k.ID,
		VictimName: v.Name,
		KillerName: k.Name,
		Category:   v.Category.String(),
		TemplateID: v.TemplateID,
		MapID:      v.Location.MapID,
		X:          v.Location.X,
		Y:          v.Location.Y,
	}
	r.contain("scheduler", v, func() error {
		ev.Tick = r.deps.Scheduler.Tick()
		return nil
	})
	if v.Player != nil {
		ev.VictimCharID = v.Player.CharID
	}
	if k.Player != nil {
		ev.KillerCharID = k.Player.CharID
	}
	r.contain("publish", v, func() error {
		r.deps.Hooks.PublishDeath(ev)
		return nil
	})
}

func (r *Resolver) playerPreLoot(ep *episode) {
	p := ep.victim
	if p.Combat.Prayer(world.PrayerProtectItem) {
		p.Player.Settings.ProtectItem = true
	}
	p.FlagAppearance()
	p.Combat.ResetBonuses()
	if r.deps.Content != nil {
		r.contain("content", p, func() error {
			r.deps.Content.OnDeath(p)
			return nil
		})
	}

	r.send(p, "Oh dear, you are dead!")
	if ep.killer != p && ep.killer.IsPlayer() {
		r.send(ep.killer, "You killed "+p.Name+".")
	}
}

func (r *Resolver) resolveLoot(ep *episode) {
	v, k := ep.victim, ep.killer
	switch {
	case k != v && k.IsPlayer() && v.IsNPC():
		if r.deps.Guild != nil {
			r.contain("warriors_guild", v, func() error {
				r.deps.Guild.ReleaseArmour(k, v)
				return nil
			})
		}
		r.contain("loot", v, func() error { return r.deps.Loot.DropLoot(v, k) })

	case k != v && k.IsPlayer() && v.IsPlayer():
		if r.hasPermission(k, world.PermAdministrator) {
			break
		}
		r.contain("loot", v, func() error { return r.deps.Loot.DropLoot(v, k) })
		if r.deps.Deadman != nil && r.deps.Config.Server.WorldType == config.WorldDeadman {
			r.contain("deadman", v, func() error { return r.deps.Deadman.OnPlayerKill(k, v) })
		}

	default:
		if v.Player != nil && v.Player.LootDeferred() {
			break
		}
		r.contain("loot", v, func() error { return r.deps.Loot.DropLoot(v, v) })
	}

	if v.IsPlayer() {
		r.releaseCombatTag(v)
	}
}

// releaseCombatTag frees the victim's last attacker if that attacker is still
// tagged on the victim.
func (r *Resolver) releaseCombatTag(victim *world.Entity) {
	last := victim.Combat.LastHitBy
	if last.IsZero() {
		return
	}
	var attacker *world.Entity
	r.contain("registry", victim, func() error {
		attacker = r.deps.World.Get(last)
		return nil
	})
	if attacker == nil || attacker.Combat == nil {
		return
	}
	if attacker.Combat.LastHitBy == victim.ID {
		attacker.Combat.ClearTag()
	}
}

func (r *Resolver) teleportTarget(victim *world.Entity) world.Location {
	target := r.realm
	if victim.IsPlayer() && r.deps.Respawn != nil {
		r.contain("respawn_locator", victim, func() error {
			if loc, ok := r.deps.Respawn.RespawnLocation(victim.Location.MapID); ok {
				target = loc
			}
			return nil
		})
	}
	return target
}

func (r *Resolver) dispatch(ep *episode) Outcome {
	v, k := ep.victim, ep.killer
	if v.IsNPC() && (k.IsPlayer() && world.IsCyclops(v.TemplateID)) && r.deps.Guild != nil {
		r.contain("warriors_guild", v, func() error { return r.deps.Guild.KilledCyclops(k, v.Location) })
	}

	h, ok := r.handlers[v.Category]
	if !ok {
		r.log.Error("未知的實體類別，改用一般處理", zap.String("entity", v.Name), zap.Int("category", int(v.Category)))
		return OutcomeRelocate
	}
	return h(r, ep)
}

func (r *Resolver) creditKill(ep *episode) {
	v, k := ep.victim, ep.killer
	if k == v || !k.IsPlayer() || !v.IsNPC() {
		return
	}
	matches := false
	r.contain("slayer", v, func() error {
		matches = r.deps.Slayer.TaskMatches(k, v.Name)
		return nil
	})
	if matches {
		r.contain("slayer", v, func() error { return r.deps.Slayer.OnTaskKill(k, v) })
	}
	if v.Npc != nil && v.Npc.Boss {
		r.contain("boss_kill", v, func() error {
			count, err := r.deps.Stats.IncreaseBossKillCount(k, v.TemplateID, 1)
			if err != nil {
				return err
			}
			r.deps.Messages.SendMessage(k, r.deps.Messages.Sprintf("Your %s kill count is: %d.", v.Name, count))
			return nil
		})
	}
}

func (r *Resolver) finalize(ep *episode) {
	v := ep.victim
	v.SetTeleportTarget(ep.teleport)
	if !v.IsNPC() {
		v.Combat.ResetBonuses()
	}
	if v.Weapon != 0 {
		v.FlagAppearance()
	} else {
		v.SetDefaultAnimations()
	}
}

func (r *Resolver) resetEpisode(e *world.Entity) {
	c := e.Combat
	c.ClearTag()
	c.Dead = false
	c.Damage.Reset()
	c.Restore()
	e.ResetTransient()
	e.Movement.Reset()
	e.ProcessNextMovement()
}

// send delivers a game message; a failing messenger only loses the message.
func (r *Resolver) send(e *world.Entity, text string) {
	r.contain("message", e, func() error {
		r.deps.Messages.SendMessage(e, text)
		return nil
	})
}

// hasPermission reports false when the permission service fails.
func (r *Resolver) hasPermission(e *world.Entity, perm world.Permission) bool {
	has := false
	r.contain("permission", e, func() error {
		has = r.deps.Perms.Is(e, perm)
		return nil
	})
	return has
}

// contain runs one collaborator call. A returned error or a panic is logged
// and resolution carries on with the next step.
func (r *Resolver) contain(step string, victim *world.Entity, fn func() error) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("死亡處理步驟崩潰",
				zap.String("step", step),
				zap.String("entity", victim.Name),
				zap.Any("panic", rec),
			)
		}
	}()
	if err := fn(); err != nil {
		r.log.Warn("死亡處理步驟失敗",
			zap.String("step", step),
			zap.String("entity", victim.Name),
			zap.Error(err),
		)
	}
}
