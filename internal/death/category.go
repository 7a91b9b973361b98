package death

import (
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// dispatchTable maps every category to exactly one handler.
func dispatchTable() map[world.Category]categoryHandler {
	return map[world.Category]categoryHandler{
		world.CategoryPlayer:         (*Resolver).handlePlayer,
		world.CategoryStandaloneNPC:  (*Resolver).handleStandalone,
		world.CategoryGroupBoss:      (*Resolver).handleGroupBoss,
		world.CategoryInstancedNPC:   (*Resolver).handleInstanced,
		world.CategoryZoneNPC:        (*Resolver).handleZoneNpc,
		world.CategoryBarrowsBrother: (*Resolver).handleBarrowsBrother,
	}
}

// ==================== Players ====================

func (r *Resolver) handlePlayer(ep *episode) Outcome {
	p := ep.victim
	if r.hasPermission(p, world.PermHardcoreIronman) {
		r.demoteHardcore(p)
		return OutcomeTerminal
	}

	if r.deps.Zones != nil {
		var zone string
		inZone := false
		r.contain("zone_lookup", p, func() error {
			zone, inZone = r.deps.Zones.BoundaryAt(p.Location)
			return nil
		})
		if inZone {
			r.contain("zone:"+zone, p, func() error { return r.deps.Zones.HandlePlayerDeath(zone, p) })
			return OutcomeTerminal
		}
	}

	for _, c := range p.Player.ActiveChallenges() {
		c.Deaths++
		c.Started = false
	}
	return OutcomeRelocate
}

// demoteHardcore drops a hardcore ironman to ironman and wipes the life.
func (r *Resolver) demoteHardcore(p *world.Entity) {
	r.contain("permission", p, func() error { return r.deps.Perms.Remove(p, world.PermHardcoreIronman) })
	r.contain("permission", p, func() error { return r.deps.Perms.Give(p, world.PermIronman) })

	p.ResetInteractingEntity()
	c := p.Combat
	c.Damage.Reset()
	c.ResetPrayers()
	c.ClearVenom()
	c.SetPoison(0, 0)

	pd := p.Player
	pd.ResetStats()
	pd.ClearActions()
	pd.Settings.VenomDamage = 0
	pd.Settings.TeleBlockTimer = 0
	pd.Settings.TeleBlocked = false
	pd.WalkableInterface = 0
	pd.Dirty = true

	p.FlagAppearance()
	p.SetTeleportTarget(r.realm)

	r.contain("broadcast", p, func() error {
		r.deps.Messages.Broadcast(r.deps.Messages.Sprintf(
			"%s has just died on Hardcore Ironman mode with a total level of %d.", p.Name, pd.TotalLevel()))
		return nil
	})
	r.log.Info("硬核鐵人降級", zap.String("player", p.Name), zap.Int("total_level", pd.TotalLevel()))
}

// ==================== NPCs ====================

func (r *Resolver) handleStandalone(ep *episode) Outcome {
	npc := ep.victim
	if npc.RespawnTicks <= 0 {
		r.unregister(npc)
		return OutcomeNoRelocation
	}

	// 移至重生區等待，重生任務負責送回出生點
	npc.SetTeleportTarget(r.realm)
	npc.Active = false
	r.CancelPendingRespawn(npc)
	r.contain("scheduler", npc, func() error {
		h := r.deps.Scheduler.Submit(&RespawnTask{npc: npc, world: r.deps.World, done: r.respawnDone}, npc.RespawnTicks)
		r.respawns[npc.ID] = h
		return nil
	})
	return OutcomeDeferredRespawn
}

func (r *Resolver) respawnDone(npc *world.Entity) {
	delete(r.respawns, npc.ID)
}

func (r *Resolver) handleGroupBoss(ep *episode) Outcome {
	npc := ep.victim
	if npc.Npc == nil || npc.Npc.Group == "" {
		r.log.Error("首領缺少群組，改為單體重生", zap.String("npc", npc.Name))
		return r.handleStandalone(ep)
	}

	npc.Active = false
	var pool *world.GroupRespawnPool
	r.contain("registry", npc, func() error {
		pool = r.deps.World.GroupPool(npc.Npc.Group)
		return nil
	})
	if pool == nil {
		return OutcomeNoRelocation
	}
	full, err := pool.Register(npc)
	if err != nil {
		r.log.Error("首領群組重生池異常，捨棄登記",
			zap.String("group", pool.Name()),
			zap.String("npc", npc.Name),
			zap.Error(err),
		)
		return OutcomeNoRelocation
	}
	if full {
		r.contain("scheduler", npc, func() error {
			r.deps.Scheduler.Submit(&GroupRevivalTask{pool: pool, world: r.deps.World, log: r.log}, r.deps.Config.Death.GroupRevivalTicks)
			return nil
		})
		r.log.Info("首領群組全滅，排程復活",
			zap.String("group", pool.Name()),
			zap.Int("ticks", r.deps.Config.Death.GroupRevivalTicks),
		)
	}
	return OutcomeNoRelocation
}

func (r *Resolver) handleInstanced(ep *episode) Outcome {
	npc := ep.victim
	if npc.Npc != nil {
		r.contain("instance_owner", npc, func() error {
			if owner := r.deps.World.Get(npc.Npc.InstanceOwner); owner != nil && owner.Player != nil {
				owner.Player.RemoveInstanced(npc.ID)
			}
			return nil
		})
		npc.Npc.InstanceOwner = 0
		if d := npc.Npc.Destroyer; d != nil {
			r.contain("destroy_self", npc, func() error {
				d.DestroySelf()
				return nil
			})
		}
	}
	r.unregister(npc)
	return OutcomeNoRelocation
}

func (r *Resolver) handleZoneNpc(ep *episode) Outcome {
	npc := ep.victim
	if r.deps.Zones != nil {
		r.contain("zone_npc", npc, func() error { return r.deps.Zones.HandleNpcDeath(npc) })
	}
	r.unregister(npc)
	return OutcomeNoRelocation
}

func (r *Resolver) handleBarrowsBrother(ep *episode) Outcome {
	npc, k := ep.victim, ep.killer
	if k != npc && k.IsPlayer() && r.deps.Barrows != nil {
		r.contain("barrows", npc, func() error { return r.deps.Barrows.OnBrotherKilled(k, npc) })
	}
	r.unregister(npc)
	return OutcomeNoRelocation
}

func (r *Resolver) unregister(e *world.Entity) {
	r.CancelPendingRespawn(e)
	removed := true
	r.contain("registry", e, func() error {
		removed = r.deps.World.Unregister(e)
		return nil
	})
	if !removed {
		r.log.Warn("實體已不在世界中", zap.String("entity", e.Name))
	}
}
