package death

import (
	"github.com/l1jgo/reaper/internal/core/tick"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// RespawnTask brings a parked standalone NPC back at its spawn point.
type RespawnTask struct {
	npc   *world.Entity
	world Registry
	done  func(*world.Entity)
}

func (t *RespawnTask) TaskName() string { return "npc_respawn" }

func (t *RespawnTask) Execute(h *tick.Handle) {
	h.Stop()
	if t.done != nil {
		t.done(t.npc)
	}
	if !t.world.Contains(t.npc.ID) {
		return
	}
	revive(t.npc)
}

// GroupRevivalTask revives every member of a boss group at once. Members
// that left the world while queued stay gone.
type GroupRevivalTask struct {
	pool    *world.GroupRespawnPool
	world   Registry
	revived []*world.Entity
	log     *zap.Logger
}

func (t *GroupRevivalTask) TaskName() string { return "group_revival" }

func (t *GroupRevivalTask) Execute(h *tick.Handle) {
	h.Stop()
	t.revived = t.revived[:0]
	for _, npc := range t.pool.Drain() {
		if t.world != nil && !t.world.Contains(npc.ID) {
			t.log.Warn("首領已離開世界，略過復活", zap.String("group", t.pool.Name()), zap.String("npc", npc.Name))
			continue
		}
		npc.ResetInteractingEntity()
		revive(npc)
		t.revived = append(t.revived, npc)
	}
	t.log.Info("首領群組復活", zap.String("group", t.pool.Name()), zap.Int("members", len(t.revived)))
}

// Revived returns the members the task brought back.
func (t *GroupRevivalTask) Revived() []*world.Entity { return t.revived }

func revive(npc *world.Entity) {
	npc.Combat.Restore()
	npc.SetTeleportTarget(npc.SpawnLocation)
	npc.Location = npc.SpawnLocation
	npc.Heading = npc.SpawnHeading
	npc.Active = true
}
