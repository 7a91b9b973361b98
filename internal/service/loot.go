package service

import (
	"math/rand"

	"github.com/l1jgo/reaper/internal/config"
	"github.com/l1jgo/reaper/internal/core/ecs"
	"github.com/l1jgo/reaper/internal/core/event"
	"github.com/l1jgo/reaper/internal/core/tick"
	"github.com/l1jgo/reaper/internal/data"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// ItemBones is dropped by every death regardless of the drop table.
const ItemBones int32 = 526

// TaskSubmitter schedules deferred work on the world tick.
type TaskSubmitter interface {
	Submit(task tick.Task, delayTicks int) *tick.Handle
}

// Loot places death drops on the ground.
type Loot struct {
	state  *world.State
	drops  *data.DropTable
	sched  TaskSubmitter
	bus    *event.Bus
	rate   float64
	public int // ticks before loot is visible to everyone
	ttl    int // ticks before loot disappears
	roll   func(n int) int
	log    *zap.Logger
}

func NewLoot(state *world.State, drops *data.DropTable, sched TaskSubmitter, bus *event.Bus, cfg *config.Config, log *zap.Logger) *Loot {
	return &Loot{
		state:  state,
		drops:  drops,
		sched:  sched,
		bus:    bus,
		rate:   cfg.Rates.DropRate,
		public: cfg.Death.PublicLootTicks,
		ttl:    cfg.Death.GroundItemTTLTicks,
		roll:   rand.Intn,
		log:    log,
	}
}

// DropLoot drops victim's loot at its feet for recipient. When recipient is
// the victim itself (self or environment kill) an NPC's loot is public at once
// and a player's loot stays private to the player.
func (l *Loot) DropLoot(victim, recipient *world.Entity) error {
	if victim == nil {
		return nil
	}
	owner := ecs.EntityID(0)
	if recipient != nil && recipient.IsPlayer() {
		owner = recipient.ID
	}
	at := victim.Location

	l.place(ItemBones, 1, at, owner)
	if victim.IsPlayer() {
		return nil
	}

	for _, drop := range l.drops.Get(victim.TemplateID) {
		// Apply drop rate multiplier to chance
		chance := drop.Chance
		if l.rate > 0 {
			chance = int(float64(chance) * l.rate)
		}
		if chance > data.DropChanceScale {
			chance = data.DropChanceScale
		}
		if l.roll(data.DropChanceScale) >= chance {
			continue
		}

		qty := drop.Min
		if drop.Max > drop.Min {
			qty = drop.Min + l.roll(drop.Max-drop.Min+1)
		}
		if qty <= 0 {
			qty = 1
		}
		l.place(drop.ItemID, int32(qty), at, owner)
	}
	return nil
}

func (l *Loot) place(itemID, count int32, at world.Location, owner ecs.EntityID) {
	g := &world.GroundItem{
		ItemID:   itemID,
		Count:    count,
		Location: at,
		Owner:    owner,
	}
	l.state.AddGroundItem(g)
	if l.bus != nil {
		event.Emit(l.bus, event.LootDropped{
			GroundID: g.ID,
			ItemID:   itemID,
			Count:    count,
			OwnerID:  owner,
			MapID:    at.MapID,
			X:        at.X,
			Y:        at.Y,
		})
	}

	first := l.ttl
	if owner != 0 && l.public > 0 && l.public < l.ttl {
		first = l.public
	}
	l.sched.Submit(&groundExpiryTask{state: l.state, id: g.ID, expireIn: l.ttl - first}, first)
}

// groundExpiryTask first turns private loot public, then removes it.
type groundExpiryTask struct {
	state    *world.State
	id       int32
	expireIn int // ticks left after the first run; 0 = remove on first run
}

func (t *groundExpiryTask) TaskName() string { return "ground_item_expiry" }

func (t *groundExpiryTask) Execute(h *tick.Handle) {
	g := t.state.GetGroundItem(t.id)
	if g == nil {
		h.Stop() // picked up
		return
	}
	if t.expireIn > 0 {
		g.Owner = 0
		h.SetDelay(t.expireIn)
		t.expireIn = 0
		return
	}
	t.state.RemoveGroundItem(t.id)
	h.Stop()
}
