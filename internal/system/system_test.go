package system

import (
	"errors"
	"fmt"
	"testing"

	"github.com/l1jgo/reaper/internal/core/ecs"
	"github.com/l1jgo/reaper/internal/core/event"
	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/core/tick"
	"github.com/l1jgo/reaper/internal/persist"
	"github.com/l1jgo/reaper/internal/scripting"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap/zaptest"
)

type fakeResolver struct {
	seen    []*world.Entity
	panicOn string
}

func (f *fakeResolver) Resolve(e *world.Entity) {
	f.seen = append(f.seen, e)
	if e.Name == f.panicOn {
		panic("resolver bug")
	}
	e.Combat.Dead = false
}

func TestDeathSystemResolvesEveryDeadEntity(t *testing.T) {
	ws := world.NewState(ecs.NewWorld())
	var dead []*world.Entity
	for _, name := range []string{"a", "bad", "c"} {
		n := world.NewNpc(name, world.CategoryStandaloneNPC, 1, world.Location{}, 0, 5)
		ws.Register(n)
		n.Combat.Dead = true
		dead = append(dead, n)
	}
	alive := world.NewNpc("alive", world.CategoryStandaloneNPC, 1, world.Location{}, 0, 5)
	ws.Register(alive)

	r := &fakeResolver{panicOn: "bad"}
	s := NewDeathSystem(ws, r, zaptest.NewLogger(t))
	s.Update(0)

	if len(r.seen) != 3 {
		t.Fatalf("resolved %d entities, want 3", len(r.seen))
	}
	for _, e := range dead {
		if e.Combat.Dead {
			t.Fatalf("%s still dead", e.Name)
		}
	}
}

func TestSchedulerSystemAdvancesOncePerTick(t *testing.T) {
	sched := tick.NewScheduler(zaptest.NewLogger(t))
	runs := 0
	sched.Submit(tick.Func(func(h *tick.Handle) { runs++ }), 2)
	s := NewSchedulerSystem(sched)
	s.Update(0)
	s.Update(0)
	s.Update(0)
	if runs != 1 || sched.Tick() != 3 {
		t.Fatalf("runs=%d tick=%d", runs, sched.Tick())
	}
}

func TestEventDispatchDeliversNextTick(t *testing.T) {
	bus := event.NewBus(zaptest.NewLogger(t))
	got := 0
	event.Subscribe(bus, func(event.MobDied) { got++ })
	s := NewEventDispatchSystem(bus)

	event.Emit(bus, event.MobDied{})
	if got != 0 {
		t.Fatal("delivered before dispatch")
	}
	s.Update(0)
	s.Update(0)
	if got != 1 {
		t.Fatalf("delivered %d times, want 1", got)
	}
}

func TestCleanupReleasesIDs(t *testing.T) {
	w := ecs.NewWorld()
	ws := world.NewState(w)
	n := world.NewNpc("imp", world.CategoryStandaloneNPC, 1, world.Location{}, 0, 5)
	ws.Register(n)
	ws.Unregister(n)
	if !w.Alive(n.ID) {
		t.Fatal("id released before cleanup")
	}
	s := NewCleanupSystem(ws, zaptest.NewLogger(t))
	s.Update(0)
	if w.Alive(n.ID) {
		t.Fatal("id still alive after cleanup")
	}
	s.Update(0)
	if s.Released() != 1 {
		t.Fatalf("released = %d, want 1", s.Released())
	}
}

type fakeJournal struct {
	records []persist.DeathRecord
	flushes int
	full    bool
}

func (f *fakeJournal) RecordDeath(r persist.DeathRecord) error {
	if f.full {
		return persist.ErrJournalFull
	}
	f.records = append(f.records, r)
	return nil
}

func (f *fakeJournal) RequestFlush() { f.flushes++ }

func TestPersistenceFlushInterval(t *testing.T) {
	j := &fakeJournal{}
	s := NewPersistenceSystem(j, zaptest.NewLogger(t), 3)
	for i := 0; i < 7; i++ {
		s.Update(0)
	}
	if j.flushes != 2 {
		t.Fatalf("flushes = %d, want 2", j.flushes)
	}
}

func TestPersistenceRecordsDeaths(t *testing.T) {
	j := &fakeJournal{}
	s := NewPersistenceSystem(j, zaptest.NewLogger(t), 10)
	s.OnMobDied(event.MobDied{VictimName: "Goblin", TemplateID: 100, KillerCharID: 7, Category: "standalone"})
	s.OnMobDied(event.MobDied{VictimName: "P", VictimCharID: 3, TemplateID: 0})

	if len(j.records) != 2 {
		t.Fatalf("records = %d", len(j.records))
	}
	if j.records[0].VictimNpc != 100 || j.records[0].KillerChar != 7 {
		t.Fatalf("npc record = %+v", j.records[0])
	}
	if j.records[1].VictimChar != 3 || j.records[1].VictimNpc != 0 {
		t.Fatalf("player record = %+v", j.records[1])
	}

	j.full = true
	s.OnMobDied(event.MobDied{VictimName: "lost"})
	if s.Dropped() != 1 {
		t.Fatalf("dropped = %d", s.Dropped())
	}
}

type fakeBroadcaster struct {
	sent []string
}

func (f *fakeBroadcaster) Broadcast(text string) { f.sent = append(f.sent, text) }
func (f *fakeBroadcaster) Sprintf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func TestDeadmanRanking(t *testing.T) {
	ws := world.NewState(ecs.NewWorld())
	kills := map[string]int{"a": 3, "b": 9, "c": 0, "d": 9}
	for i, name := range []string{"a", "b", "c", "d"} {
		p := world.NewPlayer(int32(i+1), name, world.Location{}, 10)
		p.Player.PvPKills = kills[name]
		ws.Register(p)
	}
	b := &fakeBroadcaster{}
	s := NewDeadmanRankingSystem(ws, b)
	s.interval = 2

	s.Update(0)
	if len(s.Top()) != 0 {
		t.Fatal("ranked before interval")
	}
	s.Update(0)
	top := s.Top()
	if len(top) != 3 || top[0].Name != "b" || top[1].Name != "d" || top[2].Name != "a" {
		t.Fatalf("top = %+v", top)
	}
	if s.IsRanked("c") || !s.IsRanked("a") {
		t.Fatal("IsRanked mismatch")
	}
	if len(b.sent) != 1 {
		t.Fatalf("announcements = %v", b.sent)
	}

	// unchanged leader is not re-announced
	s.Update(0)
	s.Update(0)
	if len(b.sent) != 1 {
		t.Fatalf("leader re-announced: %v", b.sent)
	}
}

type fakeEngine struct {
	reloads   int
	reloadErr error
	announce  string
	seen      []scripting.MobDeathContext
}

func (f *fakeEngine) Reload() error {
	f.reloads++
	return f.reloadErr
}

func (f *fakeEngine) OnMobDeath(ctx scripting.MobDeathContext) string {
	f.seen = append(f.seen, ctx)
	return f.announce
}

type fakeChanges struct {
	queue []string
}

func (f *fakeChanges) Changed() string {
	if len(f.queue) == 0 {
		return ""
	}
	name := f.queue[0]
	f.queue = f.queue[1:]
	return name
}

func TestScriptReloadOnChange(t *testing.T) {
	e := &fakeEngine{}
	c := &fakeChanges{queue: []string{"scripts/death/respawn.lua"}}
	s := NewScriptReloadSystem(e, c, zaptest.NewLogger(t))
	if s.Phase() != coresys.PhaseInput {
		t.Fatal("reload must run before the tick's game logic")
	}
	s.Update(0)
	s.Update(0)
	if e.reloads != 1 {
		t.Fatalf("reloads = %d, want 1", e.reloads)
	}

	e.reloadErr = errors.New("syntax error")
	c.queue = []string{"scripts/death/respawn.lua"}
	s.Update(0) // logged, not fatal
	if e.reloads != 2 {
		t.Fatal("reload not attempted")
	}
}

func TestDeathAnnouncer(t *testing.T) {
	e := &fakeEngine{}
	b := &fakeBroadcaster{}
	a := NewDeathAnnouncer(e, b)

	a.OnMobDied(event.MobDied{VictimName: "Man"})
	if len(b.sent) != 0 || len(e.seen) != 1 {
		t.Fatal("empty hook result broadcast")
	}
	e.announce = "Zezima has slain Kree'arra"
	a.OnMobDied(event.MobDied{VictimName: "Kree'arra", KillerName: "Zezima", Category: "group_boss"})
	if len(b.sent) != 1 || b.sent[0] != e.announce {
		t.Fatalf("broadcasts = %v", b.sent)
	}
	if e.seen[1].Category != "group_boss" {
		t.Fatalf("hook ctx = %+v", e.seen[1])
	}
}
