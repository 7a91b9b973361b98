package world

import (
	"testing"
	"time"

	"github.com/l1jgo/reaper/internal/core/ecs"
)

func TestRegisterUnregister(t *testing.T) {
	s := NewState(nil)
	npc := NewNpc("goblin", CategoryStandaloneNPC, 100, NewLocation(10, 10, 0), 0, 5)
	id := s.Register(npc)
	if id.IsZero() || !s.Contains(id) {
		t.Fatal("registered entity not found")
	}
	if s.Get(id) != npc {
		t.Fatal("Get returned another entity")
	}

	if !s.Unregister(npc) {
		t.Fatal("first Unregister returned false")
	}
	if s.Unregister(npc) {
		t.Fatal("second Unregister returned true")
	}
	if s.Contains(id) {
		t.Fatal("entity still registered")
	}
	if npc.Active {
		t.Fatal("unregistered entity still active")
	}

	// ID is only released at end of tick.
	if !s.ECS().Alive(id) {
		t.Fatal("id released before cleanup")
	}
	s.ECS().FlushDestroyQueue()
	if s.ECS().Alive(id) {
		t.Fatal("id still alive after cleanup")
	}
}

func TestDeadSnapshotAndPlayers(t *testing.T) {
	s := NewState(nil)
	p := NewPlayer(42, "Zezima", NewLocation(0, 0, 0), 10)
	n := NewNpc("cow", CategoryStandaloneNPC, 81, NewLocation(1, 1, 0), 0, 8)
	s.Register(p)
	s.Register(n)

	if killed := n.Combat.ApplyHit(p.ID, 8, time.Now()); !killed {
		t.Fatal("lethal hit not reported")
	}
	dead := s.Dead()
	if len(dead) != 1 || dead[0] != n {
		t.Fatalf("Dead() = %v", dead)
	}
	if s.GetByCharID(42) != p {
		t.Fatal("GetByCharID failed")
	}

	players := 0
	s.EachPlayer(func(*Entity) { players++ })
	if players != 1 {
		t.Fatalf("players = %d, want 1", players)
	}
}

func TestApplyHitRaisesDeathOnce(t *testing.T) {
	c := NewCombatState(10)
	now := time.Now()
	if c.ApplyHit(5, 4, now) {
		t.Fatal("non-lethal hit reported lethal")
	}
	if !c.ApplyHit(6, 9, now) {
		t.Fatal("lethal hit not reported")
	}
	if c.ApplyHit(5, 3, now) {
		t.Fatal("hit on a corpse reported lethal again")
	}
	if c.HP != 0 || !c.Dead {
		t.Fatalf("HP=%d Dead=%v", c.HP, c.Dead)
	}
	if c.LastHitBy != 6 {
		t.Fatalf("LastHitBy = %v, want 6", c.LastHitBy)
	}
	if c.Damage.DamageBy(5) != 4 {
		t.Fatalf("post-death hit was recorded: %d", c.Damage.DamageBy(5))
	}
}

func TestProcessNextMovementAppliesTeleport(t *testing.T) {
	e := NewNpc("imp", CategoryStandaloneNPC, 1, NewLocation(5, 5, 0), 0, 1)
	e.Movement.Steps = append(e.Movement.Steps, NewLocation(6, 5, 0))
	e.SetTeleportTarget(NewLocation(1, 1, 0))

	e.ProcessNextMovement()
	if e.Location != NewLocation(1, 1, 0) {
		t.Fatalf("location = %v", e.Location)
	}
	if e.TeleportTarget != nil || len(e.Movement.Steps) != 0 {
		t.Fatal("teleport did not reset the walking queue")
	}
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(c.String())
		if err != nil || got != c {
			t.Fatalf("ParseCategory(%q) = %v, %v", c.String(), got, err)
		}
	}
	if c, err := ParseCategory(""); err != nil || c != CategoryStandaloneNPC {
		t.Fatalf("empty category = %v, %v", c, err)
	}
	if _, err := ParseCategory("dragon"); err == nil {
		t.Fatal("unknown category accepted")
	}
}

func TestIsCyclops(t *testing.T) {
	if !IsCyclops(NpcCyclops) || !IsCyclops(NpcCyclopsAlt) || IsCyclops(2467) {
		t.Fatal("IsCyclops mismatch")
	}
}

func TestGroundItemIDsAreAssigned(t *testing.T) {
	s := NewState(nil)
	a := s.AddGroundItem(&GroundItem{ItemID: 526, Count: 1})
	b := s.AddGroundItem(&GroundItem{ItemID: 995, Count: 10, Owner: ecs.NewEntityID(3, 0)})
	if a <= groundIDBase || b != a+1 {
		t.Fatalf("ids = %d, %d", a, b)
	}
	if !s.GetGroundItem(a).Public() || s.GetGroundItem(b).Public() {
		t.Fatal("ownership not preserved")
	}
	seen := 0
	s.EachGroundItem(func(*GroundItem) { seen++ })
	if seen != 2 {
		t.Fatalf("iterated %d items, want 2", seen)
	}
	if s.RemoveGroundItem(a) == nil || s.GroundItemCount() != 1 {
		t.Fatal("remove failed")
	}
}
