package world

import (
	"errors"
	"testing"
)

func newBoss(name string) *Entity {
	return NewNpc(name, CategoryGroupBoss, 1, Location{}, 0, 100)
}

func TestGroupPoolFillsOnFourth(t *testing.T) {
	p := NewGroupRespawnPool("bandos")
	members := []*Entity{newBoss("a"), newBoss("b"), newBoss("c"), newBoss("d")}
	want := []bool{false, false, false, true}

	for i, m := range members {
		full, err := p.Register(m)
		if err != nil {
			t.Fatalf("register %d: %v", i, err)
		}
		if full != want[i] || p.Full() != want[i] {
			t.Fatalf("register %d returned %v (Full %v), want %v", i, full, p.Full(), want[i])
		}
	}

	drained := p.Drain()
	if len(drained) != GroupPoolSize {
		t.Fatalf("drained %d members, want %d", len(drained), GroupPoolSize)
	}
	for i, m := range members {
		if drained[i] != m {
			t.Fatalf("slot %d = %s, want %s", i, drained[i].Name, m.Name)
		}
	}
	if p.Len() != 0 {
		t.Fatalf("pool not empty after drain: %d", p.Len())
	}
}

func TestGroupPoolRejectsFifth(t *testing.T) {
	p := NewGroupRespawnPool("armadyl")
	for i := 0; i < GroupPoolSize; i++ {
		if _, err := p.Register(newBoss("m")); err != nil {
			t.Fatal(err)
		}
	}
	full, err := p.Register(newBoss("extra"))
	if !errors.Is(err, ErrPoolFull) {
		t.Fatalf("err = %v, want ErrPoolFull", err)
	}
	if full {
		t.Fatal("refused registration reported full")
	}
	if p.Len() != GroupPoolSize {
		t.Fatalf("len = %d, want %d", p.Len(), GroupPoolSize)
	}
}

func TestGroupPoolRejectsDuplicate(t *testing.T) {
	p := NewGroupRespawnPool("zamorak")
	b := newBoss("kril")
	if _, err := p.Register(b); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Register(b); !errors.Is(err, ErrAlreadyQueued) {
		t.Fatalf("err = %v, want ErrAlreadyQueued", err)
	}
	if p.Len() != 1 {
		t.Fatalf("len = %d, want 1", p.Len())
	}
}

func TestStateGroupPoolIsSingleton(t *testing.T) {
	s := NewState(nil)
	if s.GroupPool("saradomin") != s.GroupPool("saradomin") {
		t.Fatal("GroupPool returned different instances for one group")
	}
	if s.GroupPool("saradomin") == s.GroupPool("bandos") {
		t.Fatal("different groups share a pool")
	}
}
