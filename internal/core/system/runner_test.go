package system

import (
	"reflect"
	"testing"
	"time"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase           { return r.phase }
func (r recorder) Update(_ time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"cleanup", PhaseCleanup, &log})
	r.Register(recorder{"death", PhasePostUpdate, &log})
	r.Register(recorder{"scheduler", PhaseUpdate, &log})
	r.Register(recorder{"events", PhasePreUpdate, &log})
	r.Register(recorder{"ranking", PhasePostUpdate, &log})

	r.Tick(200 * time.Millisecond)

	want := []string{"events", "scheduler", "death", "ranking", "cleanup"}
	if !reflect.DeepEqual(log, want) {
		t.Fatalf("order = %v, want %v", log, want)
	}
	if r.Ticks() != 1 {
		t.Fatalf("ticks = %d, want 1", r.Ticks())
	}
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"a", PhaseInput, &log})
	r.Register(recorder{"b", PhaseUpdate, &log})

	r.TickPhase(PhaseInput, 0)
	if !reflect.DeepEqual(log, []string{"a"}) {
		t.Fatalf("log = %v", log)
	}
	if r.Ticks() != 0 {
		t.Fatal("TickPhase must not count as a full tick")
	}
}

func TestRegisterCountsPerPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"a", PhasePostUpdate, &log})
	r.Register(recorder{"b", PhasePostUpdate, &log})
	r.Register(recorder{"bogus", Phase(42), &log})

	if got := r.Systems(PhasePostUpdate); got != 2 {
		t.Fatalf("post-update systems = %d, want 2", got)
	}
	if got := r.Systems(PhaseCleanup); got != 1 {
		t.Fatalf("out-of-range phase not folded into cleanup, got %d", got)
	}
	r.TickPhase(Phase(-1), 0)
	if len(log) != 0 {
		t.Fatalf("invalid phase ran systems: %v", log)
	}
}
