package system

import (
	"time"

	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/core/tick"
)

// SchedulerSystem advances deferred tasks by one tick. Phase 2 (Update).
type SchedulerSystem struct {
	sched *tick.Scheduler
}

func NewSchedulerSystem(sched *tick.Scheduler) *SchedulerSystem {
	return &SchedulerSystem{sched: sched}
}

func (s *SchedulerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SchedulerSystem) Update(_ time.Duration) {
	s.sched.Advance()
}
