package system

import (
	"time"

	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// Resolver resolves one death.
type Resolver interface {
	Resolve(victim *world.Entity)
}

// DeathSystem 每個 tick 掃描死亡實體並交給死亡處理器。Phase 3 (PostUpdate).
type DeathSystem struct {
	world    *world.State
	resolver Resolver
	log      *zap.Logger
}

func NewDeathSystem(ws *world.State, resolver Resolver, log *zap.Logger) *DeathSystem {
	return &DeathSystem{world: ws, resolver: resolver, log: log}
}

func (s *DeathSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DeathSystem) Update(_ time.Duration) {
	// 快照：處理過程中可能註銷實體
	for _, e := range s.world.Dead() {
		s.resolve(e)
	}
}

// resolve keeps one entity's failure from stopping the others.
func (s *DeathSystem) resolve(e *world.Entity) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("死亡處理崩潰", zap.String("entity", e.Name), zap.Any("panic", r))
			if e.Combat != nil {
				e.Combat.Dead = false
			}
		}
	}()
	s.resolver.Resolve(e)
}
