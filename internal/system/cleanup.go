package system

import (
	"time"

	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// CleanupSystem 在 tick 結束時釋放本 tick 移除的實體 ID。Phase 6 (Cleanup).
type CleanupSystem struct {
	world    *world.State
	log      *zap.Logger
	released int
}

func NewCleanupSystem(ws *world.State, log *zap.Logger) *CleanupSystem {
	return &CleanupSystem{world: ws, log: log}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	n := s.world.ECS().FlushDestroyQueue()
	if n == 0 {
		return
	}
	s.released += n
	s.log.Debug("釋放實體 ID",
		zap.Int("released", n),
		zap.Int("registered", s.world.Count()),
		zap.Int("live_ids", s.world.ECS().Live()),
	)
}

// Released returns how many IDs the system has freed since start.
func (s *CleanupSystem) Released() int { return s.released }
