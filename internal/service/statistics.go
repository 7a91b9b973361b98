package service

import (
	"errors"
	"fmt"

	"github.com/l1jgo/reaper/internal/core/event"
	"github.com/l1jgo/reaper/internal/persist"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// ErrNotPlayer is returned when a player-only operation gets an NPC.
var ErrNotPlayer = errors.New("entity is not a player")

// BossKillRecorder persists boss kill counts.
type BossKillRecorder interface {
	RecordBossKill(r persist.BossKillRecord) error
}

// Statistics tracks per-player boss kill counts.
type Statistics struct {
	rec BossKillRecorder // nil = memory only
	bus *event.Bus
	log *zap.Logger
}

func NewStatistics(rec BossKillRecorder, bus *event.Bus, log *zap.Logger) *Statistics {
	return &Statistics{rec: rec, bus: bus, log: log}
}

// IncreaseBossKillCount adds amount to the player's count for bossID and
// returns the new total.
func (s *Statistics) IncreaseBossKillCount(player *world.Entity, bossID int32, amount int) (int, error) {
	if player == nil || player.Player == nil {
		return 0, ErrNotPlayer
	}
	if amount < 1 {
		return 0, fmt.Errorf("boss %d: kill count increment %d", bossID, amount)
	}
	p := player.Player
	p.BossKills[bossID] += amount
	count := p.BossKills[bossID]
	p.Dirty = true

	if s.bus != nil {
		event.Emit(s.bus, event.BossKilled{KillerCharID: p.CharID, BossID: bossID, Count: count})
	}
	if s.rec != nil {
		if err := s.rec.RecordBossKill(persist.BossKillRecord{CharID: p.CharID, BossID: bossID, Count: count}); err != nil {
			s.log.Warn("首領擊殺數未寫入日誌", zap.Int32("char", p.CharID), zap.Int32("boss", bossID), zap.Error(err))
		}
	}
	return count, nil
}
