package service

import (
	"github.com/l1jgo/reaper/internal/core/event"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// Deadman records player kills on deadman worlds.
type Deadman struct {
	bus *event.Bus
	log *zap.Logger
}

func NewDeadman(bus *event.Bus, log *zap.Logger) *Deadman {
	return &Deadman{bus: bus, log: log}
}

// OnPlayerKill credits killer with a PvP kill over victim.
func (s *Deadman) OnPlayerKill(killer, victim *world.Entity) error {
	if killer == nil || killer.Player == nil || victim == nil || victim.Player == nil {
		return ErrNotPlayer
	}
	killer.Player.PvPKills++
	killer.Player.Dirty = true
	if s.bus != nil {
		event.Emit(s.bus, event.PlayerKilled{
			KillerCharID: killer.Player.CharID,
			VictimCharID: victim.Player.CharID,
			MapID:        victim.Location.MapID,
			X:            victim.Location.X,
			Y:            victim.Location.Y,
		})
	}
	s.log.Debug("死神模式擊殺",
		zap.String("killer", killer.Name),
		zap.String("victim", victim.Name),
		zap.Int("kills", killer.Player.PvPKills),
	)
	return nil
}
