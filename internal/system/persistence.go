package system

import (
	"errors"
	"time"

	"github.com/l1jgo/reaper/internal/core/event"
	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/persist"
	"go.uber.org/zap"
)

// Journal is the asynchronous death journal.
type Journal interface {
	RecordDeath(r persist.DeathRecord) error
	RequestFlush()
}

// PersistenceSystem feeds resolved deaths to the journal and asks it to flush
// every interval ticks. The journal writes on its own goroutine; nothing here
// waits on the database. Phase 5 (Persist).
type PersistenceSystem struct {
	journal   Journal
	log       *zap.Logger
	tickCount int
	interval  int // flush every N ticks
	dropped   int
}

func NewPersistenceSystem(journal Journal, log *zap.Logger, intervalTicks int) *PersistenceSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	return &PersistenceSystem{journal: journal, log: log, interval: intervalTicks}
}

func (s *PersistenceSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *PersistenceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.journal.RequestFlush()
}

// Flush asks for an immediate write. Called for graceful shutdown.
func (s *PersistenceSystem) Flush() {
	s.journal.RequestFlush()
}

// OnMobDied is subscribed to event.MobDied.
func (s *PersistenceSystem) OnMobDied(ev event.MobDied) {
	rec := persist.DeathRecord{
		Tick:       ev.Tick,
		VictimChar: ev.VictimCharID,
		VictimName: ev.VictimName,
		KillerChar: ev.KillerCharID,
		KillerName: ev.KillerName,
		Category:   ev.Category,
		MapID:      ev.MapID,
		X:          ev.X,
		Y:          ev.Y,
	}
	if ev.VictimCharID == 0 {
		rec.VictimNpc = ev.TemplateID
	}
	if err := s.journal.RecordDeath(rec); err != nil {
		s.dropped++
		if errors.Is(err, persist.ErrJournalFull) {
			s.log.Warn("死亡紀錄佇列已滿，捨棄", zap.String("victim", ev.VictimName), zap.Int("dropped", s.dropped))
			return
		}
		s.log.Error("死亡紀錄失敗", zap.String("victim", ev.VictimName), zap.Error(err))
	}
}

// Dropped returns how many death records were lost to a full queue.
func (s *PersistenceSystem) Dropped() int { return s.dropped }
