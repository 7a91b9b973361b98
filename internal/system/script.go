package system

import (
	"time"

	"github.com/l1jgo/reaper/internal/core/event"
	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/scripting"
	"go.uber.org/zap"
)

// ScriptEngine is the subset of the Lua engine the systems need.
type ScriptEngine interface {
	Reload() error
	OnMobDeath(ctx scripting.MobDeathContext) string
}

// ChangeSource reports changed script files without blocking.
type ChangeSource interface {
	Changed() string
}

// ScriptReloadSystem reloads Lua on the game loop when a script changes on
// disk. Phase 0 (Input).
type ScriptReloadSystem struct {
	engine  ScriptEngine
	changes ChangeSource
	log     *zap.Logger
}

func NewScriptReloadSystem(engine ScriptEngine, changes ChangeSource, log *zap.Logger) *ScriptReloadSystem {
	return &ScriptReloadSystem{engine: engine, changes: changes, log: log}
}

func (s *ScriptReloadSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *ScriptReloadSystem) Update(_ time.Duration) {
	file := s.changes.Changed()
	if file == "" {
		return
	}
	if err := s.engine.Reload(); err != nil {
		s.log.Error("腳本重新載入失敗，沿用舊版", zap.String("file", file), zap.Error(err))
		return
	}
	s.log.Info("腳本已重新載入", zap.String("file", file))
}

// DeathAnnouncer runs the Lua on_mob_death hook and broadcasts what it returns.
type DeathAnnouncer struct {
	engine   ScriptEngine
	announce Broadcaster
}

func NewDeathAnnouncer(engine ScriptEngine, announce Broadcaster) *DeathAnnouncer {
	return &DeathAnnouncer{engine: engine, announce: announce}
}

// OnMobDied is subscribed to event.MobDied.
func (a *DeathAnnouncer) OnMobDied(ev event.MobDied) {
	text := a.engine.OnMobDeath(scripting.MobDeathContext{
		Victim:     ev.VictimName,
		Killer:     ev.KillerName,
		Category:   ev.Category,
		TemplateID: int(ev.TemplateID),
		MapID:      int(ev.MapID),
		X:          int(ev.X),
		Y:          int(ev.Y),
	})
	if text != "" {
		a.announce.Broadcast(text)
	}
}
