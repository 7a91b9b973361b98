package zone

import (
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// Minigame is the zone handler for safe minigames: a player who dies inside
// keeps everything and is sent to the exit with full health.
type Minigame struct {
	name   string
	exit   world.Location
	deaths int
	kills  int
	log    *zap.Logger
}

func NewMinigame(name string, exit world.Location, log *zap.Logger) *Minigame {
	return &Minigame{name: name, exit: exit, log: log}
}

func (m *Minigame) OnPlayerDeath(player *world.Entity) error {
	m.deaths++
	player.SetTeleportTarget(m.exit)
	player.Combat.Restore()
	player.Combat.ResetPrayers()
	player.SetDefaultAnimations()
	if player.Player != nil {
		player.Player.WalkableInterface = 0
		player.Player.Inbox = append(player.Player.Inbox, "Oh dear, you have been defeated!")
	}
	m.log.Debug("小遊戲玩家陣亡", zap.String("zone", m.name), zap.String("player", player.Name))
	return nil
}

func (m *Minigame) OnNpcDeath(npc *world.Entity) error {
	m.kills++
	return nil
}

// Deaths returns how many players died in the zone.
func (m *Minigame) Deaths() int { return m.deaths }

// Kills returns how many zone NPCs died.
func (m *Minigame) Kills() int { return m.kills }
