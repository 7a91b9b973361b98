package service

import (
	"math/rand"

	"github.com/l1jgo/reaper/internal/world"
)

const (
	ItemBronzeDefender int32 = 8844
	defenderChance           = 50 // 1 in N
)

// WarriorsGuild tracks animated armour and cyclops kills.
type WarriorsGuild struct {
	state *world.State
	msg   Sender
	roll  func(n int) int
}

func NewWarriorsGuild(state *world.State, msg Sender) *WarriorsGuild {
	return &WarriorsGuild{state: state, msg: msg, roll: rand.Intn}
}

// ReleaseArmour clears the player's summoned armour when npc is it.
func (g *WarriorsGuild) ReleaseArmour(player, npc *world.Entity) bool {
	if player == nil || player.Player == nil || npc == nil {
		return false
	}
	if player.Player.GuildArmour.IsZero() || player.Player.GuildArmour != npc.ID {
		return false
	}
	player.Player.GuildArmour = 0
	return true
}

// KilledCyclops counts a cyclops kill and may drop a defender at the cyclops' feet.
func (g *WarriorsGuild) KilledCyclops(player *world.Entity, at world.Location) error {
	if player == nil || player.Player == nil {
		return ErrNotPlayer
	}
	player.Player.CyclopsKills++
	if g.roll(defenderChance) != 0 {
		return nil
	}
	g.state.AddGroundItem(&world.GroundItem{
		ItemID:   ItemBronzeDefender,
		Count:    1,
		Location: at,
		Owner:    player.ID,
	})
	g.msg.SendMessage(player, "The cyclops drops a defender!")
	return nil
}
