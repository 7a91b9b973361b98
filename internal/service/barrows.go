package service

import (
	"fmt"

	"github.com/l1jgo/reaper/internal/world"
)

// Barrows tracks crypt brother kills.
type Barrows struct {
	msg Sender
}

func NewBarrows(msg Sender) *Barrows {
	return &Barrows{msg: msg}
}

// OnBrotherKilled updates the killer's barrows state. Killing the brother
// whose tunnel the player was assigned unlocks the chest.
func (b *Barrows) OnBrotherKilled(player, brother *world.Entity) error {
	if player == nil || player.Player == nil {
		return ErrNotPlayer
	}
	p := player.Player
	p.BarrowsKC++
	b.msg.SendMessage(player, fmt.Sprintf("Kill Count: %d", p.BarrowsKC))
	player.Attrs.Remove(world.AttrFightingBrother)
	if tunnel, ok := player.Attrs.Int32(world.AttrBarrowsTunnel); ok && tunnel == brother.TemplateID {
		player.Attrs.Set(world.AttrCanLoot, true)
	}
	p.KilledBrothers[brother.TemplateID] = true
	p.Dirty = true
	return nil
}
