package service

import (
	"strings"

	"github.com/l1jgo/reaper/internal/world"
	"golang.org/x/text/cases"
)

// Slayer tracks slayer task progress.
type Slayer struct {
	msg  Sender
	fold cases.Caser
}

func NewSlayer(msg Sender) *Slayer {
	return &Slayer{msg: msg, fold: cases.Fold()}
}

// TaskMatches reports whether the player's task name contains npcName,
// ignoring case ("Greater demons" matches "greater demon").
func (s *Slayer) TaskMatches(player *world.Entity, npcName string) bool {
	if player == nil || player.Player == nil || player.Player.Slayer == nil || npcName == "" {
		return false
	}
	return strings.Contains(s.fold.String(player.Player.Slayer.Name), s.fold.String(npcName))
}

// OnTaskKill counts one kill toward the active task.
func (s *Slayer) OnTaskKill(player *world.Entity, npc *world.Entity) error {
	if player == nil || player.Player == nil {
		return ErrNotPlayer
	}
	task := player.Player.Slayer
	if task == nil || task.Remaining <= 0 {
		return nil
	}
	task.Remaining--
	player.Player.Dirty = true
	if task.Remaining == 0 {
		player.Player.Slayer = nil
		s.msg.SendMessage(player, "You have completed your task! Return to a Slayer master.")
	}
	return nil
}
