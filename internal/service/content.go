package service

import (
	"github.com/l1jgo/reaper/internal/world"
)

// ContentHook reacts to a player's death.
type ContentHook func(player *world.Entity)

// ContentManager fans a player's death out to registered content
// (skilling actions, dialogues, minigames).
type ContentManager struct {
	names []string
	hooks []ContentHook
}

func NewContentManager() *ContentManager {
	return &ContentManager{}
}

// Register adds a hook. Hooks run in registration order.
func (m *ContentManager) Register(name string, hook ContentHook) {
	m.names = append(m.names, name)
	m.hooks = append(m.hooks, hook)
}

// Names lists registered hooks.
func (m *ContentManager) Names() []string { return m.names }

func (m *ContentManager) OnDeath(player *world.Entity) {
	for _, h := range m.hooks {
		h(player)
	}
}

// InterruptActions is the default content hook: death cancels queued actions.
func InterruptActions(player *world.Entity) {
	if player.Player != nil {
		player.Player.ClearActions()
	}
}
