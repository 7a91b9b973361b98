package service

import (
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Sender delivers a chat-box message to one player.
type Sender interface {
	SendMessage(e *world.Entity, text string)
}

// Messenger queues chat-box messages on each player's inbox; the network
// layer drains the inbox when it builds the next outgoing packet.
type Messenger struct {
	state   *world.State
	printer *message.Printer
	log     *zap.Logger
}

func NewMessenger(state *world.State, log *zap.Logger) *Messenger {
	return &Messenger{
		state:   state,
		printer: message.NewPrinter(language.English),
		log:     log,
	}
}

// SendMessage queues text for e. NPCs have no chat box and are ignored.
func (m *Messenger) SendMessage(e *world.Entity, text string) {
	if e == nil || e.Player == nil {
		return
	}
	e.Player.Inbox = append(e.Player.Inbox, text)
}

// Broadcast queues text for every online player.
func (m *Messenger) Broadcast(text string) {
	n := 0
	m.state.EachPlayer(func(p *world.Entity) {
		p.Player.Inbox = append(p.Player.Inbox, text)
		n++
	})
	m.log.Info("全服廣播", zap.String("text", text), zap.Int("players", n))
}

// Sprintf formats with English digit grouping (12,345).
func (m *Messenger) Sprintf(format string, args ...any) string {
	return m.printer.Sprintf(format, args...)
}
