package system

import (
	"sort"
	"time"

	coresys "github.com/l1jgo/reaper/internal/core/system"
	"github.com/l1jgo/reaper/internal/world"
)

// 死神排名更新間隔（每 10 分鐘 = 1000 ticks @600ms）
const rankingUpdateTicks = 1000

// rankingSize is how many killers the board keeps.
const rankingSize = 10

// Broadcaster announces to every online player.
type Broadcaster interface {
	Broadcast(text string)
	Sprintf(format string, args ...any) string
}

// RankedKiller is one row of the deadman board.
type RankedKiller struct {
	Name  string
	Kills int
}

// DeadmanRankingSystem 定期依玩家擊殺數排序，維護 TOP10，榜首易主時全服廣播。
type DeadmanRankingSystem struct {
	ws       *world.State
	announce Broadcaster
	interval int
	elapsed  int

	top    []RankedKiller
	leader string
}

func NewDeadmanRankingSystem(ws *world.State, announce Broadcaster) *DeadmanRankingSystem {
	return &DeadmanRankingSystem{ws: ws, announce: announce, interval: rankingUpdateTicks}
}

func (s *DeadmanRankingSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *DeadmanRankingSystem) Update(_ time.Duration) {
	s.elapsed++
	if s.elapsed < s.interval {
		return
	}
	s.elapsed = 0
	s.recalculate()
}

func (s *DeadmanRankingSystem) recalculate() {
	var players []RankedKiller
	s.ws.EachPlayer(func(p *world.Entity) {
		if p.Player.PvPKills > 0 {
			players = append(players, RankedKiller{Name: p.Name, Kills: p.Player.PvPKills})
		}
	})

	// 擊殺數降序，同數依名稱排序
	sort.Slice(players, func(i, j int) bool {
		if players[i].Kills != players[j].Kills {
			return players[i].Kills > players[j].Kills
		}
		return players[i].Name < players[j].Name
	})
	if len(players) > rankingSize {
		players = players[:rankingSize]
	}
	s.top = players

	if len(players) == 0 || players[0].Name == s.leader {
		return
	}
	s.leader = players[0].Name
	s.announce.Broadcast(s.announce.Sprintf("%s now leads the Deadman rankings with %d kills.", players[0].Name, players[0].Kills))
}

// Top returns the current board.
func (s *DeadmanRankingSystem) Top() []RankedKiller { return s.top }

// IsRanked reports whether name is on the board.
func (s *DeadmanRankingSystem) IsRanked(name string) bool {
	for _, r := range s.top {
		if r.Name == name {
			return true
		}
	}
	return false
}
