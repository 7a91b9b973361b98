package world

import "github.com/l1jgo/reaper/internal/core/ecs"

// SlayerTask is the player's active slayer assignment.
type SlayerTask struct {
	Name      string
	Remaining int
}

// Challenge is a timed trial the player can be inside (fight cave, recipe for disaster).
type Challenge struct {
	Name       string
	Started    bool
	Deaths     int
	DefersLoot bool // the trial keeps the player's items on death
}

// PlayerSettings are death-related fields saved with the character.
type PlayerSettings struct {
	ProtectItem    bool
	VenomDamage    int
	TeleBlocked    bool
	TeleBlockTimer int
}

// PlayerData holds player-only runtime state.
type PlayerData struct {
	CharID      int32
	Permissions map[Permission]bool
	BossKills   map[int32]int
	PvPKills    int

	Slayer     *SlayerTask
	Challenges []*Challenge

	GuildArmour  ecs.EntityID // warriors' guild animated armour currently summoned
	CyclopsKills int

	BarrowsKC      int
	KilledBrothers map[int32]bool

	InstancedNPCs []ecs.EntityID

	Settings   PlayerSettings
	SkillLevel []int
	SkillBase  []int

	Actions           []string
	WalkableInterface int
	Inbox             []string
	Dirty             bool
}

const skillCount = 23

func NewPlayerData(charID int32) *PlayerData {
	p := &PlayerData{
		CharID:         charID,
		Permissions:    make(map[Permission]bool),
		BossKills:      make(map[int32]int),
		KilledBrothers: make(map[int32]bool),
		SkillLevel:     make([]int, skillCount),
		SkillBase:      make([]int, skillCount),
	}
	for i := range p.SkillBase {
		p.SkillBase[i] = 1
		p.SkillLevel[i] = 1
	}
	p.SkillBase[3], p.SkillLevel[3] = 10, 10 // hitpoints
	return p
}

// TotalLevel sums base skill levels.
func (p *PlayerData) TotalLevel() int {
	total := 0
	for _, l := range p.SkillBase {
		total += l
	}
	return total
}

// ResetStats drops every boosted or drained skill back to its base level.
func (p *PlayerData) ResetStats() {
	copy(p.SkillLevel, p.SkillBase)
}

// ClearActions empties the pending action queue.
func (p *PlayerData) ClearActions() { p.Actions = p.Actions[:0] }

// Challenge returns the named trial, or nil.
func (p *PlayerData) Challenge(name string) *Challenge {
	for _, c := range p.Challenges {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ActiveChallenges returns every started trial.
func (p *PlayerData) ActiveChallenges() []*Challenge {
	var out []*Challenge
	for _, c := range p.Challenges {
		if c.Started {
			out = append(out, c)
		}
	}
	return out
}

// LootDeferred reports whether a started trial keeps the player's items.
func (p *PlayerData) LootDeferred() bool {
	for _, c := range p.Challenges {
		if c.Started && c.DefersLoot {
			return true
		}
	}
	return false
}

// RemoveInstanced drops id from the instanced NPC list and reports whether it was there.
func (p *PlayerData) RemoveInstanced(id ecs.EntityID) bool {
	for i, v := range p.InstancedNPCs {
		if v == id {
			p.InstancedNPCs = append(p.InstancedNPCs[:i], p.InstancedNPCs[i+1:]...)
			return true
		}
	}
	return false
}
