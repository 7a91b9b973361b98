package world

import "github.com/l1jgo/reaper/internal/core/ecs"

type damageEntry struct {
	total int
	first uint64 // order of the attacker's first recorded hit
}

// DamageMap accumulates damage per attacker for kill credit.
//
// HighestDamage breaks ties by the earliest first hit: of two attackers with
// equal totals, the one who engaged first gets the kill.
type DamageMap struct {
	entries map[ecs.EntityID]*damageEntry
	seq     uint64
}

func NewDamageMap() *DamageMap {
	return &DamageMap{entries: make(map[ecs.EntityID]*damageEntry)}
}

// Record adds amount to attacker's total. Non-positive amounts are ignored.
func (m *DamageMap) Record(attacker ecs.EntityID, amount int) {
	if amount <= 0 || attacker.IsZero() {
		return
	}
	e, ok := m.entries[attacker]
	if !ok {
		m.seq++
		e = &damageEntry{first: m.seq}
		m.entries[attacker] = e
	}
	e.total += amount
}

// HighestDamage returns the attacker with the most recorded damage.
// ok is false when nothing has been recorded.
func (m *DamageMap) HighestDamage() (attacker ecs.EntityID, ok bool) {
	var best *damageEntry
	for id, e := range m.entries {
		if best == nil || e.total > best.total || (e.total == best.total && e.first < best.first) {
			best = e
			attacker = id
		}
	}
	return attacker, best != nil
}

// DamageBy returns attacker's cumulative damage.
func (m *DamageMap) DamageBy(attacker ecs.EntityID) int {
	if e, ok := m.entries[attacker]; ok {
		return e.total
	}
	return 0
}

func (m *DamageMap) Len() int { return len(m.entries) }

// Total returns the damage recorded across all attackers.
func (m *DamageMap) Total() int {
	sum := 0
	for _, e := range m.entries {
		sum += e.total
	}
	return sum
}

// Reset clears every entry.
func (m *DamageMap) Reset() {
	clear(m.entries)
	m.seq = 0
}
