package world

import (
	"time"

	"github.com/l1jgo/reaper/internal/core/ecs"
)

// Prayer is a bit in the active prayer set.
type Prayer uint32

const (
	PrayerProtectItem Prayer = 1 << iota
	PrayerProtectMelee
	PrayerProtectMissiles
	PrayerProtectMagic
	PrayerRedemption
	PrayerRetribution
	PrayerSmite
)

// DefaultVenomDamage is the first venom hit after a fresh envenoming.
const DefaultVenomDamage = 6

// Bonuses are temporary combat modifiers (potions, special attacks).
type Bonuses struct {
	Attack   int
	Strength int
	Defence  int
	Special  int
}

// CombatState is owned by exactly one entity and mutated only on the game loop.
type CombatState struct {
	Dead  bool
	HP    int32
	MaxHP int32

	Damage       *DamageMap
	LastHitBy    ecs.EntityID // weak reference; may point at a despawned entity
	LastHitTimer time.Time

	prayers Prayer
	Bonuses Bonuses

	PoisonDamage int
	PoisonSource ecs.EntityID
	Venomed      bool
	VenomDamage  int
}

func NewCombatState(maxHP int32) *CombatState {
	return &CombatState{
		HP:          maxHP,
		MaxHP:       maxHP,
		Damage:      NewDamageMap(),
		VenomDamage: DefaultVenomDamage,
	}
}

// ApplyHit records damage from attacker and marks the entity dead when HP
// reaches zero. It reports whether this hit was the killing blow. Hits on an
// entity that is already dead are ignored so a death is only raised once.
func (c *CombatState) ApplyHit(attacker ecs.EntityID, amount int32, now time.Time) bool {
	if c.Dead || amount <= 0 {
		return false
	}
	if !attacker.IsZero() {
		c.Damage.Record(attacker, int(amount))
		c.LastHitBy = attacker
		c.LastHitTimer = now
	}
	c.HP -= amount
	if c.HP > 0 {
		return false
	}
	c.HP = 0
	c.Dead = true
	return true
}

// Restore refills HP for a new life.
func (c *CombatState) Restore() {
	c.HP = c.MaxHP
}

func (c *CombatState) Prayer(p Prayer) bool { return c.prayers&p != 0 }

func (c *CombatState) SetPrayer(p Prayer, on bool) {
	if on {
		c.prayers |= p
	} else {
		c.prayers &^= p
	}
}

func (c *CombatState) ResetPrayers() { c.prayers = 0 }

func (c *CombatState) ResetBonuses() { c.Bonuses = Bonuses{} }

// SetPoison sets the poison damage and its source; zero clears poison.
func (c *CombatState) SetPoison(damage int, source ecs.EntityID) {
	c.PoisonDamage = damage
	c.PoisonSource = source
	if damage == 0 {
		c.PoisonSource = 0
	}
}

// ClearVenom removes venom and resets the venom ramp.
func (c *CombatState) ClearVenom() {
	c.Venomed = false
	c.VenomDamage = DefaultVenomDamage
}

// ClearTag drops the last-hit reference.
func (c *CombatState) ClearTag() {
	c.LastHitBy = 0
	c.LastHitTimer = time.Time{}
}
