package ecs

import "fmt"

// EntityID is a generational handle: slot index in the low 32 bits, slot
// generation in the high 32 bits. Releasing a slot bumps its generation, so a
// weak reference such as CombatState.LastHitBy stops resolving once the entity
// it named is gone, even after the slot is handed to someone else.
type EntityID uint64

func NewEntityID(index uint32, generation uint32) EntityID {
	return EntityID(uint64(generation)<<32 | uint64(index))
}

func (id EntityID) Index() uint32      { return uint32(id) }
func (id EntityID) Generation() uint32 { return uint32(id >> 32) }
func (id EntityID) IsZero() bool       { return id == 0 }

// String renders the id as index.generation for logs.
func (id EntityID) String() string {
	return fmt.Sprintf("%d.%d", id.Index(), id.Generation())
}

type slot struct {
	gen  uint32
	live bool
}

// EntityPool hands out generational IDs and recycles released slots LIFO.
// Slot 0 is never handed out, so the zero EntityID means "nobody".
type EntityPool struct {
	slots []slot
	free  []uint32
	live  int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		slots: make([]slot, 1, 1024),
		free:  make([]uint32, 0, 256),
	}
}

// Create allocates an ID, reusing the most recently released slot first.
func (p *EntityPool) Create() EntityID {
	var idx uint32
	if n := len(p.free); n > 0 {
		idx = p.free[n-1]
		p.free = p.free[:n-1]
	} else {
		idx = uint32(len(p.slots))
		p.slots = append(p.slots, slot{})
	}
	p.slots[idx].live = true
	p.live++
	return NewEntityID(idx, p.slots[idx].gen)
}

func (p *EntityPool) lookup(id EntityID) (*slot, bool) {
	idx := id.Index()
	if idx == 0 || int(idx) >= len(p.slots) {
		return nil, false
	}
	s := &p.slots[idx]
	return s, s.live && s.gen == id.Generation()
}

func (p *EntityPool) Alive(id EntityID) bool {
	_, ok := p.lookup(id)
	return ok
}

// Destroy releases id. Stale or unknown ids are ignored.
func (p *EntityPool) Destroy(id EntityID) bool {
	s, ok := p.lookup(id)
	if !ok {
		return false
	}
	s.live = false
	s.gen++
	p.live--
	p.free = append(p.free, id.Index())
	return true
}

// Live returns how many IDs are currently allocated.
func (p *EntityPool) Live() int { return p.live }
