package world

import "errors"

// GroupPoolSize is the number of bosses in a boss group.
const GroupPoolSize = 4

var (
	// ErrPoolFull means a fifth member tried to register before the batch revival drained the pool.
	ErrPoolFull = errors.New("group respawn pool full")
	// ErrAlreadyQueued means the member already holds a slot.
	ErrAlreadyQueued = errors.New("member already queued for group revival")
)

// GroupRespawnPool collects the dead members of one boss group until all four
// are down. It is mutated only on the game loop; a host that resolves deaths on
// several goroutines must guard each pool with its own mutex.
type GroupRespawnPool struct {
	name  string
	slots [GroupPoolSize]*Entity
}

func NewGroupRespawnPool(name string) *GroupRespawnPool {
	return &GroupRespawnPool{name: name}
}

func (p *GroupRespawnPool) Name() string { return p.name }

// Register puts member into the first free slot and reports whether that
// insertion filled the pool. Registration into a full pool, or of a member
// that is already queued, is refused with an error and changes nothing.
func (p *GroupRespawnPool) Register(member *Entity) (bool, error) {
	free := -1
	for i, m := range p.slots {
		if m == member {
			return false, ErrAlreadyQueued
		}
		if m == nil && free < 0 {
			free = i
		}
	}
	if free < 0 {
		return false, ErrPoolFull
	}
	p.slots[free] = member
	return p.Full(), nil
}

// Drain returns every held member in slot order and empties the pool in one step.
func (p *GroupRespawnPool) Drain() []*Entity {
	out := make([]*Entity, 0, GroupPoolSize)
	for i, m := range p.slots {
		if m != nil {
			out = append(out, m)
		}
		p.slots[i] = nil
	}
	return out
}

// Len returns the number of occupied slots.
func (p *GroupRespawnPool) Len() int {
	n := 0
	for _, m := range p.slots {
		if m != nil {
			n++
		}
	}
	return n
}

// Full reports whether every slot is taken.
func (p *GroupRespawnPool) Full() bool { return p.Len() == GroupPoolSize }
