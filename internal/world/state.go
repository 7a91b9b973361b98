package world

import (
	"github.com/l1jgo/reaper/internal/core/ecs"
)

// State is the world's entity registry plus the shared state death
// resolution needs: boss-group pools and ground items.
// Single-goroutine access only (game loop).
type State struct {
	ecs      *ecs.World
	entities map[ecs.EntityID]*Entity
	list     []*Entity // registration order, for deterministic tick iteration

	byCharID map[int32]*Entity

	pools map[string]*GroupRespawnPool

	groundItems  map[int32]*GroundItem
	nextGroundID int32
}

func NewState(w *ecs.World) *State {
	if w == nil {
		w = ecs.NewWorld()
	}
	return &State{
		ecs:          w,
		entities:     make(map[ecs.EntityID]*Entity, 256),
		list:         make([]*Entity, 0, 256),
		byCharID:     make(map[int32]*Entity),
		pools:        make(map[string]*GroupRespawnPool),
		groundItems:  make(map[int32]*GroundItem),
		nextGroundID: groundIDBase,
	}
}

// ECS returns the underlying ID pool owner.
func (s *State) ECS() *ecs.World { return s.ecs }

// Register adds e to the world, allocating an ID when it has none.
func (s *State) Register(e *Entity) ecs.EntityID {
	if e.ID.IsZero() || !s.ecs.Alive(e.ID) {
		e.ID = s.ecs.CreateEntity()
	}
	if _, ok := s.entities[e.ID]; ok {
		return e.ID
	}
	s.entities[e.ID] = e
	s.list = append(s.list, e)
	if e.Player != nil {
		s.byCharID[e.Player.CharID] = e
	}
	return e.ID
}

// Unregister removes e from the world. The ID is released at the end of the
// tick by CleanupSystem. It reports false when e was not registered.
func (s *State) Unregister(e *Entity) bool {
	if _, ok := s.entities[e.ID]; !ok {
		return false
	}
	delete(s.entities, e.ID)
	for i, v := range s.list {
		if v == e {
			s.list = append(s.list[:i], s.list[i+1:]...)
			break
		}
	}
	if e.Player != nil {
		delete(s.byCharID, e.Player.CharID)
	}
	e.Active = false
	s.ecs.MarkForDestruction(e.ID)
	return true
}

// Contains reports whether id refers to a registered entity.
func (s *State) Contains(id ecs.EntityID) bool {
	_, ok := s.entities[id]
	return ok
}

// Get returns the entity for id, or nil.
func (s *State) Get(id ecs.EntityID) *Entity {
	return s.entities[id]
}

// GetByCharID returns an online player by character ID.
func (s *State) GetByCharID(charID int32) *Entity {
	return s.byCharID[charID]
}

// Each visits every registered entity in registration order.
func (s *State) Each(fn func(*Entity)) {
	for _, e := range s.list {
		fn(e)
	}
}

// EachPlayer visits every online player.
func (s *State) EachPlayer(fn func(*Entity)) {
	for _, e := range s.list {
		if e.IsPlayer() {
			fn(e)
		}
	}
}

// Dead returns a snapshot of every registered entity flagged dead.
func (s *State) Dead() []*Entity {
	var out []*Entity
	for _, e := range s.list {
		if e.Combat != nil && e.Combat.Dead {
			out = append(out, e)
		}
	}
	return out
}

func (s *State) Count() int { return len(s.list) }

// GroupPool returns the single pool for a boss group, creating it on first use.
func (s *State) GroupPool(name string) *GroupRespawnPool {
	p, ok := s.pools[name]
	if !ok {
		p = NewGroupRespawnPool(name)
		s.pools[name] = p
	}
	return p
}

// --- Ground item methods ---

// AddGroundItem puts item on the ground under a fresh object ID and returns it.
func (s *State) AddGroundItem(item *GroundItem) int32 {
	s.nextGroundID++
	item.ID = s.nextGroundID
	s.groundItems[item.ID] = item
	return item.ID
}

// RemoveGroundItem removes a ground item from the world.
func (s *State) RemoveGroundItem(id int32) *GroundItem {
	item, ok := s.groundItems[id]
	if !ok {
		return nil
	}
	delete(s.groundItems, id)
	return item
}

// GetGroundItem returns a ground item by its object ID.
func (s *State) GetGroundItem(id int32) *GroundItem {
	return s.groundItems[id]
}

// EachGroundItem calls fn for every item on the ground, in no particular order.
func (s *State) EachGroundItem(fn func(*GroundItem)) {
	for _, g := range s.groundItems {
		fn(g)
	}
}

// GroundItemCount returns how many items lie on the ground.
func (s *State) GroundItemCount() int { return len(s.groundItems) }
