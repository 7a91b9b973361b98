package ecs

// World owns the ID pool plus the end-of-tick release queue. An unregistered
// entity keeps its ID until the queue is flushed, so every system later in the
// same tick still sees a consistent pool.
type World struct {
	pool    *EntityPool
	pending []EntityID
}

func NewWorld() *World {
	return &World{
		pool:    NewEntityPool(),
		pending: make([]EntityID, 0, 64),
	}
}

func (w *World) CreateEntity() EntityID { return w.pool.Create() }

func (w *World) Alive(id EntityID) bool { return w.pool.Alive(id) }

// Live returns how many IDs are allocated, including those queued for release.
func (w *World) Live() int { return w.pool.Live() }

// MarkForDestruction queues id for release at the end of the tick.
func (w *World) MarkForDestruction(id EntityID) {
	w.pending = append(w.pending, id)
}

// PendingDestruction reports how many IDs wait for the next flush.
func (w *World) PendingDestruction() int { return len(w.pending) }

// FlushDestroyQueue releases every queued ID and returns how many were
// actually freed. Duplicates and stale IDs in the queue are skipped.
func (w *World) FlushDestroyQueue() int {
	released := 0
	for _, id := range w.pending {
		if w.pool.Destroy(id) {
			released++
		}
	}
	w.pending = w.pending[:0]
	return released
}
