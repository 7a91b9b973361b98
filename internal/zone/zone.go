package zone

import (
	"errors"
	"fmt"

	"github.com/l1jgo/reaper/internal/core/ecs"
	"github.com/l1jgo/reaper/internal/data"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// ErrUnknownZone is returned when a zone name has no boundary.
var ErrUnknownZone = errors.New("unknown zone")

// Handler owns what happens when something dies inside a zone.
type Handler interface {
	OnPlayerDeath(player *world.Entity) error
	OnNpcDeath(npc *world.Entity) error
}

// Boundary is a named rectangle.
type Boundary struct {
	Name string
	Min  world.Location
	Max  world.Location
}

func (b Boundary) Contains(loc world.Location) bool {
	return loc.Within(b.Min, b.Max)
}

// Directory maps locations to zones and zones to their handlers.
// Game loop only.
type Directory struct {
	bounds   []Boundary
	handlers map[string]Handler
	rosters  map[string]map[ecs.EntityID]struct{}
	log      *zap.Logger
}

func NewDirectory(log *zap.Logger) *Directory {
	return &Directory{
		handlers: make(map[string]Handler),
		rosters:  make(map[string]map[ecs.EntityID]struct{}),
		log:      log,
	}
}

// LoadDirectory builds a directory from zone_list entries, attaching a
// Minigame handler to each.
func LoadDirectory(entries []data.ZoneEntry, log *zap.Logger) *Directory {
	d := NewDirectory(log)
	for _, z := range entries {
		d.Add(Boundary{Name: z.Name, Min: z.Min(), Max: z.Max()}, NewMinigame(z.Name, z.ExitLocation(), log))
	}
	return d
}

// Add registers a boundary and its handler. Earlier boundaries win overlaps.
func (d *Directory) Add(b Boundary, h Handler) {
	d.bounds = append(d.bounds, b)
	d.handlers[b.Name] = h
	d.rosters[b.Name] = make(map[ecs.EntityID]struct{})
}

// BoundaryAt returns the name of the zone containing loc.
func (d *Directory) BoundaryAt(loc world.Location) (string, bool) {
	for _, b := range d.bounds {
		if b.Contains(loc) {
			return b.Name, true
		}
	}
	return "", false
}

// Handler returns the handler registered for name.
func (d *Directory) Handler(name string) (Handler, bool) {
	h, ok := d.handlers[name]
	return h, ok
}

// Spawn records npc on the zone's roster and tags it with the zone name.
func (d *Directory) Spawn(name string, npc *world.Entity) error {
	roster, ok := d.rosters[name]
	if !ok {
		return fmt.Errorf("spawn %s: %w: %q", npc.Name, ErrUnknownZone, name)
	}
	roster[npc.ID] = struct{}{}
	if npc.Npc != nil {
		npc.Npc.Zone = name
	}
	return nil
}

// Roster returns how many NPCs the zone currently owns.
func (d *Directory) Roster(name string) int {
	return len(d.rosters[name])
}

// HandlePlayerDeath hands a dead player to the zone's handler.
func (d *Directory) HandlePlayerDeath(name string, player *world.Entity) error {
	h, ok := d.handlers[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownZone, name)
	}
	return h.OnPlayerDeath(player)
}

// HandleNpcDeath drops npc from its zone's roster and runs the zone hook.
func (d *Directory) HandleNpcDeath(npc *world.Entity) error {
	name := ""
	if npc.Npc != nil {
		name = npc.Npc.Zone
	}
	h, ok := d.handlers[name]
	if !ok {
		return fmt.Errorf("npc %s: %w: %q", npc.Name, ErrUnknownZone, name)
	}
	delete(d.rosters[name], npc.ID)
	return h.OnNpcDeath(npc)
}
