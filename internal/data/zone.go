package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/reaper/internal/world"
	"gopkg.in/yaml.v3"
)

// ZoneEntry is a named rectangular boundary.
type ZoneEntry struct {
	Name  string `yaml:"name"`
	MapID int16  `yaml:"map_id"` // -1 = any map
	MinX  int32  `yaml:"min_x"`
	MinY  int32  `yaml:"min_y"`
	MaxX  int32  `yaml:"max_x"`
	MaxY  int32  `yaml:"max_y"`
	Exit  struct {
		X     int32 `yaml:"x"`
		Y     int32 `yaml:"y"`
		MapID int16 `yaml:"map_id"`
	} `yaml:"exit"` // where the zone sends players who die inside it
}

// Min returns the lower corner.
func (z ZoneEntry) Min() world.Location { return world.NewLocation(z.MinX, z.MinY, z.MapID) }

// Max returns the upper corner.
func (z ZoneEntry) Max() world.Location { return world.NewLocation(z.MaxX, z.MaxY, z.MapID) }

// ExitLocation returns the zone's exit point.
func (z ZoneEntry) ExitLocation() world.Location {
	return world.NewLocation(z.Exit.X, z.Exit.Y, z.Exit.MapID)
}

type zoneListFile struct {
	Zones []ZoneEntry `yaml:"zones"`
}

// LoadZoneList loads zone boundaries from a YAML file.
func LoadZoneList(path string) ([]ZoneEntry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read zone_list: %w", err)
	}
	var f zoneListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse zone_list: %w", err)
	}
	for _, z := range f.Zones {
		if z.MaxX < z.MinX || z.MaxY < z.MinY {
			return nil, fmt.Errorf("zone %q: inverted bounds", z.Name)
		}
	}
	return f.Zones, nil
}
