package world

import "fmt"

// Location is a tile position on a map.
type Location struct {
	X     int32
	Y     int32
	MapID int16
}

func NewLocation(x, y int32, mapID int16) Location {
	return Location{X: x, Y: y, MapID: mapID}
}

// Within reports whether l lies inside the rectangle spanned by min and max
// (inclusive) on the same map. The map is ignored when min.MapID is negative.
func (l Location) Within(min, max Location) bool {
	if min.MapID >= 0 && l.MapID != min.MapID {
		return false
	}
	return l.X >= min.X && l.X <= max.X && l.Y >= min.Y && l.Y <= max.Y
}

func (l Location) String() string {
	return fmt.Sprintf("(%d,%d,map=%d)", l.X, l.Y, l.MapID)
}
