package world

// tileKey uniquely identifies a tile in the world (map + coordinates).
type tileKey struct {
	MapID int16
	X, Y  int32
}

// EntityGrid is a tile occupancy map for O(1) collision checks.
// Supports multiple occupants per tile.
type EntityGrid struct {
	tiles map[tileKey]map[int32]struct{}
}

func newEntityGrid() *EntityGrid {
	return &EntityGrid{tiles: make(map[tileKey]map[int32]struct{})}
}

// Occupy marks an entity as occupying a tile.
func (g *EntityGrid) Occupy(mapID int16, x, y int32, entityID int32) {
	k := tileKey{MapID: mapID, X: x, Y: y}
	cell := g.tiles[k]
	if cell == nil {
		cell = make(map[int32]struct{}, 1)
		g.tiles[k] = cell
	}
	cell[entityID] = struct{}{}
}

// Vacate removes an entity from a tile.
func (g *EntityGrid) Vacate(mapID int16, x, y int32, entityID int32) {
	k := tileKey{MapID: mapID, X: x, Y: y}
	cell := g.tiles[k]
	if cell != nil {
		delete(cell, entityID)
		if len(cell) == 0 {
			delete(g.tiles, k)
		}
	}
}

// IsOccupied returns true if any entity other than excludeID occupies the tile.
func (g *EntityGrid) IsOccupied(mapID int16, x, y int32, excludeID int32) bool {
	cell := g.tiles[tileKey{MapID: mapID, X: x, Y: y}]
	for id := range cell {
		if id != excludeID {
			return true
		}
	}
	return false
}
