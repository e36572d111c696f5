package world

// crowdRange is the Chebyshev radius CountNearby inspects. A cell is as wide
// as the range, so the 3x3 block of cells around a point covers it.
const (
	crowdRange = 20
	cellSize   = crowdRange
)

type cellKey struct {
	mapID  int16
	cx, cy int32
}

func cellOf(x, y int32, mapID int16) cellKey {
	return cellKey{mapID: mapID, cx: floorDiv(x), cy: floorDiv(y)}
}

func floorDiv(v int32) int32 {
	if v < 0 {
		return (v - cellSize + 1) / cellSize
	}
	return v / cellSize
}

// cellIndex buckets in-world NPC ids by map cell.
// Accessed only from the game loop goroutine; no locks.
type cellIndex struct {
	cells map[cellKey]map[int32]struct{}
}

func newCellIndex() *cellIndex {
	return &cellIndex{cells: make(map[cellKey]map[int32]struct{})}
}

func (c *cellIndex) insert(id int32, k cellKey) {
	set := c.cells[k]
	if set == nil {
		set = make(map[int32]struct{})
		c.cells[k] = set
	}
	set[id] = struct{}{}
}

func (c *cellIndex) remove(id int32, k cellKey) {
	set := c.cells[k]
	if set == nil {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(c.cells, k)
	}
}

func (c *cellIndex) relocate(id int32, from, to cellKey) {
	if from == to {
		return
	}
	c.remove(id, from)
	c.insert(id, to)
}

// around calls fn for every id in the 3x3 block of cells centred on k.
// Callers filter by exact distance.
func (c *cellIndex) around(k cellKey, fn func(id int32)) {
	for dx := int32(-1); dx <= 1; dx++ {
		for dy := int32(-1); dy <= 1; dy++ {
			for id := range c.cells[cellKey{mapID: k.mapID, cx: k.cx + dx, cy: k.cy + dy}] {
				fn(id)
			}
		}
	}
}

func (c *cellIndex) len() int { return len(c.cells) }
