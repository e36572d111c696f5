package world

import "github.com/l1jgo/spawnpool/internal/entity"

// State tracks all NPCs currently in-world.
// Single-goroutine access only (game loop).
type State struct {
	cells  *cellIndex
	entity *EntityGrid

	npcs    map[int32]*Npc // NPC object ID → Npc
	npcList []*Npc         // all NPCs (for tick iteration)
}

func NewState() *State {
	return &State{
		cells:  newCellIndex(),
		entity: newEntityGrid(),
		npcs:   make(map[int32]*Npc),
	}
}

// Enter registers an NPC in the world at its current position. Returns false,
// leaving the NPC outside, if another entity occupies the tile.
func (s *State) Enter(n *Npc) bool {
	if n.inWorld {
		return true
	}
	if s.entity.IsOccupied(n.MapID, n.X, n.Y, n.ID) {
		return false
	}
	n.world = s
	n.inWorld = true
	s.npcs[n.ID] = n
	s.npcList = append(s.npcList, n)
	s.cells.insert(n.ID, cellOf(n.X, n.Y, n.MapID))
	if n.collision {
		s.entity.Occupy(n.MapID, n.X, n.Y, n.ID)
	}
	return true
}

// Leave removes an NPC from every index. The NPC object stays usable.
func (s *State) Leave(n *Npc) {
	if !n.inWorld {
		return
	}
	s.cells.remove(n.ID, cellOf(n.X, n.Y, n.MapID))
	s.entity.Vacate(n.MapID, n.X, n.Y, n.ID)
	delete(s.npcs, n.ID)
	// swap-delete for O(1)
	for i, m := range s.npcList {
		if m == n {
			last := len(s.npcList) - 1
			s.npcList[i] = s.npcList[last]
			s.npcList[last] = nil
			s.npcList = s.npcList[:last]
			break
		}
	}
	n.inWorld = false
}

// move relocates an NPC and updates the cell index and entity grid.
// All in-world position changes MUST go through here.
func (s *State) move(n *Npc, x, y int32, mapID, heading int16) {
	s.cells.relocate(n.ID, cellOf(n.X, n.Y, n.MapID), cellOf(x, y, mapID))
	if n.collision {
		s.entity.Vacate(n.MapID, n.X, n.Y, n.ID)
		s.entity.Occupy(mapID, x, y, n.ID)
	}
	n.X, n.Y, n.MapID, n.Heading = x, y, mapID, heading
}

// NpcDied releases the dead NPC's tile but keeps it visible as a corpse
// until its delete timer runs out.
func (s *State) NpcDied(n *Npc) {
	n.Dead = true
	n.HP = 0
	s.entity.Vacate(n.MapID, n.X, n.Y, n.ID)
}

// GetNpc returns an NPC by its object ID.
func (s *State) GetNpc(id int32) *Npc {
	return s.npcs[id]
}

// NpcList returns the full NPC list for tick iteration. Callers that may
// remove NPCs while iterating must copy it first.
func (s *State) NpcList() []*Npc {
	return s.npcList
}

func (s *State) NpcCount() int {
	return len(s.npcs)
}

// IsOccupied reports whether an entity other than excludeID blocks the tile.
func (s *State) IsOccupied(x, y int32, mapID int16, excludeID int32) bool {
	return s.entity.IsOccupied(mapID, x, y, excludeID)
}

// CountNearby returns how many live, visible NPCs of template tpl stand
// within crowdRange tiles of (x, y). Corpses do not count.
func (s *State) CountNearby(tpl entity.TemplateID, x, y int32, mapID int16) int {
	count := 0
	s.cells.around(cellOf(x, y, mapID), func(id int32) {
		n := s.npcs[id]
		if n == nil || n.hidden || n.Dead || n.TemplateID() != tpl {
			return
		}
		if chebyshev(n.X-x, n.Y-y) <= crowdRange {
			count++
		}
	})
	return count
}

func chebyshev(dx, dy int32) int32 {
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}
