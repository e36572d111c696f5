package world

import (
	"sync/atomic"

	"github.com/l1jgo/spawnpool/internal/data"
	"github.com/l1jgo/spawnpool/internal/entity"
)

// npcIDCounter generates unique NPC object IDs.
var npcIDCounter atomic.Int32

func init() {
	npcIDCounter.Store(200_000_000)
}

// NextNpcID returns a unique object ID for an NPC instance.
func NextNpcID() int32 {
	return npcIDCounter.Add(1)
}

// Origin records which spawn list entry produced an NPC, for respawning.
type Origin struct {
	Entry *data.SpawnEntry
	Copy  int
}

// Npc is a spawnable world object. It implements entity.Entity and
// entity.Poolable; pool eligibility comes from its template.
// Accessed only from the game loop goroutine; no locks.
type Npc struct {
	ID       int32 // unique object ID (from NextNpcID)
	Template *data.Template
	X        int32
	Y        int32
	MapID    int16
	Heading  int16
	HP       int32
	MaxHP    int32
	Origin   *Origin // nil for NPCs not from the spawn list

	// State
	Dead          bool
	LifetimeTimer int // ticks until the NPC expires (0 = never)
	DeleteTimer   int // ticks the corpse stays before release

	hidden    bool
	collision bool
	ticking   bool
	destroyed bool
	inWorld   bool

	world   *State
	factory *Factory
}

func (n *Npc) TemplateID() entity.TemplateID { return n.Template.ID }
func (n *Npc) Valid() bool                   { return !n.destroyed }
func (n *Npc) Hidden() bool                  { return n.hidden }
func (n *Npc) Ticking() bool                 { return n.ticking }
func (n *Npc) InWorld() bool                 { return n.inWorld }

func (n *Npc) SetHidden(h bool)  { n.hidden = h }
func (n *Npc) SetTicking(t bool) { n.ticking = t }

// SetCollision toggles tile occupancy for NPCs already in the world.
func (n *Npc) SetCollision(c bool) {
	if n.collision == c {
		return
	}
	n.collision = c
	if n.inWorld {
		if c {
			n.world.entity.Occupy(n.MapID, n.X, n.Y, n.ID)
		} else {
			n.world.entity.Vacate(n.MapID, n.X, n.Y, n.ID)
		}
	}
}

// Place moves the NPC, keeping the world's indices consistent.
func (n *Npc) Place(p entity.Placement) {
	if n.inWorld {
		n.world.move(n, p.X, p.Y, p.MapID, p.Heading)
		return
	}
	n.X, n.Y, n.MapID, n.Heading = p.X, p.Y, p.MapID, p.Heading
}

func (n *Npc) Placement() entity.Placement {
	return entity.Placement{MapID: n.MapID, X: n.X, Y: n.Y, Heading: n.Heading}
}

// Destroy takes the NPC out of the world for good.
func (n *Npc) Destroy() {
	if n.destroyed {
		return
	}
	if n.inWorld {
		n.world.Leave(n)
	}
	n.destroyed = true
}

func (n *Npc) CanBePooled() bool { return n.Template.Poolable }

func (n *Npc) MaxPoolSize() int {
	if n.Template.MaxPoolSize == 0 {
		return entity.DefaultMaxPoolSize
	}
	return n.Template.MaxPoolSize
}

func (n *Npc) OnAddedToPool() {
	if n.inWorld {
		n.world.Leave(n)
	}
	n.Origin = nil
}

// OnRemovedFromPool runs after the scheduler has reactivated and placed the
// NPC. It resets per-life state and re-enters the world; a blocked tile or a
// script veto destroys the NPC so the request fails.
func (n *Npc) OnRemovedFromPool() {
	n.reset(n.Template.HP)
	if n.factory != nil {
		n.factory.recycle(n)
	}
	if n.destroyed {
		return
	}
	if !n.world.Enter(n) {
		n.Destroy()
	}
}

func (n *Npc) reset(hp int32) {
	n.HP = hp
	n.MaxHP = hp
	n.Dead = false
	n.LifetimeTimer = n.Template.LifetimeTicks
	n.DeleteTimer = 0
}
