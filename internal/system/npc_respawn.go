package system

import (
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/handle"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/data"
	"github.com/l1jgo/spawnpool/internal/entity"
	"github.com/l1jgo/spawnpool/internal/spawn"
	"github.com/l1jgo/spawnpool/internal/world"
)

type pendingRespawn struct {
	origin world.Origin
	ticks  int
}

// NpcRespawnSystem runs NPC lifetimes, delete timers and respawn timers each
// tick. Flow: lifetime runs out → NPC dies → DeleteTimer counts down → NPC is
// handed back to the spawn manager → RespawnTimer counts down → a new spawn
// request is queued at the spawn point, unless the spawn point is still
// crowded by NPCs of the same template. Phase 1 (Update).
type NpcRespawnSystem struct {
	world   *world.State
	mgr     *spawn.Manager
	log     *zap.Logger
	pending []pendingRespawn
	scratch []*world.Npc
}

func NewNpcRespawnSystem(ws *world.State, mgr *spawn.Manager, log *zap.Logger) *NpcRespawnSystem {
	if log == nil {
		log = zap.NewNop()
	}
	return &NpcRespawnSystem{world: ws, mgr: mgr, log: log}
}

func (s *NpcRespawnSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

// SpawnAll queues every copy of every spawn list entry and returns the
// number of requests submitted.
func (s *NpcRespawnSystem) SpawnAll(entries []data.SpawnEntry) int {
	n := 0
	for i := range entries {
		for c := 0; c < entries[i].Count; c++ {
			s.Submit(world.Origin{Entry: &entries[i], Copy: c})
			n++
		}
	}
	return n
}

// Submit queues a spawn request for one copy of a spawn list entry.
func (s *NpcRespawnSystem) Submit(origin world.Origin) handle.Handle {
	e := origin.Entry
	p := s.freeTile(e.Placement(origin.Copy))

	r := spawn.NewRequest(e.Template, p)
	if e.Priority != nil && !math.IsNaN(*e.Priority) {
		r.Priority = *e.Priority
	}
	r.RetryIndefinitely = e.Retry
	r.OnComplete = func(_ handle.Handle, req *spawn.Request) spawn.Disposition {
		if req.Status == spawn.StatusFailed {
			s.log.Debug("spawn list entry failed",
				zap.String("template", string(req.TemplateID)),
				zap.Object("placement", req.Placement),
				zap.Bool("retry", req.RetryIndefinitely),
			)
			if req.RetryIndefinitely {
				return spawn.Keep
			}
			return spawn.Remove
		}
		if npc, ok := req.Entity.(*world.Npc); ok {
			o := origin
			npc.Origin = &o
		}
		return spawn.Remove
	}
	return s.mgr.RequestSpawn(r)
}

// Kill starts the death sequence for an NPC.
func (s *NpcRespawnSystem) Kill(npc *world.Npc) {
	if npc.Dead {
		return
	}
	s.world.NpcDied(npc)
	npc.DeleteTimer = npc.Template.DeleteDelayTicks
}

// Pending returns the number of respawn timers still running.
func (s *NpcRespawnSystem) Pending() int { return len(s.pending) }

func (s *NpcRespawnSystem) Update(_ time.Duration) {
	// releasing removes NPCs from the world list, so walk a copy
	s.scratch = append(s.scratch[:0], s.world.NpcList()...)
	for _, npc := range s.scratch {
		if !npc.Ticking() {
			continue
		}
		if !npc.Dead {
			if npc.LifetimeTimer > 0 {
				npc.LifetimeTimer--
				if npc.LifetimeTimer == 0 {
					s.Kill(npc)
				}
			}
			continue
		}

		// Delete timer: the corpse stays visible until it runs out
		if npc.DeleteTimer > 0 {
			npc.DeleteTimer--
			continue
		}
		s.release(npc)
	}
	clear(s.scratch)

	kept := s.pending[:0]
	for _, p := range s.pending {
		p.ticks--
		if p.ticks > 0 {
			kept = append(kept, p)
			continue
		}
		if s.crowded(p.origin) {
			// check again next tick
			p.ticks = 1
			kept = append(kept, p)
			continue
		}
		s.Submit(p.origin)
	}
	clear(s.pending[len(kept):])
	s.pending = kept
}

func (s *NpcRespawnSystem) release(npc *world.Npc) {
	origin := npc.Origin
	delay := npc.Template.RespawnDelayTicks

	s.world.Leave(npc)
	s.mgr.ReleaseOrDispose(npc, false)

	if origin != nil && delay > 0 {
		s.pending = append(s.pending, pendingRespawn{origin: *origin, ticks: delay})
	}
}

// crowded reports whether the spawn point already has as many live NPCs of
// the entry's template around it as the entry spawns.
func (s *NpcRespawnSystem) crowded(o world.Origin) bool {
	e := o.Entry
	n := s.world.CountNearby(e.Template, e.X, e.Y, e.MapID)
	if n < e.Count {
		return false
	}
	s.log.Debug("respawn deferred, spawn point crowded",
		zap.String("template", string(e.Template)),
		zap.Int16("map", e.MapID),
		zap.Int32("x", e.X),
		zap.Int32("y", e.Y),
		zap.Int("nearby", n),
	)
	return true
}

// freeTile returns p, or the nearest unoccupied tile within a spiral of
// radius 3 around it. If every tile is taken p is returned unchanged and the
// spawn fails at activation.
func (s *NpcRespawnSystem) freeTile(p entity.Placement) entity.Placement {
	if !s.world.IsOccupied(p.X, p.Y, p.MapID, 0) {
		return p
	}
	for r := int32(1); r <= 3; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				tx, ty := p.X+dx, p.Y+dy
				if !s.world.IsOccupied(tx, ty, p.MapID, 0) {
					p.X, p.Y = tx, ty
					return p
				}
			}
		}
	}
	return p
}
