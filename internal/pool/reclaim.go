package pool

import (
	"fmt"
	"strings"
	"time"

	"github.com/l1jgo/spawnpool/internal/core/clock"
	"github.com/l1jgo/spawnpool/internal/entity"
	"go.uber.org/zap"
)

// Topology selects whether reclaim passes are time-sliced. Only clients
// smooth frame time; servers drain every queue each pass.
type Topology int

const (
	TopologyClient Topology = iota
	TopologyServer
)

func (t Topology) String() string {
	if t == TopologyServer {
		return "server"
	}
	return "client"
}

// ParseTopology accepts "client" or "server" (case-insensitive).
func ParseTopology(s string) (Topology, error) {
	switch strings.ToLower(s) {
	case "client", "":
		return TopologyClient, nil
	case "server":
		return TopologyServer, nil
	}
	return TopologyClient, fmt.Errorf("unknown topology %q", s)
}

// Outcome is what happened to a reclaimed entity.
type Outcome int

const (
	Pooled Outcome = iota
	Disposed
)

// Reclaimer returns finished entities to a Store or destroys them, spread
// over frames. Entities queued this frame wait in fresh; entities that only
// got a fast deactivation because the budget ran out wait in carry and are
// handled first on the next pass.
// Accessed only from the game loop goroutine; no locks.
type Reclaimer struct {
	store    *Store
	clock    clock.Clock
	topology Topology
	fresh    []entity.Entity
	carry    []entity.Entity
	notify   func(entity.Entity, Outcome)
	log      *zap.Logger
}

func NewReclaimer(store *Store, c clock.Clock, log *zap.Logger) *Reclaimer {
	if c == nil {
		c = clock.Real()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Reclaimer{
		store: store,
		clock: c,
		fresh: make([]entity.Entity, 0, 64),
		carry: make([]entity.Entity, 0, 64),
		log:   log,
	}
}

func (r *Reclaimer) SetTopology(t Topology) { r.topology = t }
func (r *Reclaimer) Topology() Topology     { return r.topology }

// OnReclaimed registers fn to be told about every pooled or disposed entity.
func (r *Reclaimer) OnReclaimed(fn func(entity.Entity, Outcome)) { r.notify = fn }

// ReleaseOrDispose hands a finished entity back. With immediate set the
// entity is pooled or destroyed before returning; otherwise it is queued for
// the next reclaim pass.
func (r *Reclaimer) ReleaseOrDispose(e entity.Entity, immediate bool) {
	if e == nil {
		return
	}
	if immediate {
		r.reclaim(e)
		return
	}
	r.fresh = append(r.fresh, e)
}

// Tick runs one reclaim pass within budget and returns how many entities were
// fully processed. Budget is checked before each entity; a single entity is
// never interrupted.
func (r *Reclaimer) Tick(budget time.Duration) int {
	if r.topology != TopologyClient {
		return r.Flush()
	}
	deadline := clock.Start(r.clock, budget)
	done := 0

	i := 0
	for ; i < len(r.carry) && deadline.Remaining(); i++ {
		r.reclaim(r.carry[i])
		r.carry[i] = nil
		done++
	}
	r.carry = compact(r.carry, i)

	j := 0
	for ; j < len(r.fresh) && deadline.Remaining(); j++ {
		r.reclaim(r.fresh[j])
		r.fresh[j] = nil
		done++
	}

	if j < len(r.fresh) {
		deferred := len(r.fresh) - j
		for _, e := range r.fresh[j:] {
			entity.FastDeactivate(e)
			r.carry = append(r.carry, e)
		}
		r.log.Debug("reclaim budget exhausted",
			zap.Int("processed", done),
			zap.Int("deferred", deferred),
			zap.Int("carry", len(r.carry)),
		)
	}
	clear(r.fresh)
	r.fresh = r.fresh[:0]
	return done
}

// Flush processes both queues to completion regardless of budget.
func (r *Reclaimer) Flush() int {
	done := 0
	for len(r.carry) > 0 || len(r.fresh) > 0 {
		// reclaim hooks may queue more entities, so swap before walking
		carry, fresh := r.carry, r.fresh
		r.carry, r.fresh = nil, nil
		for _, e := range carry {
			r.reclaim(e)
			done++
		}
		for _, e := range fresh {
			r.reclaim(e)
			done++
		}
	}
	r.carry = make([]entity.Entity, 0, 64)
	r.fresh = make([]entity.Entity, 0, 64)
	return done
}

// Fresh and Carry report queue lengths.
func (r *Reclaimer) Fresh() int { return len(r.fresh) }
func (r *Reclaimer) Carry() int { return len(r.carry) }

// Queued reports whether e is waiting in either queue.
func (r *Reclaimer) Queued(e entity.Entity) bool {
	for _, q := range r.carry {
		if q == e {
			return true
		}
	}
	for _, q := range r.fresh {
		if q == e {
			return true
		}
	}
	return false
}

func (r *Reclaimer) reclaim(e entity.Entity) {
	outcome := Pooled
	if !r.store.TryPool(e) {
		e.Destroy()
		outcome = Disposed
	}
	if r.notify != nil {
		r.notify(e, outcome)
	}
}

// compact drops the first n entries of q in place.
func compact(q []entity.Entity, n int) []entity.Entity {
	if n == 0 {
		return q
	}
	rest := copy(q, q[n:])
	clear(q[rest:])
	return q[:rest]
}
