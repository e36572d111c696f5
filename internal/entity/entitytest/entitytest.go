// Package entitytest provides in-memory entities and factories for tests.
package entitytest

import (
	"errors"
	"time"

	"github.com/l1jgo/spawnpool/internal/core/clock"
	"github.com/l1jgo/spawnpool/internal/entity"
)

// Entity records every state change made to it.
type Entity struct {
	Template  entity.TemplateID
	Serial    int
	Hidden    bool
	Collision bool
	Ticking   bool
	Placement entity.Placement
	Destroyed bool
	Broken    bool // Valid reports false while set

	Placed int
}

func (e *Entity) TemplateID() entity.TemplateID { return e.Template }
func (e *Entity) Valid() bool                   { return !e.Destroyed && !e.Broken }
func (e *Entity) SetHidden(h bool)              { e.Hidden = h }
func (e *Entity) SetCollision(c bool)           { e.Collision = c }
func (e *Entity) SetTicking(t bool)             { e.Ticking = t }
func (e *Entity) Destroy()                      { e.Destroyed = true }

func (e *Entity) Place(p entity.Placement) {
	e.Placement = p
	e.Placed++
}

// Active reports whether the entity is fully active.
func (e *Entity) Active() bool { return !e.Hidden && e.Collision && e.Ticking }

// PoolableEntity is an Entity with the Poolable capability and hook counters.
type PoolableEntity struct {
	Entity
	MaxPool int // 0 means entity.DefaultMaxPoolSize
	Refuse  bool
	Added   int
	Removed int
	// OnRemove runs inside OnRemovedFromPool when set.
	OnRemove func()
}

func (e *PoolableEntity) CanBePooled() bool { return !e.Refuse }
func (e *PoolableEntity) OnAddedToPool()    { e.Added++ }

func (e *PoolableEntity) OnRemovedFromPool() {
	e.Removed++
	if e.OnRemove != nil {
		e.OnRemove()
	}
}

func (e *PoolableEntity) MaxPoolSize() int {
	if e.MaxPool == 0 {
		return entity.DefaultMaxPoolSize
	}
	return e.MaxPool
}

// ErrRefused is returned by Factory for templates listed in Fail.
var ErrRefused = errors.New("entitytest: template refused")

// Factory builds PoolableEntity values (or plain Entity values for templates
// in Plain). Each Create advances Clock by Cost when both are set, which makes
// budgeted loops deterministic.
type Factory struct {
	Clock *clock.Manual
	Cost  time.Duration
	Fail  map[entity.TemplateID]bool
	Plain map[entity.TemplateID]bool
	// BreakOnFinish makes FinishSpawn leave the entity invalid.
	BreakOnFinish bool

	Created  []entity.Entity
	Finished int
}

func (f *Factory) Create(tpl entity.TemplateID, p entity.Placement) (entity.Entity, error) {
	if f.Clock != nil {
		f.Clock.Advance(f.Cost)
	}
	if f.Fail[tpl] {
		return nil, ErrRefused
	}
	base := Entity{Template: tpl, Serial: len(f.Created) + 1, Hidden: true}
	base.Place(p)
	var e entity.Entity
	if f.Plain[tpl] {
		plain := base
		e = &plain
	} else {
		e = &PoolableEntity{Entity: base}
	}
	f.Created = append(f.Created, e)
	return e, nil
}

func (f *Factory) FinishSpawn(e entity.Entity, _ entity.Placement) {
	f.Finished++
	if f.BreakOnFinish {
		switch v := e.(type) {
		case *Entity:
			v.Broken = true
		case *PoolableEntity:
			v.Broken = true
		}
		return
	}
	entity.Activate(e)
}
