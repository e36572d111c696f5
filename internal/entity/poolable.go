package entity

// DefaultMaxPoolSize applies when an entity type does not override MaxPoolSize.
const DefaultMaxPoolSize = 10

// Poolable is the optional capability an Entity implements to be recycled.
// Entities without it are never pooled.
type Poolable interface {
	CanBePooled() bool
	OnRemovedFromPool()
	OnAddedToPool()
	MaxPoolSize() int
}

// PoolDefaults can be embedded to get the default Poolable behaviour and
// override only what differs.
type PoolDefaults struct{}

func (PoolDefaults) CanBePooled() bool  { return true }
func (PoolDefaults) OnRemovedFromPool() {}
func (PoolDefaults) OnAddedToPool()     {}
func (PoolDefaults) MaxPoolSize() int   { return DefaultMaxPoolSize }

// AsPoolable returns e's Poolable capability if it has one and it currently
// accepts pooling.
func AsPoolable(e Entity) (Poolable, bool) {
	p, ok := e.(Poolable)
	if !ok || !p.CanBePooled() {
		return nil, false
	}
	return p, true
}
