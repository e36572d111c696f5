package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/spawnpool/internal/entity"
	"github.com/l1jgo/spawnpool/internal/entity/entitytest"
)

func poolable(tpl entity.TemplateID, max int) *entitytest.PoolableEntity {
	e := &entitytest.PoolableEntity{MaxPool: max}
	e.Template = tpl
	entity.Activate(e)
	return e
}

func TestTryPoolDeactivatesAndCallsHook(t *testing.T) {
	s := NewStore(nil)
	e := poolable("goblin", 0)

	require.True(t, s.TryPool(e))
	assert.Equal(t, 1, e.Added)
	assert.True(t, e.Hidden)
	assert.False(t, e.Collision)
	assert.False(t, e.Ticking)
	assert.Equal(t, 1, s.Len("goblin"))
}

func TestTryPoolRejectsNonPoolable(t *testing.T) {
	s := NewStore(nil)

	plain := &entitytest.Entity{Template: "rock"}
	assert.False(t, s.TryPool(plain))

	refusing := poolable("goblin", 0)
	refusing.Refuse = true
	assert.False(t, s.TryPool(refusing))
	assert.Equal(t, 0, refusing.Added)

	dead := poolable("goblin", 0)
	dead.Destroyed = true
	assert.False(t, s.TryPool(dead))

	assert.Equal(t, 0, s.Total())
}

func TestTryPoolRespectsCapacityWithoutEviction(t *testing.T) {
	s := NewStore(nil)
	var kept []*entitytest.PoolableEntity
	for i := 0; i < 3; i++ {
		e := poolable("orc", 3)
		require.True(t, s.TryPool(e))
		kept = append(kept, e)
	}

	extra := poolable("orc", 3)
	assert.False(t, s.TryPool(extra))
	assert.Equal(t, 0, extra.Added)
	assert.False(t, extra.Hidden, "rejected entity is left untouched")
	assert.Equal(t, 3, s.Len("orc"))

	got, ok := s.Retrieve("orc")
	require.True(t, ok)
	assert.Same(t, kept[2], got, "stack is LIFO and the oldest entries survive")
}

func TestTryPoolSameEntityTwice(t *testing.T) {
	s := NewStore(nil)
	e := poolable("goblin", 0)

	require.True(t, s.TryPool(e))
	require.True(t, s.TryPool(e))
	assert.Equal(t, 1, s.Len("goblin"))
	assert.Equal(t, 1, e.Added)
}

func TestRetrieveEmpty(t *testing.T) {
	s := NewStore(nil)
	_, ok := s.Retrieve("nothing")
	assert.False(t, ok)
}

func TestStacksArePerTemplate(t *testing.T) {
	s := NewStore(nil)
	s.TryPool(poolable("a", 0))
	s.TryPool(poolable("b", 0))
	s.TryPool(poolable("b", 0))

	assert.Equal(t, 1, s.Len("a"))
	assert.Equal(t, 2, s.Len("b"))
	assert.Equal(t, 3, s.Total())

	_, ok := s.Retrieve("a")
	require.True(t, ok)
	_, ok = s.Retrieve("a")
	assert.False(t, ok)
}

func TestDisposeAllIsIdempotent(t *testing.T) {
	s := NewStore(nil)
	a := poolable("a", 0)
	b := poolable("b", 0)
	s.TryPool(a)
	s.TryPool(b)

	assert.Equal(t, 2, s.DisposeAll())
	assert.True(t, a.Destroyed)
	assert.True(t, b.Destroyed)
	assert.Equal(t, 0, s.Total())

	assert.NotPanics(t, func() { s.DisposeAll() })
	assert.Equal(t, 0, s.Total())
}
