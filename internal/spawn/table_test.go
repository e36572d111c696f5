package spawn

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableInsertGetRemove(t *testing.T) {
	tb := NewTable()
	h := tb.Insert(NewRequest("goblin", placementAt(1, 2)))

	r, err := tb.Get(h)
	require.NoError(t, err)
	assert.Equal(t, "goblin", string(r.TemplateID))
	assert.Equal(t, 1, tb.Len())

	require.True(t, tb.Remove(h))
	_, err = tb.Get(h)
	assert.True(t, errors.Is(err, ErrInvalidHandle))
	assert.False(t, tb.Remove(h))
	assert.Equal(t, 0, tb.Len())
}

func TestTableRemoveResetsRowBeforeReuse(t *testing.T) {
	tb := NewTable()
	req := NewRequest("goblin", placementAt(1, 2))
	req.RetryIndefinitely = true
	req.Priority = 3
	h := tb.Insert(req)
	tb.Remove(h)

	// the raw slot is zeroed even before anything reuses it
	assert.Equal(t, Request{}, tb.rows[h.Index()])

	h2 := tb.Insert(NewRequest("orc", placementAt(0, 0)))
	require.Equal(t, h.Index(), h2.Index())
	r, err := tb.Get(h2)
	require.NoError(t, err)
	assert.False(t, r.RetryIndefinitely)
	assert.Equal(t, NoPriority, r.Priority)
}

func TestTableShrinkKeepsLiveRows(t *testing.T) {
	tb := NewTable()
	h0 := tb.Insert(NewRequest("a", placementAt(0, 0)))
	h1 := tb.Insert(NewRequest("b", placementAt(0, 0)))
	h2 := tb.Insert(NewRequest("c", placementAt(0, 0)))
	tb.Remove(h1)
	tb.Remove(h2)

	assert.Equal(t, 2, tb.Shrink())
	assert.Equal(t, 1, tb.Slots())
	assert.Len(t, tb.rows, 1)

	r, err := tb.Get(h0)
	require.NoError(t, err)
	assert.Equal(t, "a", string(r.TemplateID))

	h3 := tb.Insert(NewRequest("d", placementAt(0, 0)))
	assert.Equal(t, uint32(1), h3.Index())
	assert.False(t, tb.Valid(h1))
}
