package handle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroHandleIsInvalid(t *testing.T) {
	a := NewAllocator()
	a.Acquire()

	assert.False(t, a.Valid(Handle(0)))
	assert.True(t, Handle(0).IsZero())
}

func TestAcquireHandlesAreUnique(t *testing.T) {
	a := NewAllocator()
	seen := make(map[Handle]struct{})
	for i := 0; i < 100; i++ {
		h := a.Acquire()
		_, dup := seen[h]
		require.False(t, dup, "duplicate handle %x", uint64(h))
		seen[h] = struct{}{}
	}
	assert.Equal(t, 100, a.Len())
	assert.Equal(t, 100, a.Live())
}

func TestReleaseInvalidatesAndReusesSlot(t *testing.T) {
	a := NewAllocator()
	h1 := a.Acquire()
	a.Acquire()

	require.True(t, a.Release(h1))
	assert.False(t, a.Valid(h1))
	assert.False(t, a.Release(h1), "double release must fail")

	h3 := a.Acquire()
	assert.Equal(t, h1.Index(), h3.Index(), "freed slot is reused")
	assert.Greater(t, h3.Generation(), h1.Generation())
	assert.False(t, a.Valid(h1))
	assert.True(t, a.Valid(h3))
	assert.Equal(t, 2, a.Len(), "no growth while the free list has entries")
}

func TestStaleHandleNeverRevalidates(t *testing.T) {
	a := NewAllocator()
	var released []Handle
	h := a.Acquire()
	for i := 0; i < 50; i++ {
		require.True(t, a.Release(h))
		released = append(released, h)
		h = a.Acquire()
		for _, old := range released {
			require.False(t, a.Valid(old))
		}
	}
}

func TestOutOfRangeHandleIsInvalid(t *testing.T) {
	a := NewAllocator()
	a.Acquire()

	assert.False(t, a.Valid(New(5, 1)))
	assert.False(t, a.Release(New(5, 1)))
}

func TestShrinkDropsTrailingFreeSlotsOnly(t *testing.T) {
	a := NewAllocator()
	h0 := a.Acquire()
	h1 := a.Acquire()
	h2 := a.Acquire()
	h3 := a.Acquire()

	a.Release(h1)
	a.Release(h3)
	a.Release(h2)

	assert.Equal(t, 3, a.Shrink())
	assert.Equal(t, 1, a.Len())
	assert.True(t, a.Valid(h0))
	assert.Equal(t, 0, a.Shrink())

	next := a.Acquire()
	assert.Equal(t, uint32(1), next.Index(), "growth resumes after the live range")
}

func TestShrinkKeepsGenerationsOfDroppedSlots(t *testing.T) {
	a := NewAllocator()
	a.Acquire()
	h1 := a.Acquire()
	a.Release(h1)
	a.Shrink()

	regrown := a.Acquire()
	require.Equal(t, h1.Index(), regrown.Index())
	assert.False(t, a.Valid(h1))
	assert.NotEqual(t, h1, regrown)
}

func TestEachVisitsLiveHandlesInIndexOrder(t *testing.T) {
	a := NewAllocator()
	h0 := a.Acquire()
	h1 := a.Acquire()
	h2 := a.Acquire()
	a.Release(h1)

	var got []Handle
	a.Each(func(h Handle) { got = append(got, h) })
	assert.Equal(t, []Handle{h0, h2}, got)
}
