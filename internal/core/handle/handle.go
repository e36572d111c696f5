package handle

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit generation
// in the upper bits. Generation increments on release to invalidate stale refs.
// The zero Handle is never valid: slot generations start at 1.
type Handle uint64

func New(index uint32, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

// Allocator hands out generational handles backed by a dense slot range and a
// free list. Accessed only from the game loop goroutine; no locks.
type Allocator struct {
	generations []uint32 // retained past size so shrunk slots keep their generation
	inUse       []bool
	freeList    []uint32
	size        uint32
	live        int
}

func NewAllocator() *Allocator {
	return &Allocator{
		generations: make([]uint32, 0, 256),
		inUse:       make([]bool, 0, 256),
		freeList:    make([]uint32, 0, 64),
	}
}

// Acquire returns a handle for the most recently freed slot, or grows the
// slot range by exactly one when the free list is empty.
func (a *Allocator) Acquire() Handle {
	var idx uint32
	if n := len(a.freeList); n > 0 {
		idx = a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
	} else {
		idx = a.size
		a.size++
		if int(idx) >= len(a.generations) {
			a.generations = append(a.generations, 1)
			a.inUse = append(a.inUse, false)
		}
	}
	a.inUse[idx] = true
	a.live++
	return New(idx, a.generations[idx])
}

// Valid reports whether h refers to a live slot with a matching generation.
func (a *Allocator) Valid(h Handle) bool {
	idx := h.Index()
	if idx >= a.size {
		return false
	}
	return a.inUse[idx] && a.generations[idx] == h.Generation()
}

// Release invalidates h and returns its slot to the free list. Returns false
// if h was already stale.
func (a *Allocator) Release(h Handle) bool {
	if !a.Valid(h) {
		return false
	}
	idx := h.Index()
	a.generations[idx]++
	if a.generations[idx] == 0 {
		// wrapped; zero is reserved for the invalid handle
		a.generations[idx] = 1
	}
	a.inUse[idx] = false
	a.freeList = append(a.freeList, idx)
	a.live--
	return true
}

// Shrink drops unused slots from the end of the range. Live slots are never
// moved, so outstanding handles stay valid. Returns the number of slots dropped.
func (a *Allocator) Shrink() int {
	before := a.size
	for a.size > 0 && !a.inUse[a.size-1] {
		a.size--
	}
	dropped := int(before - a.size)
	if dropped == 0 {
		return 0
	}
	kept := a.freeList[:0]
	for _, idx := range a.freeList {
		if idx < a.size {
			kept = append(kept, idx)
		}
	}
	a.freeList = kept
	return dropped
}

// Len is the size of the slot range, live or not.
func (a *Allocator) Len() int { return int(a.size) }

// Live is the number of outstanding handles.
func (a *Allocator) Live() int { return a.live }

// Each calls fn for every live handle in index order.
func (a *Allocator) Each(fn func(Handle)) {
	for i := uint32(0); i < a.size; i++ {
		if a.inUse[i] {
			fn(New(i, a.generations[i]))
		}
	}
}
