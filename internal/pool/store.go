package pool

import (
	"github.com/l1jgo/spawnpool/internal/entity"
	"go.uber.org/zap"
)

// Store keeps per-template stacks of deactivated entities for reuse.
// Accessed only from the game loop goroutine; no locks.
type Store struct {
	stacks map[entity.TemplateID][]entity.Entity
	log    *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		stacks: make(map[entity.TemplateID][]entity.Entity, 32),
		log:    log,
	}
}

// TryPool deactivates e and pushes it onto its template's stack. It returns
// false when e is not poolable or the stack is already at the entity's
// MaxPoolSize; older pooled entries are never evicted to make room.
func (s *Store) TryPool(e entity.Entity) bool {
	if !e.Valid() {
		return false
	}
	p, ok := entity.AsPoolable(e)
	if !ok {
		return false
	}
	tpl := e.TemplateID()
	stack := s.stacks[tpl]
	for _, pooled := range stack {
		if pooled == e {
			return true
		}
	}
	if len(stack) >= p.MaxPoolSize() {
		return false
	}
	p.OnAddedToPool()
	entity.Deactivate(e)
	s.stacks[tpl] = append(stack, e)
	return true
}

// Retrieve pops the most recently pooled entity for tpl. The caller is
// responsible for reactivating it.
func (s *Store) Retrieve(tpl entity.TemplateID) (entity.Entity, bool) {
	stack := s.stacks[tpl]
	n := len(stack)
	if n == 0 {
		return nil, false
	}
	e := stack[n-1]
	stack[n-1] = nil
	s.stacks[tpl] = stack[:n-1]
	return e, true
}

// Len returns the number of pooled entities for tpl.
func (s *Store) Len(tpl entity.TemplateID) int {
	return len(s.stacks[tpl])
}

// Total returns the number of pooled entities across all templates.
func (s *Store) Total() int {
	n := 0
	for _, stack := range s.stacks {
		n += len(stack)
	}
	return n
}

// DisposeAll destroys every pooled entity and empties the store. Safe to call
// on an empty store.
func (s *Store) DisposeAll() int {
	n := 0
	for tpl, stack := range s.stacks {
		for _, e := range stack {
			e.Destroy()
			n++
		}
		delete(s.stacks, tpl)
	}
	if n > 0 {
		s.log.Debug("pool disposed", zap.Int("entities", n))
	}
	return n
}
