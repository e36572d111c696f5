package spawn

import (
	"fmt"
	"math"
	"time"

	"github.com/l1jgo/spawnpool/internal/core/clock"
	"github.com/l1jgo/spawnpool/internal/core/handle"
	"github.com/l1jgo/spawnpool/internal/entity"
	"github.com/l1jgo/spawnpool/internal/pool"
	"go.uber.org/zap"
)

//go:generate mockgen -destination "mock_factory_test.go" -package $GOPACKAGE -write_package_comment=false github.com/l1jgo/spawnpool/internal/spawn Factory

// Factory builds entities the pool cannot supply. Create may fail for any
// reason by returning an error or a nil entity; FinishSpawn completes
// activation and may leave the entity invalid.
type Factory interface {
	Create(tpl entity.TemplateID, p entity.Placement) (entity.Entity, error)
	FinishSpawn(e entity.Entity, p entity.Placement)
}

// Scheduler services spawn requests in priority order within a per-tick
// time budget, preferring pooled entities over new construction.
// Accessed only from the game loop goroutine; no locks.
type Scheduler struct {
	table   *Table
	store   *pool.Store
	factory Factory
	clock   clock.Clock
	serial  uint64
	notify  func(handle.Handle, Request)
	log     *zap.Logger
}

func NewScheduler(store *pool.Store, factory Factory, c clock.Clock, log *zap.Logger) *Scheduler {
	if c == nil {
		c = clock.Real()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		table:   NewTable(),
		store:   store,
		factory: factory,
		clock:   c,
		log:     log,
	}
}

// OnFinished registers fn to see every request as it reaches a terminal
// state, before its completion callback runs.
func (s *Scheduler) OnFinished(fn func(handle.Handle, Request)) { s.notify = fn }

// Submit queues r as Pending and returns its handle.
func (s *Scheduler) Submit(r Request) handle.Handle {
	if math.IsNaN(r.Priority) {
		r.Priority = NoPriority
	}
	r.Status = StatusPending
	r.Serial = s.nextSerial()
	r.RequestedAt = s.clock.Now()
	r.Entity = nil
	r.Recycled = false
	r.activated = false
	return s.table.Insert(r)
}

// Retry moves a Failed request to RetryPending with a fresh serial number.
// Its priority is kept but no longer used for ordering.
func (s *Scheduler) Retry(h handle.Handle) error {
	r, err := s.table.Get(h)
	if err != nil {
		return fmt.Errorf("retry: %w", err)
	}
	switch r.Status {
	case StatusProcessing:
		return fmt.Errorf("retry %#x: %w", uint64(h), ErrInFlight)
	case StatusFailed:
		s.requeue(r)
		return nil
	}
	return fmt.Errorf("retry %#x (%s): %w", uint64(h), r.Status, ErrNotFailed)
}

// Cancel drops the request and invalidates h. Requests being processed
// cannot be canceled; callers must wait for a terminal state.
func (s *Scheduler) Cancel(h handle.Handle) error {
	r, err := s.table.Get(h)
	if err != nil {
		return fmt.Errorf("cancel: %w", err)
	}
	if r.Status == StatusProcessing {
		s.log.DPanic("cancel of in-flight spawn request",
			zap.Uint64("handle", uint64(h)),
			zap.String("template", string(r.TemplateID)),
		)
		return fmt.Errorf("cancel %#x: %w", uint64(h), ErrInFlight)
	}
	s.table.Remove(h)
	return nil
}

// FinishDeferred completes activation for a request submitted with
// DeferActivation. If the entity is invalid afterwards the request becomes
// Failed; its completion callback is not run a second time.
func (s *Scheduler) FinishDeferred(h handle.Handle) error {
	r, err := s.table.Get(h)
	if err != nil {
		return fmt.Errorf("finish deferred: %w", err)
	}
	if !r.DeferActivation || r.Status != StatusSucceeded || r.Entity == nil || r.activated {
		return fmt.Errorf("finish deferred %#x (%s): %w", uint64(h), r.Status, ErrNotDeferred)
	}
	s.factory.FinishSpawn(r.Entity, r.Placement)
	r.activated = true
	if !r.Entity.Valid() {
		s.log.Warn("deferred activation left entity invalid",
			zap.Uint64("handle", uint64(h)),
			zap.String("template", string(r.TemplateID)),
			zap.Object("placement", r.Placement),
		)
		r.Status = StatusFailed
		r.Entity = nil
	}
	return nil
}

// Get returns the live row for h.
func (s *Scheduler) Get(h handle.Handle) (*Request, error) {
	return s.table.Get(h)
}

func (s *Scheduler) Valid(h handle.Handle) bool { return s.table.Valid(h) }

// Table exposes the request table for inspection.
func (s *Scheduler) Table() *Table { return s.table }

// Tick compacts the table and then services requests until the budget runs
// out or nothing is waiting. The budget is checked before each request, so
// one service call is never cut short. Requests that fail and are requeued
// during the tick wait for the next one. Returns the number serviced.
func (s *Scheduler) Tick(budget time.Duration) int {
	s.table.Shrink()

	deadline := clock.Start(s.clock, budget)
	cutoff := s.serial
	serviced := 0
	for deadline.Remaining() {
		h, ok := s.next(cutoff)
		if !ok {
			break
		}
		s.service(h)
		serviced++
	}
	return serviced
}

// next picks the Pending request with the lowest priority, ties broken by
// serial. Only when nothing is Pending does it fall back to the oldest
// RetryPending request numbered at or below cutoff.
func (s *Scheduler) next(cutoff uint64) (handle.Handle, bool) {
	var (
		pendH, retryH handle.Handle
		pend, retry   *Request
	)
	s.table.Each(func(h handle.Handle, r *Request) {
		switch r.Status {
		case StatusPending:
			if pend == nil || r.Priority < pend.Priority ||
				(r.Priority == pend.Priority && r.Serial < pend.Serial) {
				pendH, pend = h, r
			}
		case StatusRetryPending:
			if r.Serial > cutoff {
				return
			}
			if retry == nil || r.Serial < retry.Serial {
				retryH, retry = h, r
			}
		}
	})
	if pend != nil {
		return pendH, true
	}
	if retry != nil {
		return retryH, true
	}
	return 0, false
}

func (s *Scheduler) service(h handle.Handle) {
	r, err := s.table.Get(h)
	if err != nil {
		return
	}
	r.Status = StatusProcessing

	e := s.fromPool(h, r.TemplateID, r.Placement)
	recycled := e != nil
	if e == nil {
		e = s.construct(h, r)
	}

	// the factory may have submitted requests and grown the table
	r, err = s.table.Get(h)
	if err != nil {
		return
	}
	if e != nil && e.Valid() {
		r.Status = StatusSucceeded
		r.Entity = e
		r.Recycled = recycled
	} else {
		r.Status = StatusFailed
		r.Entity = nil
		r.Recycled = false
	}
	s.complete(h, r)
}

func (s *Scheduler) fromPool(h handle.Handle, tpl entity.TemplateID, p entity.Placement) entity.Entity {
	for {
		e, ok := s.store.Retrieve(tpl)
		if !ok {
			return nil
		}
		if !e.Valid() {
			continue
		}
		entity.Activate(e)
		e.Place(p)
		if pe, ok := e.(entity.Poolable); ok {
			pe.OnRemovedFromPool()
		}
		// the hook may have submitted requests and moved the row
		if r, err := s.table.Get(h); err == nil {
			r.activated = true
		}
		return e
	}
}

func (s *Scheduler) construct(h handle.Handle, r *Request) entity.Entity {
	tpl, placement, deferred, serial := r.TemplateID, r.Placement, r.DeferActivation, r.Serial

	e, err := s.factory.Create(tpl, placement)
	if err != nil || e == nil {
		s.log.Warn("spawn failed",
			zap.Uint64("handle", uint64(h)),
			zap.String("template", string(tpl)),
			zap.Object("placement", placement),
			zap.Uint64("serial", serial),
			zap.Error(err),
		)
		return nil
	}
	if deferred {
		return e
	}
	s.factory.FinishSpawn(e, placement)
	if !e.Valid() {
		s.log.Warn("entity invalid after activation",
			zap.Uint64("handle", uint64(h)),
			zap.String("template", string(tpl)),
			zap.Object("placement", placement),
		)
		return nil
	}
	if r, err := s.table.Get(h); err == nil {
		r.activated = true
	}
	return e
}

// complete runs terminal handling for a request that just left Processing.
func (s *Scheduler) complete(h handle.Handle, r *Request) {
	if s.notify != nil {
		s.notify(h, *r)
	}

	cb := r.OnComplete
	if cb == nil {
		if r.Status == StatusFailed && r.RetryIndefinitely {
			s.requeue(r)
			return
		}
		s.table.Remove(h)
		return
	}

	d := cb(h, r)
	// the callback may have canceled, retried or submitted
	r, err := s.table.Get(h)
	if err != nil {
		return
	}
	if d == Remove {
		s.table.Remove(h)
		return
	}
	if r.Status == StatusFailed && r.RetryIndefinitely {
		s.requeue(r)
	}
}

func (s *Scheduler) requeue(r *Request) {
	r.Status = StatusRetryPending
	r.Serial = s.nextSerial()
	r.RequestedAt = s.clock.Now()
	r.Entity = nil
	r.Recycled = false
	r.activated = false
}

func (s *Scheduler) nextSerial() uint64 {
	s.serial++
	return s.serial
}
