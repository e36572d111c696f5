package spawn

import (
	"errors"
	"time"

	"github.com/l1jgo/spawnpool/internal/core/clock"
	"github.com/l1jgo/spawnpool/internal/core/event"
	"github.com/l1jgo/spawnpool/internal/core/handle"
	"github.com/l1jgo/spawnpool/internal/entity"
	"github.com/l1jgo/spawnpool/internal/pool"
	"go.uber.org/zap"
)

// Options configures a Manager. Zero budgets service nothing; set them from
// config before the first tick.
type Options struct {
	SpawnBudget   time.Duration
	DestroyBudget time.Duration
	Topology      pool.Topology
	Clock         clock.Clock
	Bus           *event.Bus // optional; receives SpawnFinished and EntityReclaimed
	Log           *zap.Logger
}

// Stats is a snapshot of queue depths.
type Stats struct {
	Pending    int
	Retrying   int
	Waiting    int // terminal rows kept by their callbacks
	Slots      int
	Pooled     int
	ReclaimNew int
	ReclaimOld int
}

// Manager is the spawn subsystem: request scheduling, pooling and reclaim,
// each sliced by its own per-tick budget. Every instance owns its own pool,
// so independent managers can coexist.
// Accessed only from the game loop goroutine; no locks.
type Manager struct {
	sched         *Scheduler
	store         *pool.Store
	reclaim       *pool.Reclaimer
	spawnBudget   time.Duration
	destroyBudget time.Duration
	bus           *event.Bus
	log           *zap.Logger
}

func NewManager(factory Factory, opts Options) *Manager {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	c := opts.Clock
	if c == nil {
		c = clock.Real()
	}
	store := pool.NewStore(log.Named("pool"))
	m := &Manager{
		sched:         NewScheduler(store, factory, c, log.Named("spawn")),
		store:         store,
		reclaim:       pool.NewReclaimer(store, c, log.Named("reclaim")),
		spawnBudget:   opts.SpawnBudget,
		destroyBudget: opts.DestroyBudget,
		bus:           opts.Bus,
		log:           log,
	}
	m.reclaim.SetTopology(opts.Topology)
	if m.bus != nil {
		m.sched.OnFinished(m.emitFinished)
		m.reclaim.OnReclaimed(m.emitReclaimed)
	}
	return m
}

// RequestSpawn queues r and returns a handle for tracking it.
func (m *Manager) RequestSpawn(r Request) handle.Handle {
	return m.sched.Submit(r)
}

// RetrySpawn requeues a Failed request behind all Pending ones.
func (m *Manager) RetrySpawn(h handle.Handle) error {
	return m.sched.Retry(h)
}

// CancelSpawn drops a request that is not being processed. Returns false for
// stale handles and in-flight requests.
func (m *Manager) CancelSpawn(h handle.Handle) bool {
	if err := m.sched.Cancel(h); err != nil {
		if !errors.Is(err, ErrInvalidHandle) {
			m.log.Warn("cancel refused", zap.Error(err))
		}
		return false
	}
	return true
}

// FinishDeferred completes activation of a request submitted with
// DeferActivation.
func (m *Manager) FinishDeferred(h handle.Handle) error {
	return m.sched.FinishDeferred(h)
}

// Request returns a copy of the request behind h.
func (m *Manager) Request(h handle.Handle) (Request, bool) {
	r, err := m.sched.Get(h)
	if err != nil {
		return Request{}, false
	}
	return *r, true
}

// Valid reports whether h still names a live request.
func (m *Manager) Valid(h handle.Handle) bool { return m.sched.Valid(h) }

// ReleaseOrDispose hands back an entity the caller is done with.
func (m *Manager) ReleaseOrDispose(e entity.Entity, immediate bool) {
	m.reclaim.ReleaseOrDispose(e, immediate)
}

// DisposeAll destroys every pooled entity.
func (m *Manager) DisposeAll() int {
	return m.store.DisposeAll()
}

// Shutdown drains the reclaim queues and then empties the pool.
func (m *Manager) Shutdown() {
	flushed := m.reclaim.Flush()
	disposed := m.store.DisposeAll()
	m.log.Info("spawn manager shut down",
		zap.Int("reclaimed", flushed),
		zap.Int("disposed", disposed),
		zap.Int("open_requests", m.sched.Table().Len()),
	)
}

// Tick runs one spawn pass and one reclaim pass. dt is unused: both passes
// are bounded by wall-clock budgets, not simulated time.
func (m *Manager) Tick(_ time.Duration) {
	m.TickSpawn()
	m.TickReclaim()
}

// TickSpawn runs the spawn pass alone and returns the number of requests
// serviced.
func (m *Manager) TickSpawn() int {
	return m.sched.Tick(m.spawnBudget)
}

// TickReclaim runs the reclaim pass alone and returns the number of entities
// pooled or destroyed.
func (m *Manager) TickReclaim() int {
	return m.reclaim.Tick(m.destroyBudget)
}

func (m *Manager) SetSpawnBudget(d time.Duration)   { m.spawnBudget = d }
func (m *Manager) SetDestroyBudget(d time.Duration) { m.destroyBudget = d }
func (m *Manager) SpawnBudget() time.Duration       { return m.spawnBudget }
func (m *Manager) DestroyBudget() time.Duration     { return m.destroyBudget }
func (m *Manager) SetTopology(t pool.Topology)      { m.reclaim.SetTopology(t) }

// Pool exposes the pool store for inspection.
func (m *Manager) Pool() *pool.Store { return m.store }

// Reclaimer exposes the reclaim queues for inspection.
func (m *Manager) Reclaimer() *pool.Reclaimer { return m.reclaim }

func (m *Manager) Stats() Stats {
	st := Stats{
		Slots:      m.sched.Table().Slots(),
		Pooled:     m.store.Total(),
		ReclaimNew: m.reclaim.Fresh(),
		ReclaimOld: m.reclaim.Carry(),
	}
	m.sched.Table().Each(func(_ handle.Handle, r *Request) {
		switch r.Status {
		case StatusPending:
			st.Pending++
		case StatusRetryPending:
			st.Retrying++
		case StatusSucceeded, StatusFailed:
			st.Waiting++
		}
	})
	return st
}

func (m *Manager) emitFinished(h handle.Handle, r Request) {
	event.Emit(m.bus, event.SpawnFinished{
		Handle:      h,
		TemplateID:  r.TemplateID,
		Placement:   r.Placement,
		Serial:      r.Serial,
		Succeeded:   r.Status == StatusSucceeded,
		FromPool:    r.Recycled,
		RequestedAt: r.RequestedAt,
	})
}

func (m *Manager) emitReclaimed(e entity.Entity, o pool.Outcome) {
	event.Emit(m.bus, event.EntityReclaimed{
		TemplateID: e.TemplateID(),
		Pooled:     o == pool.Pooled,
	})
}
