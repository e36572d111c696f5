package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/l1jgo/spawnpool/internal/core/clock"
	"github.com/l1jgo/spawnpool/internal/core/event"
	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/persist"
)

//go:generate mockgen -destination "mock_journal_test.go" -package $GOPACKAGE -write_package_comment=false github.com/l1jgo/spawnpool/internal/system JournalWriter

// JournalWriter stores a batch of journal entries. *persist.JournalRepo
// implements it.
type JournalWriter interface {
	WriteBatch(ctx context.Context, entries []persist.JournalEntry) error
}

// JournalSystem collects spawn lifecycle events from the bus and writes them
// out every interval ticks, or sooner when a batch fills up. Phase 3 (Persist).
type JournalSystem struct {
	writer    JournalWriter
	clock     clock.Clock
	log       *zap.Logger
	buf       []persist.JournalEntry
	tickCount int
	interval  int // flush every N ticks
	batchSize int
	dropped   int
}

func NewJournalSystem(bus *event.Bus, writer JournalWriter, c clock.Clock, log *zap.Logger, intervalTicks, batchSize int) *JournalSystem {
	if c == nil {
		c = clock.Real()
	}
	if log == nil {
		log = zap.NewNop()
	}
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	s := &JournalSystem{
		writer:    writer,
		clock:     c,
		log:       log,
		buf:       make([]persist.JournalEntry, 0, batchSize),
		interval:  intervalTicks,
		batchSize: batchSize,
	}
	event.Subscribe(bus, s.onSpawnFinished)
	event.Subscribe(bus, s.onEntityReclaimed)
	return s
}

func (s *JournalSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *JournalSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval && len(s.buf) < s.batchSize {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Buffered returns the number of entries waiting to be written.
func (s *JournalSystem) Buffered() int { return len(s.buf) }

// Flush writes every buffered entry now. On failure the entries stay
// buffered for the next attempt, up to a bound after which the oldest are
// dropped.
func (s *JournalSystem) Flush() {
	if len(s.buf) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.writer.WriteBatch(ctx, s.buf); err != nil {
		s.log.Error("journal flush failed", zap.Int("entries", len(s.buf)), zap.Error(err))
		if limit := 8 * s.batchSize; len(s.buf) > limit {
			drop := len(s.buf) - limit
			s.buf = append(s.buf[:0], s.buf[drop:]...)
			s.dropped += drop
			s.log.Warn("journal backlog trimmed", zap.Int("dropped", drop), zap.Int("total_dropped", s.dropped))
		}
		return
	}
	s.log.Debug("journal flushed", zap.Int("entries", len(s.buf)))
	clear(s.buf)
	s.buf = s.buf[:0]
}

func (s *JournalSystem) onSpawnFinished(e event.SpawnFinished) {
	kind := persist.KindSpawned
	if !e.Succeeded {
		kind = persist.KindSpawnFailed
	}
	s.buf = append(s.buf, persist.JournalEntry{
		Kind:       kind,
		TemplateID: string(e.TemplateID),
		MapID:      e.Placement.MapID,
		X:          e.Placement.X,
		Y:          e.Placement.Y,
		Serial:     e.Serial,
		FromPool:   e.FromPool,
		At:         s.clock.Now(),
	})
}

func (s *JournalSystem) onEntityReclaimed(e event.EntityReclaimed) {
	kind := persist.KindDisposed
	if e.Pooled {
		kind = persist.KindPooled
	}
	s.buf = append(s.buf, persist.JournalEntry{
		Kind:       kind,
		TemplateID: string(e.TemplateID),
		At:         s.clock.Now(),
	})
}
