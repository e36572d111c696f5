package persist

import (
	"context"
	"fmt"
	"time"
)

// Journal entry kinds.
const (
	KindSpawned     = "spawned"
	KindSpawnFailed = "spawn_failed"
	KindPooled      = "pooled"
	KindDisposed    = "disposed"
)

// JournalEntry is one spawn lifecycle record.
type JournalEntry struct {
	Kind       string
	TemplateID string
	MapID      int16
	X          int32
	Y          int32
	Serial     uint64
	FromPool   bool
	At         time.Time
}

type JournalRepo struct {
	db *DB
}

func NewJournalRepo(db *DB) *JournalRepo {
	return &JournalRepo{db: db}
}

// WriteBatch atomically writes a batch of journal entries in a single
// transaction.
func (r *JournalRepo) WriteBatch(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO spawn_journal (kind, template_id, map_id, x, y, serial, from_pool, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			e.Kind, e.TemplateID, e.MapID, e.X, e.Y, int64(e.Serial), e.FromPool, e.At,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("journal commit: %w", err)
	}
	return nil
}

// Prune deletes entries older than before and returns how many were removed.
func (r *JournalRepo) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM spawn_journal WHERE created_at < $1`, before,
	)
	if err != nil {
		return 0, fmt.Errorf("journal prune: %w", err)
	}
	return tag.RowsAffected(), nil
}
