package system

import (
	"time"

	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/spawn"
)

// SpawnSystem services queued spawn requests within the spawn budget.
// Phase 2 (Spawn).
type SpawnSystem struct {
	mgr *spawn.Manager
}

func NewSpawnSystem(mgr *spawn.Manager) *SpawnSystem {
	return &SpawnSystem{mgr: mgr}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update(_ time.Duration) {
	s.mgr.TickSpawn()
}
