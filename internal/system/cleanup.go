package system

import (
	"time"

	coresys "github.com/l1jgo/spawnpool/internal/core/system"
	"github.com/l1jgo/spawnpool/internal/spawn"
)

// ReclaimSystem pools or destroys released entities within the destroy
// budget at tick end. Phase 4 (Reclaim).
type ReclaimSystem struct {
	mgr *spawn.Manager
}

func NewReclaimSystem(mgr *spawn.Manager) *ReclaimSystem {
	return &ReclaimSystem{mgr: mgr}
}

func (s *ReclaimSystem) Phase() coresys.Phase { return coresys.PhaseReclaim }

func (s *ReclaimSystem) Update(_ time.Duration) {
	s.mgr.TickReclaim()
}
