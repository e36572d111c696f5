package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseEvents  Phase = iota // 0: swap the event bus and deliver last tick's events
	PhaseUpdate               // 1: game logic, respawn timers
	PhaseSpawn                // 2: service spawn requests within the spawn budget
	PhasePersist              // 3: journal flush
	PhaseReclaim              // 4: pool or destroy released entities within the destroy budget
)

var phaseNames = [...]string{"events", "update", "spawn", "persist", "reclaim"}

func (p Phase) String() string {
	if p >= 0 && int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

// System is the interface every game loop system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}
