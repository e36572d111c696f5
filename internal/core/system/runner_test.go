package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	name  string
	phase Phase
	log   *[]string
}

func (r recorder) Phase() Phase         { return r.phase }
func (r recorder) Update(time.Duration) { *r.log = append(*r.log, r.name) }

func TestRunnerOrdersByPhaseThenRegistration(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"reclaim", PhaseReclaim, &log})
	r.Register(recorder{"spawn-a", PhaseSpawn, &log})
	r.Register(recorder{"events", PhaseEvents, &log})
	r.Register(recorder{"spawn-b", PhaseSpawn, &log})

	r.Tick(time.Millisecond)
	assert.Equal(t, []string{"events", "spawn-a", "spawn-b", "reclaim"}, log)
	assert.Equal(t, 4, r.Len())
}

func TestTickPhaseRunsOnlyThatPhase(t *testing.T) {
	var log []string
	r := NewRunner()
	r.Register(recorder{"spawn", PhaseSpawn, &log})
	r.Register(recorder{"update", PhaseUpdate, &log})

	r.TickPhase(PhaseUpdate, 0)
	assert.Equal(t, []string{"update"}, log)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "spawn", PhaseSpawn.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
