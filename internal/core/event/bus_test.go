package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventsAreVisibleNextTick(t *testing.T) {
	b := NewBus()
	var got []EntityReclaimed
	Subscribe(b, func(e EntityReclaimed) { got = append(got, e) })

	Emit(b, EntityReclaimed{TemplateID: "goblin", Pooled: true})
	assert.Equal(t, 1, b.Pending())
	assert.Equal(t, 0, b.DispatchAll(), "nothing in front before the swap")
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 1, b.DispatchAll())
	assert.Equal(t, []EntityReclaimed{{TemplateID: "goblin", Pooled: true}}, got)

	b.SwapBuffers()
	assert.Equal(t, 0, b.DispatchAll(), "delivered events are not replayed")
}

func TestHandlersAreKeyedByType(t *testing.T) {
	b := NewBus()
	spawned, reclaimed := 0, 0
	Subscribe(b, func(SpawnFinished) { spawned++ })
	Subscribe(b, func(EntityReclaimed) { reclaimed++ })
	Subscribe(b, func(EntityReclaimed) { reclaimed++ })

	Emit(b, SpawnFinished{Succeeded: true})
	Emit(b, EntityReclaimed{})
	b.SwapBuffers()
	b.DispatchAll()

	assert.Equal(t, 1, spawned)
	assert.Equal(t, 2, reclaimed)
}

func TestEmitOnNilBusIsDropped(t *testing.T) {
	assert.NotPanics(t, func() { Emit[SpawnFinished](nil, SpawnFinished{}) })
}
