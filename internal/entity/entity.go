package entity

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// TemplateID identifies what kind of entity to create. The spawn core never
// interprets it beyond using it as a pool key.
type TemplateID string

// Placement describes where a new or recycled entity goes. The spawn core
// passes it through to the factory and the entity and only logs it.
type Placement struct {
	MapID   int16
	X       int32
	Y       int32
	Heading int16
}

func (p Placement) String() string {
	return fmt.Sprintf("map=%d (%d,%d) heading=%d", p.MapID, p.X, p.Y, p.Heading)
}

// MarshalLogObject lets failures carry the full placement as a zap field.
func (p Placement) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt16("map_id", p.MapID)
	enc.AddInt32("x", p.X)
	enc.AddInt32("y", p.Y)
	enc.AddInt16("heading", p.Heading)
	return nil
}

// Entity is the runtime object the spawner creates, recycles and destroys.
// Implementations must be comparable (pointer types in practice): pools
// compare entities by identity.
type Entity interface {
	TemplateID() TemplateID
	// Valid is false once the entity has been destroyed or otherwise became
	// unusable (e.g. it failed to enter the world).
	Valid() bool
	SetHidden(hidden bool)
	SetCollision(enabled bool)
	SetTicking(enabled bool)
	Place(p Placement)
	Destroy()
}

// Activate re-enables everything Deactivate turned off.
func Activate(e Entity) {
	e.SetHidden(false)
	e.SetCollision(true)
	e.SetTicking(true)
}

// Deactivate is the full deactivation applied before an entity is pooled.
func Deactivate(e Entity) {
	e.SetCollision(false)
	e.SetTicking(false)
	e.SetHidden(true)
}

// FastDeactivate only hides the entity. Used when the reclaim budget runs out
// so that visible state is corrected this frame and the rest waits.
func FastDeactivate(e Entity) {
	e.SetHidden(true)
}
