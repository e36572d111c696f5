package event

import (
	"time"

	"github.com/l1jgo/spawnpool/internal/core/handle"
	"github.com/l1jgo/spawnpool/internal/entity"
)

// SpawnFinished is emitted whenever a request reaches Succeeded or Failed.
type SpawnFinished struct {
	Handle      handle.Handle
	TemplateID  entity.TemplateID
	Placement   entity.Placement
	Serial      uint64
	Succeeded   bool
	FromPool    bool
	RequestedAt time.Time
}

// EntityReclaimed is emitted when a released entity is pooled or destroyed.
type EntityReclaimed struct {
	TemplateID entity.TemplateID
	Pooled     bool
}
