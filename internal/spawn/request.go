package spawn

import (
	"math"
	"time"

	"github.com/l1jgo/spawnpool/internal/core/handle"
	"github.com/l1jgo/spawnpool/internal/entity"
)

// Status is the lifecycle state of a spawn request.
type Status uint8

const (
	StatusNone         Status = iota // slot unused
	StatusPending                    // waiting for first service
	StatusProcessing                 // claimed by the scheduler this tick
	StatusSucceeded                  // entity produced
	StatusFailed                     // factory gave nothing or entity went invalid
	StatusRetryPending               // re-queued after failure, behind every Pending request
)

var statusNames = [...]string{"none", "pending", "processing", "succeeded", "failed", "retry_pending"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Terminal reports whether the request has finished a service attempt.
func (s Status) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// Disposition is returned by a completion callback.
type Disposition uint8

const (
	Keep   Disposition = iota // leave the row in the table
	Remove                    // reset the row and release its handle
)

// Callback runs once per terminal transition. r is only valid for the
// duration of the call.
type Callback func(h handle.Handle, r *Request) Disposition

// NoPriority sorts after every explicit priority.
const NoPriority = math.MaxFloat64

// Request is one row of the request table.
type Request struct {
	TemplateID        entity.TemplateID
	Placement         entity.Placement
	Priority          float64 // lower is serviced sooner
	RetryIndefinitely bool    // resubmit automatically on failure
	DeferActivation   bool    // caller finishes activation via Manager.FinishDeferred
	OnComplete        Callback

	// Owned by the scheduler.
	Status      Status
	Serial      uint64
	RequestedAt time.Time
	Entity      entity.Entity
	Recycled    bool // Entity came from the pool rather than the factory

	activated bool
}

// NewRequest returns a request for tpl at p with no priority.
func NewRequest(tpl entity.TemplateID, p entity.Placement) Request {
	return Request{
		TemplateID: tpl,
		Placement:  p,
		Priority:   NoPriority,
	}
}
