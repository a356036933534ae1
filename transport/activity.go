// Package transport implements the point-to-point link fabric that carries
// wire.Frame values between device ports, plus the in-flight/pending
// activity counters the controller polls to detect quiescence.
package transport

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/flowmesh/netsim/perf"
)

// Activity tracks the two quantities spec.md §4.6/§5 define quiescence
// over: InFlight counts frames that have been sent on a Link but not yet
// picked up by the receiving actor's dispatch loop, and Pending counts work
// an actor has committed to but parked — an IP frame waiting on ARP, or a
// still-ticking spanning-tree convergence timer. Quiescence is exactly
// InFlight == 0 && Pending == 0.
type Activity struct {
	inFlight atomic.Int64
	pending  atomic.Int64
}

func NewActivity() *Activity { return &Activity{} }

func (a *Activity) IncInFlight() {
	a.inFlight.Add(1)
	perf.MessagesInFlight.Add(1)
}

func (a *Activity) DecInFlight() {
	a.inFlight.Add(-1)
	perf.MessagesInFlight.Add(-1)
}

func (a *Activity) IncPending() {
	a.pending.Add(1)
	perf.PendingResolutions.Add(1)
}

func (a *Activity) DecPending() {
	a.pending.Add(-1)
	perf.PendingResolutions.Add(-1)
}

// Idle reports whether the counters currently read zero. It is a snapshot,
// not a guarantee: WaitQuiescence below samples it twice to settle races.
func (a *Activity) Idle() bool {
	return a.inFlight.Load() == 0 && a.pending.Load() == 0
}

// WaitQuiescence blocks until Idle has held for two consecutive samples
// settleDelay apart, or ctx is cancelled. Two samples rather than one gives
// the last actor's dispatch loop a chance to finish decrementing before the
// controller trusts the zero it saw.
func WaitQuiescence(ctx context.Context, a *Activity, settleDelay time.Duration) bool {
	stableRounds := 0
	for {
		if a.Idle() {
			stableRounds++
			if stableRounds >= 2 {
				return true
			}
		} else {
			stableRounds = 0
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(settleDelay):
		}
	}
}
