package core

import "sync/atomic"

// Guard is the in-flight flag for one presentation instance.
// A trigger that finds it set is dropped, not queued.
type Guard struct {
	inFlight atomic.Bool
}

// TryAcquire sets the flag if it is clear and reports whether it did
func (g *Guard) TryAcquire() bool {
	return g.inFlight.CompareAndSwap(false, true)
}

// Release clears the flag
func (g *Guard) Release() {
	g.inFlight.Store(false)
}

// InFlight reports whether a lookup currently holds the guard
func (g *Guard) InFlight() bool {
	return g.inFlight.Load()
}
