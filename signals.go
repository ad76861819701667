package stride

import "sync/atomic"

// runSignals is the driver-owned, process-wide interrupt flag and
// checkpoint interval record, handed down to workers by borrow (a plain
// pointer, never copied) and consulted only between days, never mid-batch
// (§5's "interrupt points" rule).
type runSignals struct {
	interrupted     atomic.Bool
	checkpointEvery int
}

func newRunSignals(checkpointEvery int) *runSignals {
	return &runSignals{checkpointEvery: checkpointEvery}
}

// Interrupt requests that the driver stop after the current day
// completes. Safe to call from any goroutine, including an OS signal
// handler installed by cmd/stride.
func (s *runSignals) Interrupt() {
	s.interrupted.Store(true)
}

// ShouldStop reports whether the driver should stop before starting the
// next day.
func (s *runSignals) ShouldStop() bool {
	return s.interrupted.Load()
}

// ShouldCheckpoint reports whether a checkpoint is due after the given
// completed day index.
func (s *runSignals) ShouldCheckpoint(day int) bool {
	if s.checkpointEvery <= 0 {
		return false
	}
	return day > 0 && day%s.checkpointEvery == 0
}
