package emu

import "time"

// Stopwatch turns host frame timestamps into the whole-millisecond deltas
// Update takes. The fraction of a millisecond left over from one frame is
// carried into the next, so the timers keep wall-clock pace at any refresh
// rate.
type Stopwatch struct {
	last time.Time
}

// Lap returns the milliseconds elapsed since the previous Lap. The first
// call starts the watch and returns 0.
func (s *Stopwatch) Lap(now time.Time) int {
	if s.last.IsZero() || now.Before(s.last) {
		s.last = now
		return 0
	}
	d := now.Sub(s.last) / time.Millisecond
	s.last = s.last.Add(d * time.Millisecond)
	return int(d)
}
