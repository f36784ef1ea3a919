// Package reclaim releases the foreign allocations made during one iteration.
package reclaim

import "fmt"

// Stats counts tracked and released handles.
type Stats struct {
	Acquired int
	Released int
}

// Balanced reports whether every tracked handle was released.
func (s Stats) Balanced() bool {
	return s.Acquired == s.Released
}

type entry struct {
	label   string
	release func()
}

// Scope owns the handles of a single iteration. The zero value is ready to use.
// A Scope must not be shared between iterations or goroutines.
type Scope struct {
	entries []entry
	closed  bool
	stats   Stats
}

// Track registers release for a handle that was actually allocated. A nil
// release means nothing was allocated and is ignored.
func (s *Scope) Track(label string, release func()) {
	if release == nil {
		return
	}

	if s.closed {
		panic(fmt.Sprintf("reclaim: %s tracked after Close", label))
	}

	s.entries = append(s.entries, entry{label: label, release: release})
	s.stats.Acquired++
}

// Close releases every tracked handle in reverse order. Calling Close again
// does nothing.
func (s *Scope) Close() {
	if s.closed {
		return
	}

	s.closed = true

	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		s.entries[i] = entry{}

		e.release()
		s.stats.Released++
	}

	s.entries = nil
}

// Stats returns the counters.
func (s *Scope) Stats() Stats {
	return s.stats
}
