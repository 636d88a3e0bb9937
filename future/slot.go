package future

import "sync"

// continuationEntry is one registered continuation, normalized to a zero-arg
// closure regardless of the caller-facing shape (OnSuccess/OnError/OnResult/
// ContinueWith/awaiter resume) that produced it. options and ctx are
// consulted by ContinuationDispatch, not by the slot itself.
type continuationEntry struct {
	options ContinuationOptions
	ctx     *SyncContext
	async   bool
	invoke  func()
	onSkip  func()
}

// continuationSlot is the lock-free-in-spirit, mutex-guarded-in-practice
// store of continuations registered on a promise. The data model (§4.2 of
// this module's design) calls for an allocation-free empty→single→list→sealed
// progression guarded by CAS; this implementation collapses that progression
// to a short-critical-section mutex around a slice, since Go's mutex is cheap
// enough that the extra states buy nothing measurable here and the resulting
// code is far easier to audit for the at-most-once dispatch invariant. See
// DESIGN.md for the full rationale.
type continuationSlot struct {
	mu      sync.Mutex
	entries []*continuationEntry
	sealed  bool
}

// add registers e. Returns false if the slot is already sealed (promise
// completed), in which case the caller must dispatch e inline itself.
func (s *continuationSlot) add(e *continuationEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}

	s.entries = append(s.entries, e)

	return true
}

// remove unregisters e by identity. Returns false if e was never present or
// the slot is already sealed (in which case e has already been, or is about
// to be, dispatched and cannot be retracted).
func (s *continuationSlot) remove(e *continuationEntry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return false
	}

	for i, cur := range s.entries {
		if cur == e {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)

			return true
		}
	}

	return false
}

// drain seals the slot and returns every entry registered so far, in
// registration order, for exactly-once dispatch by the caller. A second call
// returns nil, since the slot is already sealed.
func (s *continuationSlot) drain() []*continuationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sealed {
		return nil
	}

	out := s.entries
	s.entries = nil
	s.sealed = true

	return out
}

func (s *continuationSlot) isSealed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sealed
}
