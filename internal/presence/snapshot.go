package presence

import "blogauto/internal/domain"

// Entries returns every presence entry ordered by id
func (s *Simulator) Entries() []domain.PresenceEntry {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entriesLocked()
}

func (s *Simulator) entriesLocked() []domain.PresenceEntry {
	out := make([]domain.PresenceEntry, 0, len(s.entries))
	for _, ind := range s.entries {
		out = append(out, ind.Entry)
	}
	domain.SortEntries(out)
	return out
}

// Entry returns the entry for id
func (s *Simulator) Entry(id string) (domain.PresenceEntry, bool) {
	if s == nil {
		return domain.PresenceEntry{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	ind, ok := s.entries[id]
	return ind.Entry, ok
}

// Len returns the number of presence entries
func (s *Simulator) Len() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Badge returns the visible status badge, if any
func (s *Simulator) Badge() (domain.StatusBadge, bool) {
	if s == nil {
		return domain.StatusBadge{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.badge == nil {
		return domain.StatusBadge{}, false
	}
	return *s.badge, true
}

// Session returns the editing state of the surface
func (s *Simulator) Session() domain.EditorSessionState {
	if s == nil {
		return domain.EditorSessionState{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// PendingTimers returns how many callbacks are scheduled, the recurring tick included
func (s *Simulator) PendingTimers() int {
	if s == nil {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.timers)
	if s.tick != nil {
		n++
	}
	return n
}

// Closed reports whether Teardown has run
func (s *Simulator) Closed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Snapshot captures entries and badge at the current instant
func (s *Simulator) Snapshot() domain.PresenceSnapshot {
	if s == nil {
		return domain.PresenceSnapshot{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := domain.PresenceSnapshot{
		SurfaceID: s.surface.ID(),
		Entries:   s.entriesLocked(),
		TakenAt:   s.clock.Now(),
	}
	if s.badge != nil {
		b := *s.badge
		snap.Badge = &b
	}
	return snap
}
