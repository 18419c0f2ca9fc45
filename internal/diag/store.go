package diag

// Store is the per-unit error store. One Store belongs to exactly one
// declaration's link record; it only ever grows during forward analysis
// and only shrinks through Truncate during checkpoint rollback.
type Store struct {
	items []Diagnostic
}

// Add appends a diagnostic. Per-unit stores are never capped: a unit's
// analysis continues after errors so one pass surfaces everything.
func (s *Store) Add(d Diagnostic) {
	s.items = append(s.items, d)
}

func (s *Store) Len() int {
	return len(s.items)
}

// Items returns a read-only view of the stored diagnostics.
func (s *Store) Items() []Diagnostic {
	return s.items
}

// Truncate drops every diagnostic past n. Used by checkpoint rollback.
func (s *Store) Truncate(n int) {
	if n < len(s.items) {
		s.items = s.items[:n]
	}
}

// Take moves the contents out, leaving an empty store behind. Part of the
// detach protocol: a resolver temporarily owns the unit's errors while the
// rest of the store stays shared.
func (s *Store) Take() Store {
	out := Store{items: s.items}
	s.items = nil
	return out
}

// IsUntouched reports whether the store has been written to since it was
// last taken. Reabsorbing into a touched store is an internal defect.
func (s *Store) IsUntouched() bool {
	return s.items == nil
}

func (s *Store) HasErrors() bool {
	for i := range s.items {
		if s.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}
