package mrrb

// remainingSpaceFor returns the number of bytes that may still be reserved
// before this reader would be overrun. Disabled and disabling readers
// contribute the full length, since they no longer constrain reclamation.
func (m *MRRB) remainingSpaceFor(r *Reader) uint64 {
	if !r.constrains() {
		return m.length
	}
	if r.isFull {
		return 0
	}
	owed := m.reservationPtr - r.readCompletePtr
	return m.length - owed
}

// overwritableSpaceFor returns the number of bytes that could be reclaimed
// from this reader if it were cleared. Blocking readers contribute their
// real remaining space (they can't be cleared), Disable/Skip readers
// contribute the full length (they can be).
func (m *MRRB) overwritableSpaceFor(r *Reader) uint64 {
	if r.policy == PolicyBlocking {
		return m.remainingSpaceFor(r)
	}
	return m.length
}

// remainingSpaceLocked computes remaining_space under the caller's lock.
func (m *MRRB) remainingSpaceLocked() uint64 {
	min := m.length
	for _, r := range m.readers {
		if s := m.remainingSpaceFor(r); s < min {
			min = s
		}
	}
	return min
}

func (m *MRRB) overwritableSpaceLocked() uint64 {
	min := m.length
	for _, r := range m.readers {
		if s := m.overwritableSpaceFor(r); s < min {
			min = s
		}
	}
	return min
}

// RemainingSpace returns the number of bytes that can currently be written
// without overrunning any reader. Advisory under concurrent activity.
func (m *MRRB) RemainingSpace() uint64 {
	if m == nil {
		return 0
	}
	if err := m.lock(); err != nil {
		return 0
	}
	s := m.remainingSpaceLocked()
	_ = m.unlock()
	return s
}

// OverwritableSpace returns the number of bytes a write could reclaim if it
// were allowed to clear every clearable (Disable/Skip) reader. Advisory
// under concurrent activity.
func (m *MRRB) OverwritableSpace() uint64 {
	if m == nil {
		return 0
	}
	if err := m.lock(); err != nil {
		return 0
	}
	s := m.overwritableSpaceLocked()
	_ = m.unlock()
	return s
}

// RemainingSpaceFor returns the number of bytes that can currently be
// written without overrunning the reader identified by handle. It returns
// ErrNilReader if no reader with that handle is attached.
func (m *MRRB) RemainingSpaceFor(handle any) (uint64, error) {
	if m == nil {
		return 0, ErrNilMRRB
	}
	if err := m.lock(); err != nil {
		return 0, err
	}
	r := m.findReader(handle)
	if r == nil {
		_ = m.unlock()
		return 0, ErrNilReader
	}
	s := m.remainingSpaceFor(r)
	_ = m.unlock()
	return s, nil
}

// OverwritableSpaceFor returns the number of bytes a write could reclaim
// from the reader identified by handle if it were cleared. It returns
// ErrNilReader if no reader with that handle is attached.
func (m *MRRB) OverwritableSpaceFor(handle any) (uint64, error) {
	if m == nil {
		return 0, ErrNilMRRB
	}
	if err := m.lock(); err != nil {
		return 0, err
	}
	r := m.findReader(handle)
	if r == nil {
		_ = m.unlock()
		return 0, ErrNilReader
	}
	s := m.overwritableSpaceFor(r)
	_ = m.unlock()
	return s, nil
}

// IsEmpty reports whether no reader currently owns any byte.
func (m *MRRB) IsEmpty() bool {
	if m == nil {
		return false
	}
	return m.RemainingSpace() == m.length
}

// IsFull reports whether any enabled reader currently owns the entire
// buffer.
func (m *MRRB) IsFull() bool {
	if m == nil {
		return false
	}
	if err := m.lock(); err != nil {
		return false
	}
	full := false
	for _, r := range m.readers {
		if r.constrains() && r.isFull {
			full = true
			break
		}
	}
	_ = m.unlock()
	return full
}
