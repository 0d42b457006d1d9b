package mrrb

// EnableReader (re-)enables a reader, seating its cursors onto the MRRB's
// current reservation point and clearing IsFull.
// Bytes written to the MRRB while the reader was disabled are not
// delivered to it.
func (m *MRRB) EnableReader(r *Reader) error {
	if m == nil {
		return ErrNilMRRB
	}
	if r == nil {
		return ErrNilReader
	}
	if err := m.lock(); err != nil {
		return err
	}
	r.state = stateIdle
	r.isFull = false
	r.readPtr = m.reservationPtr
	r.readCompletePtr = m.reservationPtr
	return m.unlock()
}

// DisableReader disables a reader. If the reader has an outstanding notify
// (state Active) and an abort callback configured, the reader transitions
// through Disabling and must call AbortComplete (or DisableReader again,
// which is a no-op once already disabled) to finish; otherwise it goes
// straight to Disabled.
func (m *MRRB) DisableReader(r *Reader) error {
	if m == nil {
		return ErrNilMRRB
	}
	if r == nil {
		return ErrNilReader
	}
	if err := m.lock(); err != nil {
		return err
	}

	var doAbort bool
	switch r.state {
	case stateActive:
		if r.abort != nil {
			r.state = stateDisabling
			doAbort = true
		} else {
			r.state = stateDisabled
		}
	case stateAborting:
		// An abort is already in flight; let it finish via AbortComplete,
		// which then sees Disabling and lands on Disabled.
		r.state = stateDisabling
	case stateDisabling:
		// A second DisableReader concludes the in-flight abort, as
		// AbortComplete would.
		r.state = stateDisabled
	case stateDisabled:
		// Idempotent.
	default: // Idle, Aborted
		r.state = stateDisabled
	}

	if err := m.unlock(); err != nil {
		return err
	}
	if doAbort {
		r.abort(r.handle)
	}
	return nil
}

func (m *MRRB) lock() error {
	if err := m.port.Lock(); err != nil {
		return ErrLockFailed
	}
	return nil
}

func (m *MRRB) unlock() error {
	m.port.Fence()
	if err := m.port.Unlock(); err != nil {
		return ErrLockFailed
	}
	return nil
}
