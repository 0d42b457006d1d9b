package mrrb

// ReadComplete signals that the reader identified by handle has finished
// processing the slice most recently handed to its notify callback. It is a
// no-op for an unknown handle and for any reader not currently Active,
// including one mid-abort. If more data remains available, the reader is
// re-notified immediately after the lock is released — including when
// ReadComplete is itself called reentrantly from inside that very notify.
func (m *MRRB) ReadComplete(handle any) {
	if m == nil {
		return
	}
	if err := m.lock(); err != nil {
		return
	}

	r := m.findReader(handle)
	if r == nil || r.state != stateActive {
		_ = m.unlock()
		return
	}

	r.isFull = false
	r.readCompletePtr = r.readPtr

	remaining := m.writePtr - r.readCompletePtr
	var renotify bool
	var span uint64
	if remaining > 0 {
		span = m.continuousSpan(r.readCompletePtr, remaining)
		r.readPtr = r.readCompletePtr + span
		renotify = true
	} else {
		r.state = stateIdle
	}

	data := m.sliceIfAny(r, renotify, span)

	if err := m.unlock(); err != nil {
		return
	}

	if renotify {
		r.notify(r.handle, data)
	}
}

// sliceIfAny captures the bytes to hand to notify while still under lock,
// since the buffer offsets it computes from (r.readCompletePtr before the
// caller mutates it further) must be read consistently with the rest of the
// transition.
func (m *MRRB) sliceIfAny(r *Reader, have bool, span uint64) []byte {
	if !have {
		return nil
	}
	return m.slice(r.readCompletePtr, span)
}

// AbortComplete signals that the reader identified by handle has finished
// reacting to an abort. It is a no-op for an unknown handle and for any
// reader not currently Aborting or Disabling.
func (m *MRRB) AbortComplete(handle any) {
	if m == nil {
		return
	}
	if err := m.lock(); err != nil {
		return
	}

	r := m.findReader(handle)
	if r == nil {
		_ = m.unlock()
		return
	}

	switch r.state {
	case stateDisabling:
		r.state = stateDisabled
		_ = m.unlock()
		return

	case stateAborting:
		remaining := m.writePtr - r.readCompletePtr
		if remaining > 0 && m.ongoingWrites == 0 {
			span := m.continuousSpan(r.readCompletePtr, remaining)
			r.readPtr = r.readCompletePtr + span
			r.state = stateActive
			data := m.slice(r.readCompletePtr, span)
			_ = m.unlock()
			r.notify(r.handle, data)
			return
		}
		r.state = stateAborted
		_ = m.unlock()
		return

	default:
		_ = m.unlock()
		return
	}
}
