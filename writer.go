package mrrb

// Write copies at most len(data) bytes into the ring and returns the number
// of bytes actually copied. It implements a three-phase protocol: reservation
// under lock, a lockless memcpy, and publish under lock, with publish
// deferred to whichever concurrent writer is last to finish.
//
// A zero-length write succeeds and returns (0, nil) without touching the
// buffer. A write made from interrupt context is rejected and returns
// (0, nil) unless the MRRB was constructed with WithAllowWriteFromISR(true).
func (m *MRRB) Write(data []byte) (int, error) {
	if m == nil {
		return 0, ErrNilMRRB
	}
	if len(data) == 0 {
		return 0, nil
	}
	if !m.allowWriteFromISR && m.port.InterruptActive() {
		return 0, nil
	}

	n := uint64(len(data))
	requested := n
	if requested > m.length {
		requested = m.length
	}

	if err := m.lock(); err != nil {
		return 0, ErrLockFailed
	}

	var abortTargets []*Reader
	remaining := m.remainingSpaceLocked()
	var writeLen uint64
	if n <= remaining {
		writeLen = n
	} else {
		overwritable := m.overwritableSpaceLocked()
		if overwritable > remaining {
			for _, r := range m.readers {
				if m.remainingSpaceFor(r) < requested {
					if m.clearReader(r, requested) {
						abortTargets = append(abortTargets, r)
					}
				}
			}
			remainingAfterClear := m.remainingSpaceLocked()
			writeLen = n
			if writeLen > remainingAfterClear {
				writeLen = remainingAfterClear
			}
		} else {
			writeLen = remaining
		}
	}

	// Nothing fits: reserve and publish nothing, so no reader is handed an
	// empty slice.
	if writeLen == 0 {
		if err := m.unlock(); err != nil {
			return 0, ErrLockFailed
		}
		return 0, nil
	}

	start := m.reservationPtr
	m.reservationPtr += writeLen
	for _, r := range m.readers {
		if !r.isDisabled() {
			r.isFull = m.reservationPtr-r.readCompletePtr == m.length
		}
	}
	m.ongoingWrites++

	if err := m.unlock(); err != nil {
		return 0, ErrLockFailed
	}
	m.fireAborts(abortTargets)

	m.copyIn(start, data[:writeLen])

	if err := m.lock(); err != nil {
		return 0, ErrLockFailed
	}

	m.ongoingWrites--
	var toNotify []*Reader
	var newWritePtr uint64
	if m.ongoingWrites == 0 {
		prePublishWritePtr := m.writePtr
		newWritePtr = m.reservationPtr
		m.writePtr = newWritePtr

		for _, r := range m.readers {
			switch r.state {
			case stateIdle:
				r.state = stateActive
				r.readCompletePtr = prePublishWritePtr
			case stateAborted:
				r.state = stateActive
			default:
				continue
			}
			toNotify = append(toNotify, r)
		}
	}

	if err := m.unlock(); err != nil {
		return 0, ErrLockFailed
	}

	for _, r := range toNotify {
		span := m.continuousSpan(r.readCompletePtr, newWritePtr-r.readCompletePtr)
		r.readPtr = r.readCompletePtr + span
		r.notify(r.handle, m.slice(r.readCompletePtr, span))
	}

	return int(writeLen), nil
}

// slice returns the buffer bytes covering [start, start+length), which must
// not cross the physical end of buf (callers only ever pass spans already
// clamped by continuousSpan).
func (m *MRRB) slice(start, length uint64) []byte {
	if length == 0 {
		return nil
	}
	off := m.idx(start)
	return m.buf[off : off+length]
}

func (m *MRRB) fireAborts(readers []*Reader) {
	for _, r := range readers {
		r.abort(r.handle)
	}
}
