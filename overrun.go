package mrrb

// clearReader applies r's overrun policy so that it stops constraining (or
// constrains less than) the pending write of size requested = min(n, N).
// Must be called with the lock held. Returns true if r now needs its abort
// callback invoked after unlock.
func (m *MRRB) clearReader(r *Reader, requested uint64) (scheduleAbort bool) {
	switch r.policy {
	case PolicyBlocking:
		// Not cleared; the writer truncates around it instead.
		return false

	case PolicyDisable:
		if r.abort != nil {
			r.state = stateDisabling
			return true
		}
		r.state = stateDisabled
		return false

	case PolicySkip:
		if r.state == stateActive {
			r.readCompletePtr = r.readPtr
			r.isFull = false
			r.state = stateAborting
			scheduleAbort = true
		}
		current := m.remainingSpaceFor(r)
		if current < requested {
			deficit := requested - current
			r.readCompletePtr += deficit
		}
		// isFull is left alone here; Write's Phase A step 3 recomputes it
		// for every non-disabled reader once the write's final size is
		// known, against the freed readCompletePtr set above.
		return scheduleAbort

	default:
		return false
	}
}
