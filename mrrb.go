// Package mrrb implements a Multiple-Reader Ring Buffer: a single
// in-memory byte buffer any number of producers may append to, drained
// independently and asynchronously by a fixed set of named, callback-driven
// readers.
package mrrb

import "github.com/LucaRufer/MRRB/port"

// MRRB is the multiple-reader ring buffer core. All of its exported methods
// are safe for concurrent use by any number of writer goroutines and by the
// readers themselves (notably, a reader may call ReadComplete/AbortComplete
// from within its own notify/abort callback).
//
// Cursors are tracked as absolute, monotonically increasing byte positions
// rather than as raw pointers into buf; a position's offset into buf is
// always position % length. This sidesteps the pointer-wrap aliasing the
// original C implementation's is_full flag exists to resolve, while the
// flag itself is still maintained at the same points in the write/read
// protocol, so the two remain equivalent.
type MRRB struct {
	buf     []byte
	length  uint64
	readers []*Reader
	port    port.Port

	writePtr       uint64
	reservationPtr uint64
	ongoingWrites  int

	allowWriteFromISR bool
}

// Option configures optional MRRB behavior at construction time.
type Option func(*MRRB)

// WithAllowWriteFromISR enables Write calls made while the port reports
// InterruptActive() == true, matching MRRB_ALLOW_WRITE_FROM_ISR.
func WithAllowWriteFromISR(allow bool) Option {
	return func(m *MRRB) { m.allowWriteFromISR = allow }
}

// New builds an MRRB over buf using p as its critical-section and fencing
// primitive. Every reader in readers must already have been constructed
// with NewReader; New enables each of them against this MRRB, seating their
// cursors at position 0.
func New(buf []byte, readers []*Reader, p port.Port, opts ...Option) (*MRRB, error) {
	if len(buf) == 0 {
		return nil, ErrNilBuffer
	}
	if len(readers) == 0 {
		return nil, ErrNoReaders
	}
	if p == nil {
		return nil, ErrNilPort
	}
	seen := make(map[any]struct{}, len(readers))
	for _, r := range readers {
		if r == nil {
			return nil, ErrNilReader
		}
		if _, dup := seen[r.handle]; dup {
			return nil, ErrDuplicateHandle
		}
		seen[r.handle] = struct{}{}
	}

	m := &MRRB{
		buf:     buf,
		length:  uint64(len(buf)),
		readers: append([]*Reader(nil), readers...),
		port:    p,
	}
	for _, opt := range opts {
		opt(m)
	}

	for _, r := range m.readers {
		r.state = stateIdle
		r.isFull = false
		r.readPtr = 0
		r.readCompletePtr = 0
	}

	return m, nil
}

// Close releases any resources the underlying port holds. Readers are left
// as-is; callers that want a clean shutdown should disable them first.
func (m *MRRB) Close() error {
	if c, ok := m.port.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func (m *MRRB) findReader(handle any) *Reader {
	for _, r := range m.readers {
		if r.handle == handle {
			return r
		}
	}
	return nil
}

func (m *MRRB) idx(pos uint64) uint64 {
	return pos % m.length
}

// continuousSpan returns the largest prefix of [from, from+avail) that does
// not cross the physical end of the buffer, the "continuous readable span"
// from the glossary.
func (m *MRRB) continuousSpan(from, avail uint64) uint64 {
	toEnd := m.length - m.idx(from)
	if avail < toEnd {
		return avail
	}
	return toEnd
}

// copyIn writes data into buf starting at the (possibly wrapping) absolute
// position start. It is the Phase B memcpy of the write protocol.
func (m *MRRB) copyIn(start uint64, data []byte) {
	n := uint64(len(data))
	if n == 0 {
		return
	}
	off := m.idx(start)
	first := m.length - off
	if n <= first {
		copy(m.buf[off:off+n], data)
		return
	}
	copy(m.buf[off:], data[:first])
	copy(m.buf[0:], data[first:])
}
