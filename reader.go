package mrrb

// Policy selects what happens to a reader when a write cannot fit because
// that reader still owns the bytes the write would overwrite.
type Policy int

const (
	// PolicyBlocking never gets cleared on overrun; the writer truncates
	// instead.
	PolicyBlocking Policy = iota
	// PolicyDisable disables the reader on overrun, optionally via an
	// abort callback if one is configured.
	PolicyDisable
	// PolicySkip requires an abort callback; the reader is aborted and its
	// complete cursor is force-advanced past the overrun.
	PolicySkip
)

func (p Policy) String() string {
	switch p {
	case PolicyBlocking:
		return "Blocking"
	case PolicyDisable:
		return "Disable"
	case PolicySkip:
		return "Skip"
	default:
		return "Policy(?)"
	}
}

// state is a reader's position in its overrun/completion lifecycle.
type state int

const (
	stateDisabled state = iota
	stateIdle
	stateActive
	stateAborting
	stateAborted
	stateDisabling
)

func (s state) String() string {
	switch s {
	case stateDisabled:
		return "Disabled"
	case stateIdle:
		return "Idle"
	case stateActive:
		return "Active"
	case stateAborting:
		return "Aborting"
	case stateAborted:
		return "Aborted"
	case stateDisabling:
		return "Disabling"
	default:
		return "State(?)"
	}
}

// NotifyFunc is invoked by the MRRB to hand a reader ownership of a byte
// slice that points directly into the shared buffer. The slice is valid
// until the reader calls ReadComplete (or AbortComplete, if an abort was
// signalled) for the owning handle. len(data) is always >= 1.
type NotifyFunc func(handle any, data []byte)

// AbortFunc is invoked by the MRRB to cancel an outstanding notify. The
// reader must eventually call AbortComplete or DisableReader.
type AbortFunc func(handle any)

// Reader is a value object describing one consumer of the ring: its
// identity, its callbacks, its overrun policy, and its cursors. A Reader is
// created once with NewReader and is attached to (and detached from) an
// MRRB with EnableReader/DisableReader; it holds no reference back to the
// MRRB it belongs to.
type Reader struct {
	handle any
	notify NotifyFunc
	abort  AbortFunc
	policy Policy

	state state

	// readPtr and readCompletePtr are absolute, monotonically increasing
	// byte positions (never wrapped); buffer offsets are this value modulo
	// the MRRB's length. readCompletePtr is the first byte the reader
	// still owes a completion for; readPtr is the end of the slice most
	// recently handed to notify.
	readPtr         uint64
	readCompletePtr uint64

	// isFull disambiguates readCompletePtr == reservationPtr: it is true
	// exactly when the reader owes the MRRB the full buffer capacity.
	isFull bool
}

// NewReader constructs a Reader. notify must not be nil. A Skip-policy
// reader must supply abort; the other policies may.
func NewReader(handle any, policy Policy, notify NotifyFunc, abort AbortFunc) (*Reader, error) {
	if notify == nil {
		return nil, ErrNilNotify
	}
	if policy == PolicySkip && abort == nil {
		return nil, ErrSkipRequiresAbort
	}
	return &Reader{
		handle: handle,
		notify: notify,
		abort:  abort,
		policy: policy,
		state:  stateDisabled,
	}, nil
}

// Handle returns the reader's opaque identity.
func (r *Reader) Handle() any { return r.handle }

// Policy returns the reader's configured overrun policy.
func (r *Reader) Policy() Policy { return r.policy }

// State reports the reader's current FSM state. Advisory outside the MRRB's
// critical section.
func (r *Reader) State() string { return r.state.String() }

// constrains reports whether the reader currently constrains reclamation: a
// reader in Disabled or Disabling contributes no constraint and is treated
// as owning nothing.
func (r *Reader) constrains() bool {
	return r.state != stateDisabled && r.state != stateDisabling
}

// isDisabled reports whether the reader is fully disabled, as distinct from
// mid-disable (Disabling). Phase A's is_full refresh in Write is scoped to
// every non-disabled reader, which excludes Disabled but not Disabling.
func (r *Reader) isDisabled() bool {
	return r.state == stateDisabled
}
