package mrrb

import "errors"

var (
	// ErrNilBuffer is returned by New when no backing buffer is supplied.
	ErrNilBuffer = errors.New("mrrb: buffer must be non-empty")
	// ErrNoReaders is returned by New when no readers are supplied.
	ErrNoReaders = errors.New("mrrb: at least one reader is required")
	// ErrNilPort is returned by New when no port.Port is supplied.
	ErrNilPort = errors.New("mrrb: port must not be nil")
	// ErrNilMRRB is returned by reader operations invoked with a nil MRRB.
	ErrNilMRRB = errors.New("mrrb: mrrb must not be nil")
	// ErrNilReader is returned by EnableReader/DisableReader when reader is nil.
	ErrNilReader = errors.New("mrrb: reader must not be nil")
	// ErrNilNotify is returned by NewReader when notify is nil.
	ErrNilNotify = errors.New("mrrb: notify callback must not be nil")
	// ErrSkipRequiresAbort is returned by NewReader for a Skip-policy
	// reader with no abort callback.
	ErrSkipRequiresAbort = errors.New("mrrb: skip policy requires an abort callback")
	// ErrDuplicateHandle is returned by New when two readers share a handle.
	ErrDuplicateHandle = errors.New("mrrb: reader handles must be unique")
	// ErrLockFailed is returned when the underlying port fails to acquire
	// or release its critical section.
	ErrLockFailed = errors.New("mrrb: port lock failed")
)
