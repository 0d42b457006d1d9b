// Package port defines the pluggable locking/fencing abstraction MRRB uses
// to stay portable between a hosted, OS-backed environment and a bare-metal
// target with no scheduler.
package port

// Port provides the critical-section and memory-ordering primitives MRRB
// needs around its reservation and publish phases. A Port is not required
// to support reentrant Lock calls from the same goroutine; MRRB never nests
// them.
//
// Lock and Unlock are fallible so that an interrupt-masking implementation
// and a mutex-backed implementation can share one interface: a hosted
// mutex effectively never fails, but a bare-metal restore-interrupts step
// is given the same error channel for symmetry with the original port.
type Port interface {
	// Lock acquires the critical section used to guard MRRB's cursors and
	// reader state. It returns an error only if the underlying primitive
	// could not be acquired.
	Lock() error

	// Unlock releases the critical section acquired by Lock.
	Unlock() error

	// InterruptActive reports whether the caller is currently running
	// inside an interrupt (or interrupt-equivalent) context. Hosted ports
	// always report false.
	InterruptActive() bool

	// Fence issues a memory fence sufficient to order the writes made
	// during Write's Phase B relative to the cursor update that publishes
	// them, and to order a reader's load of the published cursor relative
	// to its read of buffer bytes.
	Fence()
}
