// Package baremetal implements port.Port for a scheduler-less target by
// emulating global interrupt masking, mirroring the CMSIS port of the
// original firmware (__get_PRIMASK/__set_PRIMASK/__get_IPSR).
//
// Go has no interrupts; this package models the same discipline for code
// that is structured as one main loop plus callbacks representing interrupt
// handlers. RunInHandler is the analogue of an ISR entry: code run inside it
// observes InterruptActive() == true, matching __get_IPSR() != 0 on a real
// Cortex-M core. Because there are no real interrupts to preempt a
// goroutine, this port is only safe when the caller does not run Lock/Unlock
// concurrently from multiple goroutines — exactly the single-core,
// non-reentrant assumption the original bare-metal port makes.
package baremetal

import "sync/atomic"

// Port emulates PRIMASK-style global interrupt masking.
type Port struct {
	masked     atomic.Bool
	prevMasked bool
	inHandler  atomic.Bool
}

// New returns a ready-to-use bare-metal port with interrupts unmasked.
func New() *Port {
	return &Port{}
}

// Lock masks interrupts, saving the previous mask state the way
// port_disable_interrupts returns the prior PRIMASK value.
func (p *Port) Lock() error {
	p.prevMasked = p.masked.Swap(true)
	p.Fence()
	return nil
}

// Unlock restores the interrupt mask saved by Lock. The original firmware's
// port_unlock return value is never consulted by callers; this always
// succeeds once the mask is restored, matching that intent exactly.
func (p *Port) Unlock() error {
	p.Fence()
	p.masked.Store(p.prevMasked)
	return nil
}

// InterruptActive reports whether the calling code is running inside
// RunInHandler, the analogue of __get_IPSR() != 0.
func (p *Port) InterruptActive() bool {
	return p.inHandler.Load()
}

// Fence issues a compiler/memory fence equivalent to __DSB()+__ISB().
func (p *Port) Fence() {
	var f atomic.Int32
	f.CompareAndSwap(0, 0)
}

// RunInHandler runs fn with InterruptActive reporting true for its
// duration, emulating an interrupt handler invoking MRRB.Write directly.
func (p *Port) RunInHandler(fn func()) {
	p.inHandler.Store(true)
	defer p.inHandler.Store(false)
	fn()
}
