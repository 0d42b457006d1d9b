// Package hosted implements port.Port for a scheduler-backed target
// (a desktop or server OS) using a sync.Mutex, mirroring the pthread_mutex_t
// backed UNIX port of the original firmware.
package hosted

import "sync"

// Port is a mutex-backed port.Port. The zero value is ready to use.
type Port struct {
	mu sync.Mutex
}

// New returns a ready-to-use hosted Port.
func New() *Port {
	return &Port{}
}

func (p *Port) Lock() error {
	p.mu.Lock()
	return nil
}

func (p *Port) Unlock() error {
	p.mu.Unlock()
	return nil
}

// InterruptActive always reports false: a hosted goroutine never runs in
// interrupt context.
func (p *Port) InterruptActive() bool {
	return false
}

// Fence is a no-op here: Mutex.Lock/Unlock already establish the
// acquire/release ordering MRRB needs. It exists so callers written
// against port.Port do not need to special-case the hosted port.
func (p *Port) Fence() {}
