// Package serial adapts an MRRB reader onto an io.Writer standing in for a
// UART, mirroring _retarget_uart_data_notify/_retarget_uart_TxCpltCallback:
// the notify callback starts a transmit and completion is reported back to
// the MRRB asynchronously once that transmit finishes, not synchronously
// inside notify.
package serial

import (
	"sync"

	"github.com/LucaRufer/MRRB"
)

// Port is the subset of a serial handle the sink needs. A real target
// would satisfy this with go.bug.st/serial.Port; tests use an in-memory
// bytes.Buffer.
type Port interface {
	Write(p []byte) (int, error)
}

// Sink owns one mrrb.Reader backed by Port. Every notified slice is
// written to Port by a dedicated worker goroutine so that a slow transport
// never blocks the writer that published the data.
type Sink struct {
	port Port
	buf  *mrrb.MRRB
	self *mrrb.Reader

	mu   sync.Mutex
	jobs chan job
	done chan struct{}
}

type job struct {
	data []byte
}

// New creates a serial sink and its reader under policy. handle identifies
// the reader to the rest of the system. The write worker is not started
// until Attach.
func New(handle any, policy mrrb.Policy) (*Sink, error) {
	s := &Sink{
		jobs: make(chan job, 8),
		done: make(chan struct{}),
	}
	r, err := mrrb.NewReader(handle, policy, s.notify, s.abort)
	if err != nil {
		return nil, err
	}
	s.self = r
	return s, nil
}

// Attach binds the sink to buf and port, and starts its worker goroutine.
// It is separate from New because the reader must exist before mrrb.New is
// called, while the MRRB itself does not exist until after that call.
func (s *Sink) Attach(buf *mrrb.MRRB, port Port) {
	s.buf = buf
	s.port = port
	go s.run()
}

// Reader returns the mrrb.Reader to pass to mrrb.New.
func (s *Sink) Reader() *mrrb.Reader { return s.self }

// Close stops the write worker.
func (s *Sink) Close() {
	close(s.done)
}

func (s *Sink) notify(handle any, data []byte) {
	cp := append([]byte(nil), data...)
	select {
	case s.jobs <- job{data: cp}:
	case <-s.done:
	}
}

func (s *Sink) abort(handle any) {
	s.buf.AbortComplete(handle)
}

func (s *Sink) run() {
	for {
		select {
		case j := <-s.jobs:
			s.mu.Lock()
			_, _ = s.port.Write(j.data)
			s.mu.Unlock()
			s.buf.ReadComplete(s.self.Handle())
		case <-s.done:
			return
		}
	}
}
