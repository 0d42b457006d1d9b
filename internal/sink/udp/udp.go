// Package udp adapts an MRRB reader onto a net.Conn, mirroring
// _retarget_udp_thread's queue-plus-worker shape: notify enqueues a copy of
// the slice for a dedicated goroutine to send, and read_complete is
// reported only once that send actually succeeds. A send or queue failure
// disables the reader outright, matching the original's call to
// mrrb_reader_disable on either failure path.
package udp

import (
	"net"

	"github.com/LucaRufer/MRRB"
)

type message struct {
	data []byte
}

// Sink owns one mrrb.Reader backed by a net.Conn (typically a UDP socket
// dialed to a fixed remote, as in the original's retarget_udp_remote).
type Sink struct {
	conn net.Conn
	buf  *mrrb.MRRB
	self *mrrb.Reader

	queue chan message
	exit  chan struct{}
}

// New creates a UDP sink with a single-slot queue, matching the original's
// osMessageQueueNew(1, ...): a notify that arrives while the slot still
// holds a message the worker has not yet taken is dropped by disabling the
// reader rather than blocking the writer that published it.
func New(handle any, policy mrrb.Policy) (*Sink, error) {
	s := &Sink{
		queue: make(chan message, 1),
		exit:  make(chan struct{}),
	}
	r, err := mrrb.NewReader(handle, policy, s.notify, s.abort)
	if err != nil {
		return nil, err
	}
	s.self = r
	return s, nil
}

// Attach binds the sink to buf and conn and starts its worker goroutine.
func (s *Sink) Attach(buf *mrrb.MRRB, conn net.Conn) {
	s.buf = buf
	s.conn = conn
	go s.run()
}

// Reader returns the mrrb.Reader to pass to mrrb.New.
func (s *Sink) Reader() *mrrb.Reader { return s.self }

// Close stops the worker and releases the connection.
func (s *Sink) Close() error {
	close(s.exit)
	return s.conn.Close()
}

func (s *Sink) notify(handle any, data []byte) {
	cp := append([]byte(nil), data...)
	select {
	case s.queue <- message{data: cp}:
	default:
		_ = s.buf.DisableReader(s.self)
	}
}

func (s *Sink) abort(handle any) {
	s.buf.AbortComplete(handle)
}

func (s *Sink) run() {
	for {
		select {
		case msg := <-s.queue:
			n, err := s.conn.Write(msg.data)
			if err != nil || n != len(msg.data) {
				_ = s.buf.DisableReader(s.self)
				continue
			}
			s.buf.ReadComplete(s.self.Handle())
		case <-s.exit:
			return
		}
	}
}
