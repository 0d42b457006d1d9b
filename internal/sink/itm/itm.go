// Package itm adapts an MRRB reader onto a byte-at-a-time Port standing in
// for an ARM ITM trace port, mirroring _retarget_itm_data_notify's one-byte-at-a-
// time ITM_SendChar loop: unlike the serial sink, the "transmit" primitive
// is itself blocking, so read_complete fires synchronously from notify.
package itm

import "github.com/LucaRufer/MRRB"

// Port is the subset of the ITM stimulus port the sink needs.
type Port interface {
	SendByte(b byte)
}

// Sink owns one mrrb.Reader whose notify drains the handed slice one byte
// at a time through Port.
type Sink struct {
	port Port
	buf  *mrrb.MRRB
	self *mrrb.Reader
}

// New creates an ITM sink and registers its reader under policy.
func New(handle any, policy mrrb.Policy) (*Sink, error) {
	s := &Sink{}
	r, err := mrrb.NewReader(handle, policy, s.notify, nil)
	if err != nil {
		return nil, err
	}
	s.self = r
	return s, nil
}

// Attach binds the sink to buf and port.
func (s *Sink) Attach(buf *mrrb.MRRB, port Port) {
	s.buf = buf
	s.port = port
}

// Reader returns the mrrb.Reader to pass to mrrb.New.
func (s *Sink) Reader() *mrrb.Reader { return s.self }

func (s *Sink) notify(handle any, data []byte) {
	for _, b := range data {
		s.port.SendByte(b)
	}
	s.buf.ReadComplete(handle)
}
