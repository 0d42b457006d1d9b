// Package retarget turns a *mrrb.MRRB into the single io.Writer an
// application's logging/printf path writes to, mirroring mrrb_retarget.c's
// role of retargeting the C standard library's stdout onto the ring buffer.
package retarget

import (
	"io"

	"github.com/LucaRufer/MRRB"
)

// Writer forwards every Write call into the underlying MRRB. It exists so
// callers can plug an MRRB in wherever an io.Writer is expected (log.New,
// fmt.Fprintf, and so on) without depending on the mrrb package directly.
type Writer struct {
	buf *mrrb.MRRB
}

// New wraps buf as an io.Writer.
func New(buf *mrrb.MRRB) *Writer {
	return &Writer{buf: buf}
}

// Write implements io.Writer. mrrb.Write truncates rather than rejects a
// write that cannot fully fit, which by itself would let n come back less
// than len(p) with a nil error; io.Writer forbids that, so Write reports
// io.ErrShortWrite whenever the MRRB accepted fewer bytes than given.
func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}
