package mrrb

import (
	"testing"

	"github.com/LucaRufer/MRRB/port/hosted"
)

// TestSkipOverrunDeficitBranchPreservesFreedSpace covers the deficit branch
// of clearReader's SKIP case: a reader cleared a second time before it has
// acknowledged the first abort already has readCompletePtr trailing its
// owed region, so current remaining space, not the write's requested size,
// is what's short. Clearing must advance readCompletePtr by that shortfall
// without marking the reader full, or the write that follows sees no freed
// space and copies nothing even though the clear succeeded.
func TestSkipOverrunDeficitBranchPreservesFreedSpace(t *testing.T) {
	aborts := 0
	reader, err := NewReader("skip", PolicySkip, func(any, []byte) {}, func(any) {
		aborts++
		// Deliberately never calls AbortComplete, leaving the reader
		// Aborting across the next overrun.
	})
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	buf, err := New(make([]byte, 8), []*Reader{reader}, hosted.New())
	if err != nil {
		t.Fatalf("new mrrb: %v", err)
	}
	if err := buf.EnableReader(reader); err != nil {
		t.Fatalf("enable: %v", err)
	}

	if n, err := buf.Write(make([]byte, 6)); err != nil || n != 6 {
		t.Fatalf("first write: n=%d err=%v", n, err)
	}

	if n, err := buf.Write(make([]byte, 3)); err != nil || n != 3 {
		t.Fatalf("second (overrunning) write: n=%d err=%v", n, err)
	}
	if reader.State() != "Aborting" {
		t.Fatalf("expected the reader to be left Aborting, got %s", reader.State())
	}
	if aborts != 1 {
		t.Fatalf("expected exactly one abort so far, got %d", aborts)
	}

	n, err := buf.Write(make([]byte, 7))
	if err != nil {
		t.Fatalf("third (overrunning) write: %v", err)
	}
	if n != 7 {
		t.Fatalf("expected the deficit clear to free the full requested span, got %d", n)
	}
	if aborts != 1 {
		t.Fatalf("expected no additional abort while already Aborting, got %d", aborts)
	}
}
