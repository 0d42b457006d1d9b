package stats

import (
	"testing"
	"time"

	"github.com/LucaRufer/MRRB"
	"github.com/LucaRufer/MRRB/port/hosted"
)

func TestRunCollectsSamplesUntilStop(t *testing.T) {
	reader, err := mrrb.NewReader("r", mrrb.PolicyBlocking, func(any, []byte) {}, nil)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	buf, err := mrrb.New(make([]byte, 64), []*mrrb.Reader{reader}, hosted.New())
	if err != nil {
		t.Fatalf("new mrrb: %v", err)
	}
	if err := buf.EnableReader(reader); err != nil {
		t.Fatalf("enable: %v", err)
	}

	c := New(buf, []any{"r"}, 5*time.Millisecond, 4)
	go c.Run()
	defer c.Stop()

	deadline := time.Now().Add(time.Second)
	for len(c.Snapshots()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	snaps := c.Snapshots()
	if len(snaps) == 0 {
		t.Fatalf("expected at least one sample to have been collected")
	}
	last := snaps[len(snaps)-1]
	if last.RemainingSpace != 64 {
		t.Fatalf("expected remaining space 64 on an idle buffer, got %d", last.RemainingSpace)
	}
	if len(last.Readers) != 1 || last.Readers[0].Handle != "r" {
		t.Fatalf("unexpected reader samples: %+v", last.Readers)
	}
}

func TestSnapshotsWrapAtCapacity(t *testing.T) {
	reader, err := mrrb.NewReader("r", mrrb.PolicyBlocking, func(any, []byte) {}, nil)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	buf, err := mrrb.New(make([]byte, 16), []*mrrb.Reader{reader}, hosted.New())
	if err != nil {
		t.Fatalf("new mrrb: %v", err)
	}
	if err := buf.EnableReader(reader); err != nil {
		t.Fatalf("enable: %v", err)
	}

	c := New(buf, []any{"r"}, time.Hour, 3) // never fires on its own; sample() is driven directly
	for i := 0; i < 5; i++ {
		c.sample()
	}
	snaps := c.Snapshots()
	if len(snaps) != 3 {
		t.Fatalf("expected the ring to cap at 3 retained samples, got %d", len(snaps))
	}
}

func TestUnknownHandleIsSkippedNotErrored(t *testing.T) {
	reader, err := mrrb.NewReader("known", mrrb.PolicyBlocking, func(any, []byte) {}, nil)
	if err != nil {
		t.Fatalf("new reader: %v", err)
	}
	buf, err := mrrb.New(make([]byte, 16), []*mrrb.Reader{reader}, hosted.New())
	if err != nil {
		t.Fatalf("new mrrb: %v", err)
	}
	if err := buf.EnableReader(reader); err != nil {
		t.Fatalf("enable: %v", err)
	}

	c := New(buf, []any{"known", "ghost"}, time.Hour, 2)
	c.sample()
	snaps := c.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("expected 1 sample, got %d", len(snaps))
	}
	if len(snaps[0].Readers) != 1 {
		t.Fatalf("expected the unknown handle to be skipped, got %d reader samples", len(snaps[0].Readers))
	}
}
