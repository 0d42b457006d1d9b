// Command mrrbdemo builds a small MRRB with three readers, one per overrun
// policy, writes a handful of batches at varying sizes, and prints every
// slice each reader is notified with, any abort requests, and each
// reader's final state to stdout.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/LucaRufer/MRRB"
	"github.com/LucaRufer/MRRB/port/hosted"
)

type demoReader struct {
	name    string
	handle  uuid.UUID
	got     [][]byte
	aborted int
}

func (d *demoReader) notify(handle any, data []byte) {
	cp := append([]byte(nil), data...)
	d.got = append(d.got, cp)
	fmt.Printf("[%s] notified: %q\n", d.name, cp)
}

func main() {
	logger := log.New(os.Stdout, "[mrrbdemo] ", log.LstdFlags)

	blocking := &demoReader{name: "blocking"}
	blocking.handle = uuid.New()
	blockingReader, err := mrrb.NewReader(blocking.handle, mrrb.PolicyBlocking, blocking.notify, nil)
	if err != nil {
		logger.Fatalf("new blocking reader: %v", err)
	}

	disable := &demoReader{name: "disable"}
	disable.handle = uuid.New()
	disableReader, err := mrrb.NewReader(disable.handle, mrrb.PolicyDisable, disable.notify, func(h any) {
		disable.aborted++
		fmt.Printf("[disable] abort requested\n")
	})
	if err != nil {
		logger.Fatalf("new disable reader: %v", err)
	}

	var buf *mrrb.MRRB

	skip := &demoReader{name: "skip"}
	skip.handle = uuid.New()
	skipReader, err := mrrb.NewReader(skip.handle, mrrb.PolicySkip, skip.notify, func(h any) {
		skip.aborted++
		fmt.Printf("[skip] abort requested\n")
		buf.AbortComplete(h)
	})
	if err != nil {
		logger.Fatalf("new skip reader: %v", err)
	}

	port := hosted.New()
	buf, err = mrrb.New(make([]byte, 16), []*mrrb.Reader{blockingReader, disableReader, skipReader}, port)
	if err != nil {
		logger.Fatalf("new mrrb: %v", err)
	}

	for _, r := range []*mrrb.Reader{blockingReader, disableReader, skipReader} {
		if err := buf.EnableReader(r); err != nil {
			logger.Fatalf("enable reader: %v", err)
		}
	}

	batches := [][]byte{
		[]byte("hello "),
		[]byte("world, this overruns the slower readers"),
		[]byte("!"),
	}

	for i, b := range batches {
		n, err := buf.Write(b)
		if err != nil {
			logger.Fatalf("write batch %d: %v", i, err)
		}
		fmt.Printf("wrote %d/%d bytes of batch %d\n", n, len(b), i)

		for _, r := range []*mrrb.Reader{blockingReader, disableReader, skipReader} {
			buf.ReadComplete(r.Handle())
		}
	}

	fmt.Println("final remaining space:", buf.RemainingSpace())
	fmt.Println("blocking reader state:", blockingReader.State())
	fmt.Println("disable reader state:", disableReader.State())
	fmt.Println("skip reader state:", skipReader.State())
}
