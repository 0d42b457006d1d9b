package mrrb

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/LucaRufer/MRRB/port/hosted"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// writerHeader is the 8-byte {writer_id, length} prefix put ahead of every
// chunk, so a reader can demultiplex the interleaved stream back into one
// sequence per writer.
type writerHeader struct {
	id     uint32
	length uint32
}

func putHeader(dst []byte, h writerHeader) {
	dst[0] = byte(h.id)
	dst[1] = byte(h.id >> 8)
	dst[2] = byte(h.id >> 16)
	dst[3] = byte(h.id >> 24)
	dst[4] = byte(h.length)
	dst[5] = byte(h.length >> 8)
	dst[6] = byte(h.length >> 16)
	dst[7] = byte(h.length >> 24)
}

func getHeader(src []byte) writerHeader {
	return writerHeader{
		id:     uint32(src[0]) | uint32(src[1])<<8 | uint32(src[2])<<16 | uint32(src[3])<<24,
		length: uint32(src[4]) | uint32(src[5])<<8 | uint32(src[6])<<16 | uint32(src[7])<<24,
	}
}

// TestMultiWriterMultiReaderStress has 5 writers each push 1000 bytes of
// header-prefixed chunks, 8 BLOCKING readers each complete after a
// randomized delay, and every reader must reconstruct each writer's byte
// stream as 0, 1, 2, ..., 999 (mod 256) in order.
func TestMultiWriterMultiReaderStress(t *testing.T) {
	defer goleak.VerifyNone(t)

	const (
		numWriters   = 5
		numReaders   = 8
		payloadBytes = 1000
	)

	type readerState struct {
		mu        sync.Mutex
		pending   []byte // bytes accumulated but not yet parsed into a complete frame
		perWriter [numWriters][]byte
	}

	states := make([]*readerState, numReaders)
	var buf *MRRB
	readers := make([]*Reader, numReaders)

	// A BLOCKING write can truncate mid-frame, so a frame's header and
	// payload may arrive split across two separate notifies; pending holds
	// whatever trailing bytes haven't formed a complete frame yet.
	parsePending := func(st *readerState) {
		for len(st.pending) >= 8 {
			h := getHeader(st.pending[:8])
			total := 8 + int(h.length)
			if len(st.pending) < total {
				return
			}
			st.perWriter[h.id] = append(st.perWriter[h.id], st.pending[8:total]...)
			st.pending = st.pending[total:]
		}
	}

	// math/rand.Rand is not safe for concurrent use; each writer and each
	// reader's delay gets its own independently-seeded source rather than
	// sharing one across goroutines.
	for i := 0; i < numReaders; i++ {
		st := &readerState{}
		states[i] = st
		idx := i
		readerRng := rand.New(rand.NewSource(int64(1000 + i)))
		notify := func(handle any, data []byte) {
			cp := append([]byte(nil), data...)
			go func() {
				// randomized completion delay, bounded so the test
				// terminates quickly
				time.Sleep(time.Duration(readerRng.Intn(200)) * time.Microsecond)
				st.mu.Lock()
				st.pending = append(st.pending, cp...)
				parsePending(st)
				st.mu.Unlock()
				buf.ReadComplete(handle)
			}()
		}
		r, err := NewReader(idx, PolicyBlocking, notify, nil)
		require.NoError(t, err)
		readers[i] = r
	}

	var err error
	buf, err = New(make([]byte, 4096), readers, hosted.New())
	require.NoError(t, err)
	for _, r := range readers {
		require.NoError(t, buf.EnableReader(r))
	}

	// A BLOCKING overrun can truncate a Write mid-frame, and the retry for
	// the remainder is itself just another Write call racing every other
	// writer's frames for the next reservation. Without serialization, some
	// other writer's complete frame could land between a frame's
	// header-and-partial-payload and its remainder, interleaving two
	// writers' bytes inside what the reassembler treats as one frame. frameMu
	// makes each frame atomic in the underlying byte stream: a writer holds
	// it for every retry needed to land its whole frame before any other
	// writer may start its own.
	var frameMu sync.Mutex

	var wg sync.WaitGroup
	for w := 0; w < numWriters; w++ {
		wg.Add(1)
		writerID := uint32(w)
		writerRng := rand.New(rand.NewSource(int64(w)))
		go func() {
			defer wg.Done()
			written := 0
			for written < payloadBytes {
				n := writerRng.Intn(15) + 1
				if written+n > payloadBytes {
					n = payloadBytes - written
				}
				frame := make([]byte, 8+n)
				putHeader(frame, writerHeader{id: writerID, length: uint32(n)})
				for i := 0; i < n; i++ {
					frame[8+i] = byte((written + i) % 256)
				}

				frameMu.Lock()
				for {
					m, err := buf.Write(frame)
					require.NoError(t, err)
					if m == len(frame) {
						break
					}
					// BLOCKING readers never allow a partial overrun
					// to drop bytes; retry the remainder.
					frame = frame[m:]
					if m == 0 {
						time.Sleep(time.Microsecond)
					}
				}
				frameMu.Unlock()

				written += n
			}
		}()
	}
	wg.Wait()

	// Every BLOCKING reader must eventually drain to IsEmpty once all
	// writers have published and every completion has run.
	deadline := time.Now().Add(2 * time.Second)
	for !buf.IsEmpty() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	require.True(t, buf.IsEmpty(), "expected the buffer to drain once every reader catches up")

	want := make([]byte, payloadBytes)
	for i := range want {
		want[i] = byte(i % 256)
	}
	for i, st := range states {
		st.mu.Lock()
		for w := 0; w < numWriters; w++ {
			require.Equalf(t, want, st.perWriter[w], "reader %d, writer %d stream mismatch", i, w)
		}
		st.mu.Unlock()
	}
}
