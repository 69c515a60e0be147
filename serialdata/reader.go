package serialdata

import (
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// idleDelay paces the read loop when the port reports no data, so a
// silent device doesn't turn the reader into a busy loop.
const idleDelay = 5 * time.Millisecond

// A LineReader continuously drains a byte stream in the background and
// keeps only the newest complete line.
//
// The slot holding that line is last-write-wins: the reader overwrites
// it whenever a terminator arrives and never reads it back, so any
// number of consumers may poll Latest at any rate without blocking the
// reader. There is no queue and no history.
type LineReader struct {
	latest atomic.Value // string

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewLineReader starts a background task that reads r until Close is
// called or the read fails.
//
// Reads from r must be bounded (a serial port with a read timeout, a
// stream whose Close unblocks readers) or Close may block for the
// duration of one read.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{done: make(chan struct{})}
	lr.latest.Store("")
	lr.wg.Add(1)
	go lr.readLoop(r)
	return lr
}

// Latest returns the most recently completed line, without its
// terminator. It never blocks. Before the first terminator arrives it
// returns "".
func (lr *LineReader) Latest() string {
	return lr.latest.Load().(string)
}

func (lr *LineReader) readLoop(r io.Reader) {
	defer lr.wg.Done()
	buf := make([]byte, 1024)
	var pending string
	for {
		select {
		case <-lr.done:
			return
		default:
		}

		n, err := r.Read(buf)
		if n > 0 {
			pending += string(buf[:n])
			if strings.IndexByte(pending, '\n') >= 0 {
				// Publish the newest complete line, even when it is
				// empty, and carry the unterminated remainder forward.
				lines := strings.Split(pending, "\n")
				lr.latest.Store(lines[len(lines)-2])
				pending = lines[len(lines)-1]
			}
		}
		switch {
		case err == nil:
		case err == io.EOF:
			// Timeout-bounded port reads surface as EOF with no data.
			// Treat it as idle and keep polling.
			select {
			case <-lr.done:
				return
			case <-time.After(idleDelay):
			}
		default:
			log.Printf("ERROR: read from port: %v", err)
			return
		}
	}
}

// Close stops the background task and waits for it to exit. It does
// not close the underlying stream; that stays with whoever opened it.
// Safe to call multiple times.
func (lr *LineReader) Close() error {
	lr.closeOnce.Do(func() {
		close(lr.done)
		lr.wg.Wait()
	})
	return nil
}
