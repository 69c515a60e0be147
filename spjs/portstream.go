package spjs

import (
	"fmt"
	"io"
	"log"
	"sync"
	"time"
)

// readTimeout bounds a PortStream read the way a serial port's read
// timeout does, so a reader polling the stream never stalls
// indefinitely and can be joined during teardown.
const readTimeout = 100 * time.Millisecond

// A PortStream is the byte stream of one remote port. It implements
// io.ReadCloser with timeout-bounded reads: a read with no data
// returns (0, io.EOF) after the timeout, mimicking a local serial
// port, and resumes delivering bytes on the next call.
type PortStream struct {
	c    *Client
	name string
	baud int

	data      chan []byte
	buf       []byte
	done      chan struct{}
	closeOnce sync.Once
}

// OpenPort asks the server to open the named port at the given baud
// rate and returns its byte stream. The open is re-issued after every
// reconnect until the stream is closed.
func (c *Client) OpenPort(name string, baud int) *PortStream {
	ps := &PortStream{
		c:    c,
		name: name,
		baud: baud,
		data: make(chan []byte, 256),
		done: make(chan struct{}),
	}
	c.mx.Lock()
	c.streams[name] = ps
	c.mx.Unlock()

	c.send(fmt.Sprintf("open %s %d", name, baud))

	return ps
}

func (ps *PortStream) deliver(data []byte) {
	select {
	case ps.data <- data:
	case <-ps.done:
	default:
		// A consumer this far behind only wants the newest data
		// anyway.
		log.Printf("ERROR: dropping %d bytes for port %s (slow consumer)", len(data), ps.name)
	}
}

// Read copies received bytes into p. With no data buffered it waits up
// to the read timeout before returning (0, io.EOF).
func (ps *PortStream) Read(p []byte) (int, error) {
	if len(ps.buf) == 0 {
		select {
		case <-ps.done:
			return 0, io.ErrClosedPipe
		case b := <-ps.data:
			ps.buf = b
		case <-time.After(readTimeout):
			return 0, io.EOF
		}
	}
	n := copy(p, ps.buf)
	ps.buf = ps.buf[n:]
	return n, nil
}

// Close detaches the stream from the client, asks the server to close
// the port, and unblocks any pending Read. Safe to call multiple
// times.
func (ps *PortStream) Close() error {
	ps.closeOnce.Do(func() {
		close(ps.done)
		ps.c.mx.Lock()
		delete(ps.c.streams, ps.name)
		ps.c.mx.Unlock()
		ps.c.send("close " + ps.name)
	})
	return nil
}
