package serialdata

import (
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/tarm/serial"
)

const (
	// DefaultBaud and DefaultTimeout apply when Config leaves the
	// corresponding field zero.
	DefaultBaud    = 9600
	DefaultTimeout = 100 * time.Millisecond

	// NoDeviceValue is returned by Next when no serial device could be
	// opened, so the full display pipeline can be exercised without
	// hardware attached.
	NoDeviceValue = 100

	parseAttempts = 40
	parseDelay    = 5 * time.Millisecond
)

// Config holds the options for opening the serial device. Framing is
// fixed at 8 data bits, no parity, 1 stop bit, no flow control.
type Config struct {
	Port    string
	Baud    int
	Timeout time.Duration
}

// A SampleSource turns whatever the device most recently sent into a
// usable number, one value per request, tolerating transient garbage.
type SampleSource struct {
	port   io.Closer
	reader *LineReader
}

// Reading is the tagged result of a sample request. NoDevice marks the
// fixed stand-in value produced when no device is attached; callers
// that only want the number can ignore it.
type Reading struct {
	Value    float64
	NoDevice bool
}

// NewSampleSource opens the configured serial port and starts reading
// from it. Opening never fails: if the port cannot be opened the
// source stays in no-device mode for its whole lifetime and Next
// returns NoDeviceValue.
func NewSampleSource(cfg Config) *SampleSource {
	if cfg.Baud == 0 {
		cfg.Baud = DefaultBaud
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	port, err := serial.OpenPort(&serial.Config{
		Name:        cfg.Port,
		Baud:        cfg.Baud,
		ReadTimeout: cfg.Timeout,
		Size:        8,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	})
	if err != nil {
		// No serial connection; run without one.
		log.Printf("open '%s': %v (continuing without a device)", cfg.Port, err)
		return &SampleSource{}
	}

	return &SampleSource{
		port:   port,
		reader: NewLineReader(port),
	}
}

// NewStreamSource wraps an already-open byte stream, such as a port
// streamed from an SPJS server. Reads from the stream must be bounded,
// like the serial port's timeout reads, or Close may block for the
// duration of one read.
func NewStreamSource(rc io.ReadCloser) *SampleSource {
	return &SampleSource{
		port:   rc,
		reader: NewLineReader(rc),
	}
}

// Next returns the next sample. It parses the latest complete line
// from the device, retrying for a short while when the line is empty
// or malformed, and always produces a number:
//
//   - no device: NoDeviceValue, immediately
//   - latest line parses as a float: that value
//   - nothing parseable within the retry budget: 0
func (s *SampleSource) Next() float64 {
	if s.reader == nil {
		return NoDeviceValue
	}
	for i := 0; i < parseAttempts; i++ {
		raw := s.reader.Latest()
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil {
			return v
		}
		log.Printf("bogus data %q", raw)
		time.Sleep(parseDelay)
	}
	return 0
}

// Read is the tagged form of Next.
func (s *SampleSource) Read() Reading {
	if s.reader == nil {
		return Reading{Value: NoDeviceValue, NoDevice: true}
	}
	return Reading{Value: s.Next()}
}

// Close stops the background reader, waits for it to exit, and then
// closes the device. Safe to call on a no-device source.
func (s *SampleSource) Close() error {
	if s.reader == nil {
		return nil
	}
	// The read timeout bounds the join; close the handle only after
	// the reader is done with it.
	s.reader.Close()
	return s.port.Close()
}
