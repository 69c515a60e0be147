package serialdata

import (
	"io"
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"
)

func TestSampleSource_NoDevice(t *testing.T) {
	src := NewSampleSource(Config{Port: "/dev/arduinoplot-does-not-exist"})
	t.Cleanup(func() { src.Close() })

	start := time.Now()
	v := src.Next()
	elapsed := time.Since(start)

	require.Equal(t, float64(NoDeviceValue), v)
	require.Less(t, elapsed, 50*time.Millisecond, "no-device path must not retry")

	r := src.Read()
	require.True(t, r.NoDevice)
	require.Equal(t, float64(NoDeviceValue), r.Value)
}

func TestSampleSource_ParsesLatestLine(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewStreamSource(pr)
	t.Cleanup(func() { pw.Close(); src.Close() })

	_, err := pw.Write([]byte("42.5\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return src.Next() == 42.5
	}, time.Second, time.Millisecond)

	// With a well-formed line in place the first attempt wins.
	start := time.Now()
	v := src.Next()
	require.Equal(t, 42.5, v)
	require.Less(t, time.Since(start), 50*time.Millisecond)

	r := src.Read()
	require.False(t, r.NoDevice)
	require.Equal(t, 42.5, r.Value)
}

func TestSampleSource_FallbackAfterRetries(t *testing.T) {
	pr, pw := io.Pipe()
	src := NewStreamSource(pr)
	t.Cleanup(func() { pw.Close(); src.Close() })

	_, err := pw.Write([]byte("not a number\n"))
	require.NoError(t, err)

	start := time.Now()
	v := src.Next()
	elapsed := time.Since(start)

	require.Equal(t, 0.0, v)
	// The retry budget is bounded: roughly attempts * delay, neither
	// instantaneous nor unbounded.
	require.GreaterOrEqual(t, elapsed, 150*time.Millisecond)
	require.Less(t, elapsed, 2*time.Second)
}

func TestSampleSource_Serial(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	t.Cleanup(func() { master.Close(); slave.Close() })

	src := NewSampleSource(Config{
		Port:    slave.Name(),
		Baud:    9600,
		Timeout: 50 * time.Millisecond,
	})
	t.Cleanup(func() { src.Close() })

	_, err = master.Write([]byte("12.3\n45.6\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return src.Next() == 45.6
	}, time.Second, time.Millisecond)

	require.NoError(t, src.Close())
}
