package plot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeries_XRangeAuto(t *testing.T) {
	s := NewSeries(1)
	for i := 0; i < 9; i++ {
		s.Append(float64(i))
	}

	// Fewer samples than the window: show the whole window.
	min, max := s.XRange()
	assert.Equal(t, 0.0, min)
	assert.Equal(t, 50.0, max)

	for i := 0; i < 50; i++ {
		s.Append(float64(i))
	}

	// More samples than the window: follow the newest data.
	min, max = s.XRange()
	assert.Equal(t, 10.0, min)
	assert.Equal(t, 60.0, max)
}

func TestSeries_XRangeManual(t *testing.T) {
	s := NewSeries(1)
	b := s.Bounds()
	b.XMin = Bound{Value: 5}
	b.XMax = Bound{Value: 25}
	s.SetBounds(b)

	min, max := s.XRange()
	assert.Equal(t, 5.0, min)
	assert.Equal(t, 25.0, max)
}

func TestSeries_YRangeAuto(t *testing.T) {
	s := NewSeries(1.2)
	s.Append(9.7)
	s.Append(4.4)

	min, max := s.YRange()
	assert.Equal(t, 0.0, min)  // round(1.2) - 1
	assert.Equal(t, 11.0, max) // round(9.7) + 1
}

func TestSeries_YRangeManual(t *testing.T) {
	s := NewSeries(1.2)
	b := s.Bounds()
	b.YMin = Bound{Value: -10}
	b.YMax = Bound{Value: 10}
	s.SetBounds(b)

	min, max := s.YRange()
	assert.Equal(t, -10.0, min)
	assert.Equal(t, 10.0, max)
}

func TestSeries_AppendAndValues(t *testing.T) {
	s := NewSeries(100)
	s.Append(42.5)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []float64{100, 42.5}, s.Values())

	// Values is a copy; mutating it must not touch the series.
	v := s.Values()
	v[0] = -1
	assert.Equal(t, []float64{100, 42.5}, s.Values())
}

func TestSeries_TogglePause(t *testing.T) {
	s := NewSeries(0)
	assert.False(t, s.Paused())
	assert.True(t, s.TogglePause())
	assert.True(t, s.Paused())
	assert.False(t, s.TogglePause())
}
