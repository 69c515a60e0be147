// Package plot holds the display-side model of the live chart: the
// growing sample series, the pause switch, and the axis-bound controls
// that pick the visible range on each redraw.
package plot

import (
	"math"
	"sync"
)

// window is the number of samples the chart follows in auto X mode.
const window = 50

// A Bound is one axis limit. In auto mode the limit tracks the data;
// in manual mode it is pinned to Value.
type Bound struct {
	Auto  bool    `json:"auto"`
	Value float64 `json:"value"`
}

// Bounds collects the four axis limits.
type Bounds struct {
	XMin Bound `json:"xmin"`
	XMax Bound `json:"xmax"`
	YMin Bound `json:"ymin"`
	YMax Bound `json:"ymax"`
}

// DefaultBounds returns all four limits in auto mode, with the manual
// values the chart starts from when a limit is switched off auto.
func DefaultBounds() Bounds {
	return Bounds{
		XMin: Bound{Auto: true, Value: 0},
		XMax: Bound{Auto: true, Value: window},
		YMin: Bound{Auto: true, Value: 0},
		YMax: Bound{Auto: true, Value: 100},
	}
}

// A Series is the in-memory sample list behind the chart. It is safe
// for concurrent use by the redraw tick and the control handlers.
type Series struct {
	mx     sync.Mutex
	data   []float64
	bounds Bounds
	paused bool
}

// NewSeries seeds the series with its first sample.
func NewSeries(first float64) *Series {
	return &Series{
		data:   []float64{first},
		bounds: DefaultBounds(),
	}
}

// Append adds one sample to the end of the series.
func (s *Series) Append(v float64) {
	s.mx.Lock()
	s.data = append(s.data, v)
	s.mx.Unlock()
}

// Values returns a copy of the sample list.
func (s *Series) Values() []float64 {
	s.mx.Lock()
	defer s.mx.Unlock()
	out := make([]float64, len(s.data))
	copy(out, s.data)
	return out
}

// Len returns the number of samples appended so far.
func (s *Series) Len() int {
	s.mx.Lock()
	defer s.mx.Unlock()
	return len(s.data)
}

// Paused reports whether the series is accepting new samples.
func (s *Series) Paused() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.paused
}

// TogglePause flips the pause switch and returns the new state.
func (s *Series) TogglePause() bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.paused = !s.paused
	return s.paused
}

// Bounds returns the current axis-bound controls.
func (s *Series) Bounds() Bounds {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.bounds
}

// SetBounds replaces the axis-bound controls.
func (s *Series) SetBounds(b Bounds) {
	s.mx.Lock()
	s.bounds = b
	s.mx.Unlock()
}

// XRange returns the visible X range. Auto mode slides a window over
// the newest samples: the upper bound follows the data once it grows
// past the window, and the lower bound trails it by the window size.
func (s *Series) XRange() (min, max float64) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if s.bounds.XMax.Auto {
		max = math.Max(float64(len(s.data)), window)
	} else {
		max = s.bounds.XMax.Value
	}
	if s.bounds.XMin.Auto {
		min = max - window
	} else {
		min = s.bounds.XMin.Value
	}
	return min, max
}

// YRange returns the visible Y range. Auto mode fits the whole data
// set with a one-unit margin on each side.
func (s *Series) YRange() (min, max float64) {
	s.mx.Lock()
	defer s.mx.Unlock()

	lo, hi := 0.0, 1.0
	if len(s.data) > 0 {
		lo, hi = s.data[0], s.data[0]
		for _, v := range s.data[1:] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}

	if s.bounds.YMin.Auto {
		min = math.Round(lo) - 1
	} else {
		min = s.bounds.YMin.Value
	}
	if s.bounds.YMax.Auto {
		max = math.Round(hi) + 1
	} else {
		max = s.bounds.YMax.Value
	}
	return min, max
}
