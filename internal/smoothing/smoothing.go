// Package smoothing turns the noisy raw cursor position into a stable one.
//
// A Smoother chains three filters in a fixed order: exponential smoothing,
// a moving average and a dead zone. Each filter is usable on its own.
package smoothing

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Default smoothing parameters.
const (
	DefaultWindowSize = 10
	DefaultDeadZone   = 8.0
	DefaultAlpha      = 0.5
)

// ExponentialFilter applies exponential smoothing per axis.
// Higher alpha is more responsive, lower alpha is smoother.
type ExponentialFilter struct {
	alpha  float64
	prevX  float64
	prevY  float64
	seeded bool
}

// NewExponentialFilter creates an ExponentialFilter. Alpha is clamped to [0, 1].
func NewExponentialFilter(alpha float64) *ExponentialFilter {
	return &ExponentialFilter{alpha: math.Max(0, math.Min(1, alpha))}
}

// Update returns alpha*raw + (1-alpha)*previous. The first call after
// construction or Reset passes the input through and seeds the filter.
func (f *ExponentialFilter) Update(x, y float64) (float64, float64) {
	if !f.seeded {
		f.prevX, f.prevY = x, y
		f.seeded = true
		return x, y
	}

	// Written as prev + alpha*(raw-prev) so a constant input is reproduced exactly.
	f.prevX += f.alpha * (x - f.prevX)
	f.prevY += f.alpha * (y - f.prevY)
	return f.prevX, f.prevY
}

// Reset forgets the previous value.
func (f *ExponentialFilter) Reset() {
	f.prevX, f.prevY = 0, 0
	f.seeded = false
}

// MovingAverageFilter averages the last N inputs per axis.
type MovingAverageFilter struct {
	windowSize int
	xs         []float64
	ys         []float64
	scratch    []float64
}

// NewMovingAverageFilter creates a MovingAverageFilter. Window sizes below 1 are treated as 1.
func NewMovingAverageFilter(windowSize int) *MovingAverageFilter {
	if windowSize < 1 {
		windowSize = 1
	}
	return &MovingAverageFilter{
		windowSize: windowSize,
		xs:         make([]float64, 0, windowSize),
		ys:         make([]float64, 0, windowSize),
		scratch:    make([]float64, 0, windowSize),
	}
}

// Update adds a position to the history, evicting the oldest once the window
// is full, and returns the mean of the history.
func (f *MovingAverageFilter) Update(x, y float64) (float64, float64) {
	f.xs = push(f.xs, x, f.windowSize)
	f.ys = push(f.ys, y, f.windowSize)
	return f.mean(f.xs), f.mean(f.ys)
}

// Len returns the number of positions currently held.
func (f *MovingAverageFilter) Len() int {
	return len(f.xs)
}

// Reset clears the history.
func (f *MovingAverageFilter) Reset() {
	f.xs = f.xs[:0]
	f.ys = f.ys[:0]
}

// mean averages values relative to the oldest sample, which keeps the result
// exact for a constant history.
func (f *MovingAverageFilter) mean(values []float64) float64 {
	ref := values[0]
	f.scratch = append(f.scratch[:0], values...)
	floats.AddConst(-ref, f.scratch)
	return ref + stat.Mean(f.scratch, nil)
}

func push(buf []float64, v float64, size int) []float64 {
	if len(buf) >= size {
		copy(buf, buf[1:])
		buf = buf[:size-1]
	}
	return append(buf, v)
}

// DeadZoneFilter suppresses movements no larger than a threshold, measured
// from the last emitted position.
type DeadZoneFilter struct {
	threshold float64
	lastX     float64
	lastY     float64
	anchored  bool
}

// NewDeadZoneFilter creates a DeadZoneFilter with the threshold in pixels.
func NewDeadZoneFilter(threshold float64) *DeadZoneFilter {
	return &DeadZoneFilter{threshold: threshold}
}

// Update returns the new position if it moved more than the threshold from the
// last emitted one, otherwise the last emitted position.
func (f *DeadZoneFilter) Update(x, y float64) (float64, float64) {
	if !f.anchored {
		f.lastX, f.lastY = x, y
		f.anchored = true
		return x, y
	}

	if math.Hypot(x-f.lastX, y-f.lastY) > f.threshold {
		f.lastX, f.lastY = x, y
	}
	return f.lastX, f.lastY
}

// Reset forgets the anchor position.
func (f *DeadZoneFilter) Reset() {
	f.lastX, f.lastY = 0, 0
	f.anchored = false
}

// Smoother is the combined cursor filter. Its three stages share one lifecycle:
// Reset always clears all of them together.
type Smoother struct {
	exponential *ExponentialFilter
	average     *MovingAverageFilter
	deadZone    *DeadZoneFilter
}

// NewSmoother creates a Smoother from the moving-average window, the dead-zone
// threshold in pixels and the exponential alpha.
func NewSmoother(windowSize int, deadZone, alpha float64) *Smoother {
	return &Smoother{
		exponential: NewExponentialFilter(alpha),
		average:     NewMovingAverageFilter(windowSize),
		deadZone:    NewDeadZoneFilter(deadZone),
	}
}

// NewDefaultSmoother creates a Smoother with the default parameters.
func NewDefaultSmoother() *Smoother {
	return NewSmoother(DefaultWindowSize, DefaultDeadZone, DefaultAlpha)
}

// Update runs a raw position through exponential smoothing, the moving average
// and the dead zone, in that order.
func (s *Smoother) Update(x, y float64) (float64, float64) {
	x, y = s.exponential.Update(x, y)
	x, y = s.average.Update(x, y)
	return s.deadZone.Update(x, y)
}

// Reset clears all filter state so the next Update passes its input through.
func (s *Smoother) Reset() {
	s.exponential.Reset()
	s.average.Reset()
	s.deadZone.Reset()
}
