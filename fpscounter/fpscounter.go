// Package fpscounter tracks instantaneous and smoothed frame rate.
package fpscounter

import (
	"time"

	"github.com/Outurnate/stormwatch/avg"
)

// DefaultSamples is the window size used when none is given.
const DefaultSamples = 5

// Counter holds the wall-clock time of the last Update and a moving average
// of recent instantaneous frame rates. Not safe for concurrent use.
type Counter struct {
	last    time.Time
	samples *avg.MovingAverage[float64]
}

// New creates a Counter with the given averaging window.
func New(samplesToAverage int) *Counter {
	if samplesToAverage < 1 {
		samplesToAverage = DefaultSamples
	}
	return &Counter{
		last:    time.Now(),
		samples: avg.New(samplesToAverage, 0.0),
	}
}

// Update records the elapsed time since the last Update (or since New, for
// the first call) as an instantaneous FPS sample and resets the clock. The
// very first Update can produce an extremely large instantaneous value
// since little time has elapsed; the moving window absorbs this.
func (c *Counter) Update() {
	c.samples.Push(c.instantFPS())
	c.last = time.Now()
}

func (c *Counter) instantFPS() float64 {
	elapsedMs := float64(time.Since(c.last)) / float64(time.Millisecond)
	if elapsedMs <= 0 {
		elapsedMs = 1e-6
	}
	return 1000.0 / elapsedMs
}

// FPS returns the instantaneous frame rate as of now, without recording a
// sample.
func (c *Counter) FPS() float64 {
	return c.instantFPS()
}

// Averaged returns the moving-window mean of recorded instantaneous rates.
func (c *Counter) Averaged() float64 {
	return c.samples.Mean()
}
