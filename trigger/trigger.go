// Package trigger implements a stateful brightness-edge detector with
// debounce and a post-trigger delay.
package trigger

import (
	"math"

	"github.com/Outurnate/stormwatch/avg"
	"github.com/Outurnate/stormwatch/frame"
)

// Config holds the tunable inputs a Trigger is constructed from.
type Config struct {
	FPS                  float64
	EdgeDetectionSeconds float64
	DebounceSeconds      float64
	TriggerDelay         float64
	TriggerThreshold     float64 // 0-255
}

// Trigger is a stateful brightness-edge detector with debounce and a
// post-trigger delay. One Trigger is owned by exactly one Camera capture
// worker; it is not safe for concurrent use.
type Trigger struct {
	window       int // W: baseline window, frames
	debounce     int // D: minimum gap between triggers, frames
	postDelay    int // P: frames of post-event capture
	threshold    uint8

	baseline     *avg.MovingAverage[int]
	debounceLeft int
	delayLeft    int
	armedDelay   bool
	baselineFull bool
	warmupLeft   int
}

// New constructs a Trigger from Config, deriving frame counts for the
// baseline window (W), debounce gap (D), and post-trigger delay (P) from
// the configured seconds values and FPS.
func New(cfg Config) *Trigger {
	window := round(cfg.EdgeDetectionSeconds * cfg.FPS)
	if window < 1 {
		window = 1
	}
	debounce := round(cfg.DebounceSeconds * cfg.FPS)
	postDelay := round(cfg.TriggerDelay * cfg.FPS)
	threshold := cfg.TriggerThreshold
	if threshold < 0 {
		threshold = 0
	}
	if threshold > 255 {
		threshold = 255
	}

	return &Trigger{
		window:     window,
		debounce:   debounce,
		postDelay:  postDelay,
		threshold:  uint8(threshold),
		baseline:   avg.New(window, 0),
		warmupLeft: window,
	}
}

func round(v float64) int {
	return int(math.Round(v))
}

// ShouldCapture runs one frame through the detector. It returns true
// exactly when a clip should be cut: a full post-trigger delay has
// elapsed since an accepted edge event and at least a full baseline window
// of real samples has been observed since construction.
func (t *Trigger) ShouldCapture(f frame.Frame) bool {
	if t.warmupLeft > 0 {
		t.warmupLeft--
	} else {
		t.baselineFull = true
	}

	b := int(f.MeanIntensity())
	t.baseline.Push(b)
	m := t.baseline.Mean()

	if t.debounceLeft > 0 {
		t.debounceLeft--
	}

	if !t.armedDelay && t.debounceLeft == 0 && b > m && (b-m) > int(t.threshold) {
		t.debounceLeft = t.debounce
		t.delayLeft = t.postDelay
		t.armedDelay = true
	}

	if t.delayLeft > 0 {
		t.delayLeft--
		return false
	}
	if t.armedDelay {
		t.armedDelay = false
		return t.baselineFull
	}
	return false
}

// SeekForThumbnail returns P, the number of post-event frames retained —
// the index (counting back from the end of a clip) the encoder should pick
// the representative thumbnail frame from.
func (t *Trigger) SeekForThumbnail() int {
	return t.postDelay
}
