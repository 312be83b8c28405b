// Package camera implements the event-triggered capture worker: a single
// owned goroutine that reads frames, feeds them to a brightness trigger and
// a ring buffer, and hands off to the library whenever the trigger fires.
package camera

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/Outurnate/stormwatch/frame"
	"github.com/Outurnate/stormwatch/fpscounter"
	"github.com/Outurnate/stormwatch/ring"
	"github.com/Outurnate/stormwatch/trigger"
)

// Status is the snapshot exposed by GET /stats.
type Status struct {
	Width, Height          int
	NominalFPS, MeasuredFPS float64
}

// clipSaver is the Library capability the capture worker needs, expressed
// as a plain function type so this package never imports library: main.go
// wires (*library.Library).SaveClip in, wrapped to drop its ClipID return
// value.
type clipSaver func(frames []frame.Frame, width, height int, fps float64, seekBackThumb int)

var blackPreviewJPEG []byte

func init() {
	blank := frame.NewBlank(32, 32)
	encoded, err := blank.EncodeJPEG()
	if err != nil {
		panic(fmt.Sprintf("camera: encode fallback preview: %v", err))
	}
	blackPreviewJPEG = encoded
}

// Camera owns the capture worker goroutine and mediates every access to
// the state it shares with HTTP handlers: properties, preview, status.
type Camera struct {
	logger      *zap.Logger
	settings    *Settings
	saveClip    clipSaver
	deviceIndex int
	newSource   func(DeviceConfig, *zap.Logger) FrameSource

	lifecycle sync.Mutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	reloadClean atomic.Bool // test-and-set "settings applied" flag; starts true

	previewMu sync.RWMutex
	preview   frame.Frame

	statusMu sync.RWMutex
	status   Status
}

// New constructs a Camera bound to the given device index and settings
// map. saveClip is normally (*library.Library).SaveClip, wrapped to drop
// its ClipID return value, which the capture loop has no use for.
func New(deviceIndex int, settings *Settings, saveClip func(frames []frame.Frame, width, height int, fps float64, seekBackThumb int), logger *zap.Logger) *Camera {
	c := &Camera{
		logger:      logger,
		settings:    settings,
		saveClip:    saveClip,
		deviceIndex: deviceIndex,
		newSource: func(cfg DeviceConfig, l *zap.Logger) FrameSource {
			return NewFFmpegSource(cfg, l)
		},
	}
	c.reloadClean.Store(true)
	return c
}

// SetProperty writes a value into the in-memory property map. It takes
// effect only once ApplyPropertyChange is called.
func (c *Camera) SetProperty(p Property, value float64) {
	c.settings.Set(p, value)
}

// GetProperty returns the current value of a property.
func (c *Camera) GetProperty(p Property) float64 {
	return c.settings.Get(p)
}

// ApplyPropertyChange arms the reconfiguration flag the worker observes at
// the next frame boundary. Properties affecting startup only (clip length,
// Bayer mode, requested dimensions) require Stop then Start to take effect.
func (c *Camera) ApplyPropertyChange() {
	c.reloadClean.Store(false)
}

// Start spawns the capture worker if one isn't already running. A second
// Start while running is a no-op, logged at info level.
func (c *Camera) Start() {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	if c.running {
		c.logger.Info("start requested while already running")
		return
	}

	clipLength := c.settings.Get(ClipLengthSeconds)
	bayer := BayerMode(int(c.settings.Get(BayerModeProperty)))
	reqWidth := int(c.settings.Get(Width))
	reqHeight := int(c.settings.Get(Height))

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.running = true
	c.wg.Add(1)
	go c.run(ctx, clipLength, bayer, reqWidth, reqHeight)
}

// Stop signals the worker to exit and waits for it to do so. Idempotent.
func (c *Camera) Stop() {
	c.lifecycle.Lock()
	if !c.running {
		c.lifecycle.Unlock()
		return
	}
	cancel := c.cancel
	c.lifecycle.Unlock()

	cancel()
	c.wg.Wait()
}

// IsRunning reports whether the capture worker is active.
func (c *Camera) IsRunning() bool {
	c.lifecycle.Lock()
	defer c.lifecycle.Unlock()
	return c.running
}

// Preview returns a JPEG of the most recent frame that found a free
// preview slot, or a pre-built black 32x32 JPEG when not running or no
// frame has been captured yet. Never blocks on the worker.
func (c *Camera) Preview() []byte {
	if c.IsRunning() {
		c.previewMu.RLock()
		f := c.preview
		c.previewMu.RUnlock()
		if !f.Empty() {
			if encoded, err := f.EncodeJPEG(); err == nil {
				return encoded
			}
		}
	}
	return blackPreviewJPEG
}

// PreviewIsFallback reports whether Preview would currently return the
// black placeholder, useful for tests asserting on the fallback path
// without comparing JPEG bytes.
func (c *Camera) PreviewIsFallback() bool {
	return bytes.Equal(c.Preview(), blackPreviewJPEG)
}

// GetStatus returns a snapshot of resolution and frame rates.
func (c *Camera) GetStatus() Status {
	c.statusMu.RLock()
	defer c.statusMu.RUnlock()
	return c.status
}

func (c *Camera) triggerConfig(nominalFPS float64) trigger.Config {
	return trigger.Config{
		FPS:                  nominalFPS,
		EdgeDetectionSeconds: c.settings.Get(EdgeDetectionSeconds),
		DebounceSeconds:      c.settings.Get(DebounceSeconds),
		TriggerDelay:         c.settings.Get(TriggerDelay),
		TriggerThreshold:     c.settings.Get(TriggerThreshold),
	}
}

// run is the capture worker body. It owns the ring buffer, the trigger,
// and the FPS counter outright; it only ever reads settings, and inside the
// capture loop it only try-locks preview/status so a slow reader never
// stalls capture (the one-time status write after opening the device takes
// the lock outright).
func (c *Camera) run(ctx context.Context, clipLengthSeconds float64, bayer BayerMode, reqWidth, reqHeight int) {
	defer c.wg.Done()
	defer func() {
		c.lifecycle.Lock()
		c.running = false
		cancel := c.cancel
		c.lifecycle.Unlock()
		cancel()
	}()

	source := c.newSource(DeviceConfig{
		Index:         c.deviceIndex,
		RequestWidth:  reqWidth,
		RequestHeight: reqHeight,
		Bayer:         bayer,
	}, c.logger)

	width, height, nominalFPS, err := source.Open(ctx)
	if err != nil {
		c.logger.Error("device open failed, worker exiting", zap.Error(err))
		return
	}
	defer source.Close()

	if nominalFPS <= 0 {
		nominalFPS = 30
	}

	ringSize := int(math.Ceil(clipLengthSeconds * nominalFPS))
	if ringSize < 1 {
		ringSize = 1
	}
	rb := ring.New(ringSize, width, height)
	fps := fpscounter.New(fpscounter.DefaultSamples)
	trig := trigger.New(c.triggerConfig(nominalFPS))

	c.statusMu.Lock()
	c.status = Status{Width: width, Height: height, NominalFPS: nominalFPS}
	c.statusMu.Unlock()

	c.logger.Info("capture worker started",
		zap.Int("width", width), zap.Int("height", height),
		zap.Float64("nominal_fps", nominalFPS))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("capture worker stopping")
			return
		default:
		}

		raw, err := source.ReadRaw()
		if err != nil {
			c.logger.Warn("capture read error", zap.Error(err))
			continue
		}
		if len(raw) == 0 {
			c.logger.Debug("blank frame")
			continue
		}

		var f frame.Frame
		if bayer != BayerNone {
			f = Demosaic(raw, width, height, bayer)
		} else {
			f = frame.Frame{Width: width, Height: height, Pix: raw}
		}

		rb.Push(f.Clone())

		if !c.reloadClean.Swap(true) {
			trig = trigger.New(c.triggerConfig(nominalFPS))
			c.logger.Info("trigger reconfigured")
		}

		if trig.ShouldCapture(f) {
			snapshot := rb.SnapshotOrdered()
			c.saveClip(snapshot, width, height, nominalFPS, trig.SeekForThumbnail())
		}

		fps.Update()

		if c.previewMu.TryLock() {
			c.preview = f.Clone()
			c.previewMu.Unlock()
		}

		if c.statusMu.TryLock() {
			c.status.MeasuredFPS = fps.Averaged()
			c.statusMu.Unlock()
		}
	}
}
