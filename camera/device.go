package camera

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DeviceConfig describes how to open a capture device.
type DeviceConfig struct {
	Index         int // device index, e.g. /dev/video<Index> on Linux
	RequestWidth  int // 0 means device default
	RequestHeight int
	Bayer         BayerMode
}

// FrameSource is the capture worker's sole collaborator for pulling raw
// pixel data from hardware. It is the seam a test replaces with a
// synthetic source (see camera_test.go): Camera owns every concurrency
// concern, this interface is purely I/O.
type FrameSource interface {
	// Open starts the device and reports its actual resolution and nominal
	// frame rate, which may be 0 if the device doesn't report one.
	Open(ctx context.Context) (width, height int, nominalFPS float64, err error)
	// ReadRaw blocks for the next frame. When Bayer is BayerNone the
	// returned buffer is W*H*3 BGR bytes; otherwise it is a W*H single
	// channel raw Bayer mosaic, still awaiting Demosaic. A nil/empty
	// return signals a blank frame: the caller logs and continues without
	// advancing the ring.
	ReadRaw() ([]byte, error)
	Close() error
}

// FFmpegSource captures raw frames from a V4L2 (or platform-equivalent)
// device by shelling out to ffmpeg: exec.Cmd, a stdout pipe read through
// bufio, and a goroutine draining stderr for diagnostics. Shelling out to
// an external capture/encode binary avoids hand-rolled V4L2/DirectShow/
// AVFoundation bindings, none of which have a usable pure-Go equivalent.
type FFmpegSource struct {
	cfg    DeviceConfig
	logger *zap.Logger

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdout io.ReadCloser
	reader *bufio.Reader

	width, height int
	frameSize     int // bytes per frame; W*H for bayer, W*H*3 for bgr24
}

// NewFFmpegSource constructs a source for the given device config.
func NewFFmpegSource(cfg DeviceConfig, logger *zap.Logger) *FFmpegSource {
	return &FFmpegSource{cfg: cfg, logger: logger}
}

func devicePath(index int) string {
	if runtime.GOOS == "windows" {
		return fmt.Sprintf("video=%d", index)
	}
	return fmt.Sprintf("/dev/video%d", index)
}

// Open starts the ffmpeg subprocess and reports the negotiated resolution.
// Requested dimensions are honored when nonzero; otherwise a conservative
// device default is assumed, since probing true device defaults needs a
// platform-specific API this package does not depend on.
func (s *FFmpegSource) Open(ctx context.Context) (int, int, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	width, height := s.cfg.RequestWidth, s.cfg.RequestHeight
	if width == 0 {
		width = 640
	}
	if height == 0 {
		height = 480
	}

	pixFmt := "bgr24"
	bytesPerPixel := 3
	if s.cfg.Bayer != BayerNone {
		pixFmt = "gray"
		bytesPerPixel = 1
	}

	args := s.ffmpegArgs(width, height, pixFmt)
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return 0, 0, 0, fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return 0, 0, 0, fmt.Errorf("start ffmpeg: %w", err)
	}

	go func() {
		scanner := bufio.NewScanner(stderr)
		for scanner.Scan() {
			s.logger.Debug("ffmpeg", zap.String("line", scanner.Text()))
		}
	}()

	s.cmd = cmd
	s.stdout = stdout
	s.reader = bufio.NewReaderSize(stdout, 1<<20)
	s.width, s.height = width, height
	s.frameSize = width * height * bytesPerPixel

	// ffmpeg's v4l2 input reports its own negotiated rate only via stderr
	// logs we don't parse here; nominalFPS of 0 tells Camera to substitute
	// its 30fps fallback.
	return width, height, 0, nil
}

func (s *FFmpegSource) ffmpegArgs(width, height int, pixFmt string) []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"-f", "dshow",
			"-video_size", fmt.Sprintf("%dx%d", width, height),
			"-i", devicePath(s.cfg.Index),
			"-pix_fmt", pixFmt,
			"-f", "rawvideo", "-",
		}
	case "darwin":
		return []string{
			"-f", "avfoundation",
			"-video_size", fmt.Sprintf("%dx%d", width, height),
			"-i", fmt.Sprintf("%d", s.cfg.Index),
			"-pix_fmt", pixFmt,
			"-f", "rawvideo", "-",
		}
	default:
		return []string{
			"-f", "v4l2",
			"-video_size", fmt.Sprintf("%dx%d", width, height),
			"-i", devicePath(s.cfg.Index),
			"-pix_fmt", pixFmt,
			"-f", "rawvideo", "-",
		}
	}
}

// ReadRaw reads exactly one frame's worth of bytes.
func (s *FFmpegSource) ReadRaw() ([]byte, error) {
	s.mu.Lock()
	reader, size := s.reader, s.frameSize
	s.mu.Unlock()

	if reader == nil {
		return nil, fmt.Errorf("device not open")
	}

	buf := make([]byte, size)
	if _, err := io.ReadFull(reader, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, nil // blank frame: device stream ended or stalled
		}
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return buf, nil
}

// Close stops the ffmpeg subprocess, giving it a short grace period to
// exit on its own before killing it.
func (s *FFmpegSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cmd == nil || s.cmd.Process == nil {
		return nil
	}

	if s.stdout != nil {
		_ = s.stdout.Close()
	}

	done := make(chan error, 1)
	go func() { done <- s.cmd.Wait() }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		_ = s.cmd.Process.Kill()
		<-done
	}
	return nil
}
