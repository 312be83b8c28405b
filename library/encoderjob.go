package library

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"github.com/Outurnate/stormwatch/frame"
)

const (
	videoExt          = "mp4"
	thumbnailWidth    = 128
	thumbnailHeight   = 96
	maxFPSDenominator = 16
)

// EncoderJob is a one-shot unit of work: encode a frame sequence to a video
// file and a representative thumbnail, then terminate. It is value-closed
// over its own frames so it shares nothing with the capture worker once
// enqueued.
type EncoderJob struct {
	Frames           []frame.Frame
	Width, Height    int
	FPS              float64
	SeekBackThumb    int
	VideoPath        string
	ThumbnailPath    string
}

// Run executes the job. Any failure is logged and the job simply stops;
// errors never propagate to the capture worker.
func (j *EncoderJob) Run(logger *zap.Logger) {
	if err := j.encodeVideo(logger); err != nil {
		logger.Error("encode video failed", zap.String("path", j.VideoPath), zap.Error(err))
		return
	}
	if err := j.writeThumbnail(); err != nil {
		logger.Error("write thumbnail failed", zap.String("path", j.ThumbnailPath), zap.Error(err))
	}
}

func (j *EncoderJob) encodeVideo(logger *zap.Logger) error {
	num, den := NearestRational(j.FPS, maxFPSDenominator)
	args := []string{
		"-y",
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-s", fmt.Sprintf("%dx%d", j.Width, j.Height),
		"-r", fmt.Sprintf("%d/%d", num, den),
		"-i", "-",
		"-an",
		"-c:v", "libx264",
		"-qp", "0",
		j.VideoPath,
	}
	cmd := exec.Command("ffmpeg", args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start ffmpeg: %w", err)
	}

	writer := bufio.NewWriter(stdin)
	written, skipped := 0, 0
	for _, f := range j.Frames {
		if f.Empty() {
			skipped++
			continue
		}
		if _, err := writer.Write(f.Pix); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write frame %d: %w", written, err)
		}
		written++
	}
	if err := writer.Flush(); err != nil {
		_ = stdin.Close()
		_ = cmd.Wait()
		return fmt.Errorf("flush: %w", err)
	}
	_ = stdin.Close()

	logger.Info("encoded clip",
		zap.String("path", j.VideoPath),
		zap.Int("frames_written", written),
		zap.Int("frames_skipped", skipped))

	return cmd.Wait()
}

func (j *EncoderJob) writeThumbnail() error {
	idx := len(j.Frames) - j.SeekBackThumb
	if idx < 0 || idx >= len(j.Frames) || j.Frames[idx].Empty() {
		idx = len(j.Frames) - 1 // fall back to the final frame
	}
	if idx < 0 {
		return fmt.Errorf("no frames to thumbnail")
	}
	source := j.Frames[idx]
	if source.Empty() {
		return fmt.Errorf("selected thumbnail frame is empty")
	}

	thumb := imaging.Resize(source.Image(), thumbnailWidth, thumbnailHeight, imaging.Lanczos)

	out, err := os.Create(j.ThumbnailPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", j.ThumbnailPath, err)
	}
	defer out.Close()

	return imaging.Encode(out, thumb, imaging.JPEG, imaging.JPEGQuality(100))
}
