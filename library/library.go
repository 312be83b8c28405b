// Package library owns the on-disk clip directory and the bounded encoder
// pool that writes to it.
package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/Outurnate/stormwatch/clipid"
	"github.com/Outurnate/stormwatch/frame"
)

// clipNamePattern is the path-traversal guard: anything not matching this
// is rejected by ClipPath.
var clipNamePattern = regexp.MustCompile(`^[A-Za-z0-9+/=]+\.(jpeg|` + videoExt + `)$`)

// Library is the clip store. One Library is shared by the capture worker
// (writer, via SaveClip) and the HTTP surface (reader).
type Library struct {
	dir    string
	sem    *semaphore.Weighted
	logger *zap.Logger
}

// Clip describes one saved recording for the HTTP /clips listing.
type Clip struct {
	ID        clipid.ID
	VideoName string
	ThumbName string
}

// New creates or reuses the library directory and a pool of the given
// worker count. poolSize must be at least 1; ordering guarantees (FIFO
// within a worker) only strictly hold at pool size 1.
func New(dir string, poolSize int, logger *zap.Logger) (*Library, error) {
	if poolSize < 1 {
		poolSize = 1
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create library dir %s: %w", dir, err)
	}
	return &Library{
		dir:    dir,
		sem:    semaphore.NewWeighted(int64(poolSize)),
		logger: logger,
	}, nil
}

// SaveClip synthesizes a ClipID, derives output paths, and enqueues an
// EncoderJob. The call itself never blocks on encoding: it starts a
// goroutine that waits its turn on the pool semaphore.
func (l *Library) SaveClip(frames []frame.Frame, width, height int, fps float64, seekBackThumb int) clipid.ID {
	id := clipid.New()
	job := &EncoderJob{
		Frames:        frames,
		Width:         width,
		Height:        height,
		FPS:           fps,
		SeekBackThumb: seekBackThumb,
		VideoPath:     filepath.Join(l.dir, id.Raw()+"."+videoExt),
		ThumbnailPath: filepath.Join(l.dir, id.Raw()+".jpeg"),
	}

	go func() {
		if err := l.sem.Acquire(context.Background(), 1); err != nil {
			l.logger.Error("acquire encoder slot", zap.Error(err))
			return
		}
		defer l.sem.Release(1)
		job.Run(l.logger)
	}()

	return id
}

// SaveClipDiscardingID adapts SaveClip to the capture worker's clipSaver
// function type, which has no use for the generated ClipID.
func (l *Library) SaveClipDiscardingID(frames []frame.Frame, width, height int, fps float64, seekBackThumb int) {
	l.SaveClip(frames, width, height, fps, seekBackThumb)
}

// ListClips enumerates every clip whose thumbnail and video are both
// present — a clip without a written .jpeg is still encoding (or failed)
// and stays hidden, as does a thumbnail whose video file is missing.
func (l *Library) ListClips() ([]Clip, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read dir %s: %w", l.dir, err)
	}

	var clips []Clip
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".jpeg" {
			continue
		}
		raw := name[:len(name)-len(ext)]
		id, err := clipid.Parse(raw)
		if err != nil {
			continue // not a clip we generated; ignore silently
		}
		videoName := raw + "." + videoExt
		if _, err := os.Stat(filepath.Join(l.dir, videoName)); err != nil {
			continue // thumbnail present but video isn't yet; still hide it
		}
		clips = append(clips, Clip{ID: id, VideoName: videoName, ThumbName: name})
	}
	return clips, nil
}

// ClipPath resolves a client-supplied filename to a path inside the
// library directory, or "" if the name fails the path-traversal guard or
// no such file exists there. The pattern admits '/' (it is part of the
// base64 alphabet) but no '.' before the extension, so a name can never
// contain a ".." component.
func (l *Library) ClipPath(name string) string {
	if !clipNamePattern.MatchString(name) {
		return ""
	}
	path := filepath.Join(l.dir, name)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// DeleteClip removes both the video and thumbnail for id, returning true
// only if both existed and were removed.
func (l *Library) DeleteClip(id clipid.ID) bool {
	videoPath := filepath.Join(l.dir, id.Raw()+"."+videoExt)
	thumbPath := filepath.Join(l.dir, id.Raw()+".jpeg")

	videoErr := os.Remove(videoPath)
	thumbErr := os.Remove(thumbPath)
	return videoErr == nil && thumbErr == nil
}
