// Package ring implements a bounded, pre-allocated circular frame buffer.
package ring

import "github.com/Outurnate/stormwatch/frame"

// Buffer is a fixed-capacity circular buffer of frames. It is written by a
// single producer (the capture worker) and snapshotted by that same
// producer on trigger, so it carries no internal locking.
type Buffer struct {
	frames []frame.Frame
	cursor int
}

// New constructs a Buffer of the given capacity, pre-filled with blank
// frames of the supplied dimensions. Capacity is clamped to at least 1.
func New(capacity, width, height int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	frames := make([]frame.Frame, capacity)
	for i := range frames {
		frames[i] = frame.NewBlank(width, height)
	}
	return &Buffer{frames: frames}
}

// Cap returns the buffer's capacity.
func (b *Buffer) Cap() int {
	return len(b.frames)
}

// Push writes f at the current cursor and advances it, wrapping at
// capacity.
func (b *Buffer) Push(f frame.Frame) {
	b.frames[b.cursor] = f
	b.cursor = (b.cursor + 1) % len(b.frames)
}

// SnapshotOrdered returns a new, owned slice of length Cap()+1 in
// chronological order starting from the oldest retained frame. The last
// element deliberately repeats the oldest frame rather than stopping at
// Cap() — encoder jobs and the thumbnail seek-back math are written
// against this exact length.
func (b *Buffer) SnapshotOrdered() []frame.Frame {
	c := len(b.frames)
	out := make([]frame.Frame, c+1)
	for k := 0; k <= c; k++ {
		out[k] = b.frames[(b.cursor+k)%c].Clone()
	}
	return out
}
