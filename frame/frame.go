// Package frame defines the pixel buffer shared by capture, the trigger,
// the ring buffer, and the encoder. Frames are always BGR, 8 bits per
// channel, row-major with no padding between rows.
package frame

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
)

// Frame is a decoded camera image: W×H pixels, three 8-bit BGR channels.
type Frame struct {
	Width, Height int
	Pix           []byte // len == Width*Height*3, BGR per pixel
}

// NewBlank returns a frame of the given dimensions with every pixel black.
// The ring buffer is pre-filled with these so snapshots are always
// well-defined.
func NewBlank(width, height int) Frame {
	return Frame{Width: width, Height: height, Pix: make([]byte, width*height*3)}
}

// Empty reports whether the frame carries no pixel data: the
// uninitialized-ring-slot case the thumbnail fallback logic guards against.
func (f Frame) Empty() bool {
	return len(f.Pix) == 0
}

// Clone returns a deep copy, isolating the caller from further writes to
// the ring slot this frame came from.
func (f Frame) Clone() Frame {
	if f.Pix == nil {
		return Frame{Width: f.Width, Height: f.Height}
	}
	pix := make([]byte, len(f.Pix))
	copy(pix, f.Pix)
	return Frame{Width: f.Width, Height: f.Height, Pix: pix}
}

// MeanIntensity is the arithmetic mean of every pixel channel value,
// clamped to a byte. This is the brightness signal the trigger watches.
func (f Frame) MeanIntensity() uint8 {
	if len(f.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, b := range f.Pix {
		sum += uint64(b)
	}
	mean := sum / uint64(len(f.Pix))
	if mean > 255 {
		mean = 255
	}
	return uint8(mean)
}

// Image converts the frame to a standard library image.Image (RGBA, BGR
// channels swapped to RGB) for JPEG encoding or resizing.
func (f Frame) Image() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			i := (y*f.Width + x) * 3
			if i+2 >= len(f.Pix) {
				continue
			}
			b, g, r := f.Pix[i], f.Pix[i+1], f.Pix[i+2]
			img.Set(x, y, color.NRGBA{R: r, G: g, B: b, A: 255})
		}
	}
	return img
}

// EncodeJPEG encodes the frame as a best-quality JPEG.
func (f Frame) EncodeJPEG() ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, f.Image(), &jpeg.Options{Quality: 100}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
