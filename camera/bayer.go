package camera

import "github.com/Outurnate/stormwatch/frame"

// BayerMode selects a raw-sensor mosaic pattern that must be demosaiced to
// obtain a color frame.
type BayerMode int

const (
	BayerNone BayerMode = 0
	BayerBG   BayerMode = 1
	BayerGB   BayerMode = 2
	BayerRG   BayerMode = 3
	BayerGR   BayerMode = 4
)

// Demosaic converts a single-channel raw Bayer buffer of size W*H into a
// BGR frame using nearest-neighbor 2x2 block expansion: each 2x2 tile of
// raw samples yields one RGB triple, replicated across the tile. This is a
// deliberately simple algorithm chosen for portability — no cgo image
// library dependency is needed to get a usable color frame out of a raw
// mosaic.
func Demosaic(raw []byte, width, height int, mode BayerMode) frame.Frame {
	out := frame.NewBlank(width, height)
	if mode == BayerNone {
		copy(out.Pix, raw)
		return out
	}

	// rPos, g1Pos, g2Pos and bPos give the sample positions within a 2x2
	// tile for the selected mode, reading row-major: position 0 = top-left, 1 = top-right,
	// 2 = bottom-left, 3 = bottom-right.
	var rPos, g1Pos, g2Pos, bPos int
	switch mode {
	case BayerBG: // top-left blue, top-right green, bottom-left green, bottom-right red
		bPos, g1Pos, g2Pos, rPos = 0, 1, 2, 3
	case BayerGB: // top-left green, top-right blue, bottom-left red, bottom-right green
		g1Pos, bPos, rPos, g2Pos = 0, 1, 2, 3
	case BayerRG: // top-left red, top-right green, bottom-left green, bottom-right blue
		rPos, g1Pos, g2Pos, bPos = 0, 1, 2, 3
	case BayerGR: // top-left green, top-right red, bottom-left blue, bottom-right green
		g1Pos, rPos, bPos, g2Pos = 0, 1, 2, 3
	}

	for ty := 0; ty+1 < height; ty += 2 {
		for tx := 0; tx+1 < width; tx += 2 {
			tile := [4]byte{
				raw[ty*width+tx],
				raw[ty*width+tx+1],
				raw[(ty+1)*width+tx],
				raw[(ty+1)*width+tx+1],
			}
			r := tile[rPos]
			g := (uint16(tile[g1Pos]) + uint16(tile[g2Pos])) / 2
			b := tile[bPos]

			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					i := ((ty+dy)*width + (tx + dx)) * 3
					out.Pix[i] = b
					out.Pix[i+1] = byte(g)
					out.Pix[i+2] = r
				}
			}
		}
	}
	return out
}
