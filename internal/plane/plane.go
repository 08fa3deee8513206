// Package plane implements the single-channel sample grids passed
// between pipeline stages, plus the 2x2 chroma downsampling step.
package plane

import (
	"fmt"

	"github.com/AnyUserName/dctstream/internal/block"
)

// DimensionError reports plane dimensions that violate a stage's
// alignment contract.
type DimensionError struct {
	Width, Height int
	Multiple      int // required divisor for both dimensions
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("plane %dx%d: dimensions must be multiples of %d",
		e.Width, e.Height, e.Multiple)
}

// Plane is a 2D grid of unsigned 8-bit samples for one color channel.
// Downstream stages treat an incoming plane as read-only.
type Plane struct {
	W, H int
	Pix  []uint8 // row-major, len W*H
}

// New allocates a zeroed WxH plane.
func New(w, h int) *Plane {
	return &Plane{W: w, H: h, Pix: make([]uint8, w*h)}
}

// Uniform allocates a WxH plane with every sample set to v.
func Uniform(w, h int, v uint8) *Plane {
	p := New(w, h)
	for i := range p.Pix {
		p.Pix[i] = v
	}
	return p
}

// At returns the sample at (x, y). Bounds are the caller's concern.
func (p *Plane) At(x, y int) uint8 { return p.Pix[y*p.W+x] }

// Set writes the sample at (x, y).
func (p *Plane) Set(x, y int, v uint8) { p.Pix[y*p.W+x] = v }

// CheckMultiple verifies both dimensions divide evenly by n.
func (p *Plane) CheckMultiple(n int) error {
	if p.W%n != 0 || p.H%n != 0 {
		return &DimensionError{Width: p.W, Height: p.H, Multiple: n}
	}
	return nil
}

// Blocks returns the 8x8 block-grid dimensions (columns, rows).
func (p *Plane) Blocks() (bw, bh int) {
	return p.W / block.Dim, p.H / block.Dim
}

// Block copies the 8x8 tile at block index (bx, by) into dst. Samples
// stay in their unsigned range; callers LevelShift before transforming.
func (p *Plane) Block(bx, by int, dst *block.Spatial) {
	off := (by*p.W + bx) * block.Dim
	di := 0
	for y := 0; y < block.Dim; y++ {
		row := p.Pix[off : off+block.Dim]
		for x := 0; x < block.Dim; x++ {
			dst[di] = int32(row[x])
			di++
		}
		off += p.W
	}
}

// Downsample halves a plane in both dimensions, replacing each 2x2
// neighborhood with its integer average (floor division, widened
// accumulator). Fails with a DimensionError when either dimension is
// odd.
func Downsample(p *Plane) (*Plane, error) {
	if p.W%2 != 0 || p.H%2 != 0 {
		return nil, &DimensionError{Width: p.W, Height: p.H, Multiple: 2}
	}
	out := New(p.W/2, p.H/2)
	for y := 0; y < out.H; y++ {
		top := 2 * y * p.W
		bot := top + p.W
		di := y * out.W
		for x := 0; x < out.W; x++ {
			x0 := 2 * x
			sum := uint32(p.Pix[top+x0]) + uint32(p.Pix[top+x0+1]) +
				uint32(p.Pix[bot+x0]) + uint32(p.Pix[bot+x0+1])
			out.Pix[di+x] = uint8(sum >> 2)
		}
	}
	return out, nil
}
