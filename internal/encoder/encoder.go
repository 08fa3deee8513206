// Package encoder drives the full block-coding pipeline: planar color
// transform, optional 4:2:0 chroma downsampling, level shift, 8x8 forward
// DCT, quantization, zig-zag scan and run-length symbol packing.  The
// output stops at the symbol stream; entropy coding and container framing
// belong to downstream consumers.
//
// Performance design:
//   - Block rows fan out over a semaphore-bounded worker pool writing into
//     disjoint slices of the per-channel result, so output never depends
//     on scheduling and no locks are taken
//   - Per-row scratch (sample, coefficient, quantized and scan buffers)
//     comes from a sync.Pool
//   - An Encoder is immutable after New and safe for concurrent use
package encoder

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/AnyUserName/dctstream/internal/block"
	"github.com/AnyUserName/dctstream/internal/dct"
	"github.com/AnyUserName/dctstream/internal/plane"
	"github.com/AnyUserName/dctstream/internal/quant"
	"github.com/AnyUserName/dctstream/internal/symbol"
	"github.com/AnyUserName/dctstream/internal/ycbcr"
	"github.com/AnyUserName/dctstream/internal/zigzag"
)

// DefaultQuality is used when Options leave Quality at zero.
const DefaultQuality = 75

// Options configure an Encoder.
type Options struct {
	// Quality in [1, 100] selects the standard quantization tables scaled
	// per the libjpeg convention.  Zero means DefaultQuality.  Ignored
	// when Tables is set.
	Quality int

	// Tables supplies caller-owned quantization tables instead of a
	// quality preset.  Validated by New.
	Tables *quant.Pair

	// Subsample halves chroma resolution in both directions (4:2:0).
	// Input dimensions must then be multiples of 16 instead of 8.
	Subsample bool

	// Workers bounds block-row parallelism.  Zero or less means NumCPU.
	Workers int
}

// Encoder turns images or pre-split planes into per-channel symbol streams.
type Encoder struct {
	tables    quant.Pair
	quality   int // 0 when tables were caller-supplied
	subsample bool
	workers   int
}

// New validates the options and builds an immutable Encoder.
func New(opts Options) (*Encoder, error) {
	e := &Encoder{subsample: opts.Subsample, workers: opts.Workers}
	if e.workers <= 0 {
		e.workers = runtime.NumCPU()
	}

	if opts.Tables != nil {
		if err := opts.Tables.Validate(); err != nil {
			return nil, err
		}
		e.tables = *opts.Tables
		return e, nil
	}

	q := opts.Quality
	if q == 0 {
		q = DefaultQuality
	}
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	e.quality = q
	e.tables = quant.TablesForQuality(q)
	return e, nil
}

// Quality returns the effective quality, 0 for caller-supplied tables.
func (e *Encoder) Quality() int { return e.quality }

// Subsampled reports whether chroma planes are downsampled.
func (e *Encoder) Subsampled() bool { return e.subsample }

// ─── scratch pool ────────────────────────────────────────────

type workBuf struct {
	spatial block.Spatial
	freq    block.Coeffs
	quant   block.Quantized
	seq     [block.Len]int32
}

var wbPool = sync.Pool{New: func() any { return new(workBuf) }}

// ─── encoding ────────────────────────────────────────────────

// Encode splits an image into planes and encodes it.  Dimensions must be
// multiples of 16 with subsampling on, 8 with it off.
func (e *Encoder) Encode(img image.Image) (*Result, error) {
	y, cb, cr := ycbcr.FromImage(img)
	return e.EncodePlanes(y, cb, cr)
}

// EncodePlanes encodes three same-sized full-resolution planes.  The
// planes are read-only to the encoder and may be shared.
func (e *Encoder) EncodePlanes(y, cb, cr *plane.Plane) (*Result, error) {
	if cb.W != y.W || cb.H != y.H || cr.W != y.W || cr.H != y.H {
		return nil, fmt.Errorf("encoder: plane sizes differ: Y %dx%d, Cb %dx%d, Cr %dx%d",
			y.W, y.H, cb.W, cb.H, cr.W, cr.H)
	}

	align := block.Dim
	if e.subsample {
		align = 2 * block.Dim // macroblock granularity
	}
	if err := y.CheckMultiple(align); err != nil {
		return nil, err
	}

	chCb, chCr := cb, cr
	if e.subsample {
		var err error
		if chCb, err = plane.Downsample(cb); err != nil {
			return nil, err
		}
		if chCr, err = plane.Downsample(cr); err != nil {
			return nil, err
		}
	}

	res := &Result{
		Width:      y.W,
		Height:     y.H,
		Quality:    e.quality,
		Subsampled: e.subsample,
	}

	planes := [3]*plane.Plane{y, chCb, chCr}
	names := [3]string{"Y", "Cb", "Cr"}
	tabs := [3]*quant.Table{&e.tables.Luma, &e.tables.Chroma, &e.tables.Chroma}

	type rowJob struct {
		ch  string
		p   *plane.Plane
		tab *quant.Table
		by  int
		dst []symbol.Block
	}
	var jobs []rowJob
	for c, p := range planes {
		bw, bh := p.Blocks()
		blocks := make([]symbol.Block, bw*bh)
		res.Channels[c] = Channel{Name: names[c], BlocksW: bw, BlocksH: bh, Blocks: blocks}
		for by := 0; by < bh; by++ {
			jobs = append(jobs, rowJob{
				ch:  names[c],
				p:   p,
				tab: tabs[c],
				by:  by,
				dst: blocks[by*bw : (by+1)*bw],
			})
		}
	}

	errs := make([]error, len(jobs))
	var wg sync.WaitGroup
	sem := make(chan struct{}, e.workers)

	for i, j := range jobs {
		wg.Add(1)
		go func(idx int, jb rowJob) {
			defer wg.Done()
			sem <- struct{}{} // acquire
			defer func() { <-sem }() // release

			errs[idx] = encodeRow(jb.ch, jb.p, jb.tab, jb.by, jb.dst)
		}(i, j)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

// encodeRow runs one block row through transform, quantization and symbol
// packing.  dst is this row's private segment of the channel block slice.
func encodeRow(ch string, p *plane.Plane, tab *quant.Table, by int, dst []symbol.Block) error {
	wb := wbPool.Get().(*workBuf)
	defer wbPool.Put(wb)

	bw, _ := p.Blocks()
	for bx := 0; bx < bw; bx++ {
		p.Block(bx, by, &wb.spatial)
		wb.spatial.LevelShift()
		dct.Transform(&wb.spatial, &wb.freq)
		if err := quant.Quantize(&wb.freq, tab, &wb.quant); err != nil {
			return fmt.Errorf("%s block (%d,%d): %w", ch, bx, by, err)
		}
		zigzag.Flatten(&wb.quant, &wb.seq)
		blk, err := symbol.Encode(wb.seq[:])
		if err != nil {
			return fmt.Errorf("%s block (%d,%d): %w", ch, bx, by, err)
		}
		dst[bx] = blk
	}
	return nil
}
