package encoder

import "github.com/AnyUserName/dctstream/internal/symbol"

// Channel holds one channel's encoded blocks in raster-scan order
// (left-to-right, top-to-bottom).
type Channel struct {
	Name    string // "Y", "Cb" or "Cr"
	BlocksW int
	BlocksH int
	Blocks  []symbol.Block
}

// SymbolBytes is the serialized channel size: one DC byte plus the AC
// stream per block.
func (c *Channel) SymbolBytes() int {
	n := 0
	for i := range c.Blocks {
		n += c.Blocks[i].Size()
	}
	return n
}

// Bytes serializes the channel, blocks concatenated in raster order.
func (c *Channel) Bytes() []byte {
	out := make([]byte, 0, c.SymbolBytes())
	for i := range c.Blocks {
		out = c.Blocks[i].AppendTo(out)
	}
	return out
}

// Result is one image's encoded output, channels in Y, Cb, Cr order.
// Width and Height are the full-resolution dimensions; with subsampling
// the chroma channels carry a quarter of the luma block count.
type Result struct {
	Width      int
	Height     int
	Quality    int // 0 when caller-supplied tables were used
	Subsampled bool
	Channels   [3]Channel
}

// SymbolBytes sums the serialized size of all three channels.
func (r *Result) SymbolBytes() int {
	n := 0
	for i := range r.Channels {
		n += r.Channels[i].SymbolBytes()
	}
	return n
}

// Blocks sums the block count of all three channels.
func (r *Result) Blocks() int {
	n := 0
	for i := range r.Channels {
		n += len(r.Channels[i].Blocks)
	}
	return n
}

// Ratio compares the raw interleaved sample size (three bytes per pixel)
// against the symbol stream.  Larger is better.
func (r *Result) Ratio() float64 {
	sb := r.SymbolBytes()
	if sb == 0 {
		return 0
	}
	return float64(3*r.Width*r.Height) / float64(sb)
}
