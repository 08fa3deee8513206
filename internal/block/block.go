// Package block defines the fixed 8x8 sample and coefficient blocks
// shared by every stage of the coding pipeline.
package block

// Dim is the side length of a coding block; Len is its cell count.
const (
	Dim = 8
	Len = Dim * Dim
)

// Spatial holds one 8x8 block of spatial samples in row-major order.
// Plane extraction fills it with unsigned values in [0,255]; LevelShift
// recenters those to [-128,127] for transform input.
type Spatial [Len]int32

// Coeffs holds one 8x8 block of frequency coefficients in row-major
// order, indexed [v*Dim+u] with v the vertical and u the horizontal
// frequency. Cell (0,0) is the DC term.
type Coeffs [Len]float64

// Quantized holds one 8x8 block of quantized coefficients. Every value
// lies in [-128,127]; cell (0,0) is the DC term.
type Quantized [Len]int32

// LevelShift recenters unsigned samples to the signed transform range
// by subtracting 128 from every cell.
func (b *Spatial) LevelShift() {
	for i := range b {
		b[i] -= 128
	}
}
