// Package dct implements the forward 8x8 type-II discrete cosine transform
// in its orthonormal form.
//
// Performance design:
//   - Separable row/column passes: 2×8 dot products per output instead of 64
//   - Basis table and the 2-D normalization matrix precomputed at init
//   - Caller-supplied output block, zero allocations per transform
package dct

import (
	"math"

	"github.com/AnyUserName/dctstream/internal/block"
)

// ─── precomputed basis ───────────────────────────────────────
var (
	cosTab [block.Dim][block.Dim]float64 // cosTab[u][x] = cos((2x+1)uπ/16)
	norm   [block.Dim][block.Dim]float64 // norm[v][u] = α(v)α(u)/4, α(0)=1/√2
)

func init() {
	for u := 0; u < block.Dim; u++ {
		for x := 0; x < block.Dim; x++ {
			cosTab[u][x] = math.Cos(float64(2*x+1) * float64(u) * math.Pi / 16)
		}
	}

	// α(0)²/4 collapses to exactly 1/8, which keeps the DC term of a
	// constant block float-exact.  The mixed products are irrational.
	const a0 = 1 / math.Sqrt2
	for v := 0; v < block.Dim; v++ {
		for u := 0; u < block.Dim; u++ {
			switch {
			case v == 0 && u == 0:
				norm[v][u] = 0.125
			case v == 0 || u == 0:
				norm[v][u] = 0.25 * a0
			default:
				norm[v][u] = 0.25
			}
		}
	}
}

// Transform computes the 2-D coefficient block
//
//	dst[v*8+u] = α(v)α(u)/4 · Σy Σx src[y*8+x] · cos((2x+1)uπ/16) · cos((2y+1)vπ/16)
//
// from a level-shifted sample block.  dst[0] is the DC term; a block of
// constant value k transforms to DC exactly 8k with every AC term near
// zero.
func Transform(src *block.Spatial, dst *block.Coeffs) {
	var tmp [block.Len]float64

	// Row pass: 1-D transform along x for every row.
	for y := 0; y < block.Dim; y++ {
		row := src[y*block.Dim : (y+1)*block.Dim]
		for u := 0; u < block.Dim; u++ {
			cos := &cosTab[u]
			var s float64
			for x := 0; x < block.Dim; x++ {
				s += float64(row[x]) * cos[x]
			}
			tmp[y*block.Dim+u] = s
		}
	}

	// Column pass along y, normalization folded in at the end.
	for v := 0; v < block.Dim; v++ {
		cos := &cosTab[v]
		nrm := &norm[v]
		for u := 0; u < block.Dim; u++ {
			var s float64
			for y := 0; y < block.Dim; y++ {
				s += tmp[y*block.Dim+u] * cos[y]
			}
			dst[v*block.Dim+u] = nrm[u] * s
		}
	}
}
