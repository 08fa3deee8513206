// Package zigzag orders quantized coefficients along the anti-diagonals of
// the 8x8 block, lowest frequencies first, so that the high-frequency tail
// of typical blocks becomes one long zero run.  The permutation is a pure
// function of the traversal rule, computed once at init and shared
// read-only by every encode.
package zigzag

import "github.com/AnyUserName/dctstream/internal/block"

var (
	order   [block.Len]uint8 // order[s] = raster position visited at scan step s
	inverse [block.Len]uint8 // inverse[p] = scan step visiting raster position p
)

func init() {
	i := 0
	for d := 0; d < 2*block.Dim-1; d++ {
		lo := 0
		if d >= block.Dim {
			lo = d - block.Dim + 1
		}
		hi := d - lo
		if d%2 == 1 {
			// Odd diagonals walk down-left.
			for r := lo; r <= hi; r++ {
				order[i] = uint8(r*block.Dim + d - r)
				i++
			}
		} else {
			// Even diagonals walk up-right.
			for r := hi; r >= lo; r-- {
				order[i] = uint8(r*block.Dim + d - r)
				i++
			}
		}
	}
	for s, p := range order {
		inverse[p] = uint8(s)
	}
}

// Flatten reorders a raster-order quantized block into scan order.
// dst[0] receives the DC coefficient.
func Flatten(src *block.Quantized, dst *[block.Len]int32) {
	for s, p := range order {
		dst[s] = src[p]
	}
}

// Unflatten inverts Flatten exactly.
func Unflatten(src *[block.Len]int32, dst *block.Quantized) {
	for s, p := range order {
		dst[p] = src[s]
	}
}

// Order returns the scan-to-raster permutation.
func Order() [block.Len]uint8 { return order }

// Steps returns the raster-to-scan inverse.
func Steps() [block.Len]uint8 { return inverse }
