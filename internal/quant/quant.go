// Package quant applies quality-scaled quantization tables to frequency
// blocks, reducing coefficients to the signed 8-bit range the symbol
// encoder consumes.
package quant

import (
	"fmt"
	"math"

	"github.com/AnyUserName/dctstream/internal/block"
)

// ─── errors ──────────────────────────────────────────────────

// ConfigError reports a quantization table entry outside the positive range.
type ConfigError struct {
	Index int
	Value int32
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("quantization table entry %d is %d, must be >= 1", e.Index, e.Value)
}

// RangeError reports a quantized coefficient that left the signed 8-bit range.
type RangeError struct {
	Index int
	Value int32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("quantized coefficient %d at position %d outside [-128, 127]", e.Value, e.Index)
}

// ─── tables ──────────────────────────────────────────────────

// Table is an 8x8 quantization matrix in natural (raster) order.
type Table [block.Len]int32

// Pair bundles the luma and chroma tables used for one encode.
type Pair struct {
	Luma   Table
	Chroma Table
}

// Luminance and Chrominance are the standard base matrices, tuned for
// quality 50.
var Luminance = Table{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

var Chrominance = Table{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// ForQuality scales a base table using the libjpeg convention: quality 50
// keeps the base entries, lower qualities grow them, higher qualities
// shrink them.  Quality is clamped to [1, 100], entries to [1, 255].
func ForQuality(base *Table, quality int) Table {
	q := quality
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}

	var scale int32
	if q < 50 {
		scale = int32(5000 / q)
	} else {
		scale = int32(200 - 2*q)
	}

	var out Table
	for i, e := range base {
		v := (e*scale + 50) / 100
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		out[i] = v
	}
	return out
}

// TablesForQuality returns the standard pair scaled to the given quality.
func TablesForQuality(quality int) Pair {
	return Pair{
		Luma:   ForQuality(&Luminance, quality),
		Chroma: ForQuality(&Chrominance, quality),
	}
}

// Validate reports the first non-positive entry.
func (t *Table) Validate() error {
	for i, e := range t {
		if e < 1 {
			return &ConfigError{Index: i, Value: e}
		}
	}
	return nil
}

// Validate checks both tables of the pair.
func (p *Pair) Validate() error {
	if err := p.Luma.Validate(); err != nil {
		return fmt.Errorf("luma: %w", err)
	}
	if err := p.Chroma.Validate(); err != nil {
		return fmt.Errorf("chroma: %w", err)
	}
	return nil
}

// ─── quantization ────────────────────────────────────────────

// Quantize divides each coefficient by its table entry, rounding half away
// from zero.  A quotient outside the signed 8-bit coefficient range fails
// with a RangeError rather than saturating.
func Quantize(src *block.Coeffs, tab *Table, dst *block.Quantized) error {
	for i, c := range src {
		v := int32(math.Round(c / float64(tab[i])))
		if v < -128 || v > 127 {
			return &RangeError{Index: i, Value: v}
		}
		dst[i] = v
	}
	return nil
}
