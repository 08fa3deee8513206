// Package ycbcr converts interleaved RGB samples into the three planar
// channels the coding pipeline consumes (ITU-R BT.601, full range).
//
// Performance design:
//   - Scaled-integer coefficients (×1e6): the luma row sums to exactly
//     1_000_000 and both chroma rows to exactly 0, so neutral grays map to
//     (v, 128, 128) with no floating-point drift
//   - Per-byte product tables built at init (9 × 256 × 4 bytes = 9 KB),
//     pure add + divide per pixel
//   - Fast paths: NRGBA, RGBA, Gray — zero image.At calls
//   - Results land in [0, 255] by construction, no clamp in the hot loop
package ycbcr

import (
	"image"
	"image/color"

	"github.com/AnyUserName/dctstream/internal/plane"
)

// Coefficients scaled by 1e6.  Worst-case accumulator magnitude is
// 255_500_000, well inside int32.
const (
	scale = 1_000_000
	bias  = 128 * scale
)

// ─── per-byte product tables ─────────────────────────────────
var (
	yFromR, yFromG, yFromB    [256]int32 // Y  = (yFromR[r]+yFromG[g]+yFromB[b]) / scale
	cbFromR, cbFromG, cbFromB [256]int32 // Cb = (bias+cbFromR[r]+cbFromG[g]+cbFromB[b]) / scale
	crFromR, crFromG, crFromB [256]int32 // Cr = (bias+crFromR[r]+crFromG[g]+crFromB[b]) / scale
)

func init() {
	for i := int32(0); i < 256; i++ {
		yFromR[i] = 299_000 * i
		yFromG[i] = 587_000 * i
		yFromB[i] = 114_000 * i
		cbFromR[i] = -168_736 * i
		cbFromG[i] = -331_264 * i
		cbFromB[i] = 500_000 * i
		crFromR[i] = 500_000 * i
		crFromG[i] = -418_688 * i
		crFromB[i] = -81_312 * i
	}
}

// Convert maps one RGB triple to (Y, Cb, Cr).  Integer division
// truncates toward zero; every quotient is non-negative.
func Convert(r, g, b uint8) (uint8, uint8, uint8) {
	y := (yFromR[r] + yFromG[g] + yFromB[b]) / scale
	cb := (bias + cbFromR[r] + cbFromG[g] + cbFromB[b]) / scale
	cr := (bias + crFromR[r] + crFromG[g] + crFromB[b]) / scale
	return uint8(y), uint8(cb), uint8(cr)
}

// ─── planar extraction ───────────────────────────────────────

// FromImage splits an image into full-resolution Y, Cb and Cr planes.
// Alpha is ignored; callers needing compositing flatten beforehand.
func FromImage(img image.Image) (y, cb, cr *plane.Plane) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	y = plane.New(w, h)
	cb = plane.New(w, h)
	cr = plane.New(w, h)

	switch src := img.(type) {
	case *image.NRGBA:
		fromPix4(src.Pix, src.Stride, bounds, src.Rect, y, cb, cr)
	case *image.RGBA:
		fromPix4(src.Pix, src.Stride, bounds, src.Rect, y, cb, cr)
	case *image.Gray:
		fromGray(src, bounds, y, cb, cr)
	default:
		fromGeneric(img, bounds, y, cb, cr)
	}
	return y, cb, cr
}

// fromPix4 walks a 4-byte-per-pixel buffer.  NRGBA and RGBA share the
// R,G,B,A layout; the alpha byte is skipped either way.
func fromPix4(pix []uint8, stride int, bounds, rect image.Rectangle, y, cb, cr *plane.Plane) {
	bY := bounds.Min.Y - rect.Min.Y
	bX4 := (bounds.Min.X - rect.Min.X) * 4

	di := 0
	for row := 0; row < y.H; row++ {
		off := (bY+row)*stride + bX4
		for col := 0; col < y.W; col++ {
			r, g, b := pix[off], pix[off+1], pix[off+2]
			y.Pix[di] = uint8((yFromR[r] + yFromG[g] + yFromB[b]) / scale)
			cb.Pix[di] = uint8((bias + cbFromR[r] + cbFromG[g] + cbFromB[b]) / scale)
			cr.Pix[di] = uint8((bias + crFromR[r] + crFromG[g] + crFromB[b]) / scale)
			off += 4
			di++
		}
	}
}

// fromGray exploits r=g=b collapsing the transform to (v, 128, 128).
func fromGray(src *image.Gray, bounds image.Rectangle, y, cb, cr *plane.Plane) {
	bY := bounds.Min.Y - src.Rect.Min.Y
	bX := bounds.Min.X - src.Rect.Min.X

	di := 0
	for row := 0; row < y.H; row++ {
		off := (bY+row)*src.Stride + bX
		di += copy(y.Pix[di:], src.Pix[off:off+y.W])
	}
	for i := range cb.Pix {
		cb.Pix[i] = 128
		cr.Pix[i] = 128
	}
}

// fromGeneric falls back to image.At (interface dispatch per pixel).
// NRGBAModel handles un-premultiplication for exotic source types.
func fromGeneric(img image.Image, bounds image.Rectangle, y, cb, cr *plane.Plane) {
	di := 0
	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			c := color.NRGBAModel.Convert(img.At(px, py)).(color.NRGBA)
			y.Pix[di], cb.Pix[di], cr.Pix[di] = Convert(c.R, c.G, c.B)
			di++
		}
	}
}
