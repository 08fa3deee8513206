// Package symbol performs the run-length step: each zig-zag-ordered
// sequence becomes a DC byte plus (run, size) symbols with an explicit
// end-of-block terminator.
//
// One AC symbol packs a zero run of up to 15 and the bit-length of the
// following amplitude into a single byte (run<<4 | size), followed by the
// amplitude itself as a two's-complement byte.  Runs of 16 or more zeros
// are split with ZRL symbols, emitted lazily: a run that never reaches
// another nonzero coefficient is absorbed by the terminator instead.
package symbol

import (
	"errors"

	"github.com/AnyUserName/dctstream/internal/block"
)

const (
	// EOB terminates every AC stream, with no amplitude byte.
	EOB = 0x00
	// ZRL stands for sixteen consecutive zeros, amplitude byte 0x00.
	ZRL = 0xF0

	maxRun = 15
)

var (
	ErrSequenceLength = errors.New("symbol: sequence must contain exactly 64 coefficients")
	ErrAmplitude      = errors.New("symbol: coefficient outside signed 8-bit range")
)

// bitCount[m] is the number of bits needed for magnitude m, so the size
// field of a nonzero amplitude in [-128, 127] lands in [1, 8].
var bitCount [256]uint8

func init() {
	for i := 1; i < 256; i++ {
		n := uint8(0)
		for v := i; v > 0; v >>= 1 {
			n++
		}
		bitCount[i] = n
	}
}

// Block carries one block's encoded output: the DC value verbatim plus
// the AC symbol stream, terminator included.
type Block struct {
	DC int8
	AC []byte
}

// Size returns the serialized byte count, DC byte included.
func (b *Block) Size() int { return 1 + len(b.AC) }

// AppendTo appends the serialized form: DC byte, then the AC stream.
func (b *Block) AppendTo(dst []byte) []byte {
	dst = append(dst, byte(b.DC))
	return append(dst, b.AC...)
}

// Encode turns one zig-zag-ordered quantized sequence (position 0 = DC,
// 1..63 = AC) into its symbol stream.  The sequence must hold exactly 64
// coefficients, every one inside the signed 8-bit range.
func Encode(seq []int32) (Block, error) {
	if len(seq) != block.Len {
		return Block{}, ErrSequenceLength
	}
	nnz := 0
	for _, v := range seq {
		if v < -128 || v > 127 {
			return Block{}, ErrAmplitude
		}
		if v != 0 {
			nnz++
		}
	}

	// Two bytes per nonzero symbol, at most three ZRL pairs across the 63
	// AC positions, one terminator.  Never regrows.
	b := Block{DC: int8(seq[0]), AC: make([]byte, 0, 2*nnz+7)}

	run := 0
	for _, v := range seq[1:] {
		if v == 0 {
			run++
			continue
		}
		for run > maxRun {
			b.AC = append(b.AC, ZRL, 0x00)
			run -= 16
		}
		m := v
		if m < 0 {
			m = -m
		}
		b.AC = append(b.AC, byte(run)<<4|bitCount[m], byte(int8(v)))
		run = 0
	}

	// Unconditional terminator; any pending run is dropped.
	b.AC = append(b.AC, EOB)
	return b, nil
}
