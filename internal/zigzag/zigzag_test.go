package zigzag

import (
	"math/rand"
	"testing"

	"github.com/AnyUserName/dctstream/internal/block"
)

// The published scan order, spelled out.
var published = [block.Len]uint8{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

func TestOrderMatchesPublishedTable(t *testing.T) {
	if got := Order(); got != published {
		for s := range got {
			if got[s] != published[s] {
				t.Errorf("step %d: got position %d, want %d", s, got[s], published[s])
			}
		}
	}
}

func TestOrderInverseConsistent(t *testing.T) {
	ord, steps := Order(), Steps()
	var seen [block.Len]bool
	for s, p := range ord {
		if seen[p] {
			t.Fatalf("position %d visited twice", p)
		}
		seen[p] = true
		if int(steps[p]) != s {
			t.Errorf("position %d: step %d, inverse says %d", p, s, steps[p])
		}
	}
}

func TestFlattenUnflattenRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 25; trial++ {
		var src block.Quantized
		for i := range src {
			src[i] = int32(rng.Intn(256) - 128)
		}

		var seq [block.Len]int32
		Flatten(&src, &seq)
		if seq[0] != src[0] {
			t.Fatalf("trial %d: DC moved, seq[0]=%d src[0]=%d", trial, seq[0], src[0])
		}

		var back block.Quantized
		Unflatten(&seq, &back)
		if back != src {
			t.Fatalf("trial %d: round trip altered the block", trial)
		}
	}
}
