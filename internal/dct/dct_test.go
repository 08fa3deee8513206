package dct

import (
	"math"
	"math/rand"
	"testing"

	"github.com/AnyUserName/dctstream/internal/block"
)

func alphaAt(i int) float64 {
	if i == 0 {
		return 1 / math.Sqrt2
	}
	return 1
}

// directTransform evaluates the defining quadruple sum with no
// factorization.  Slow but unarguable.
func directTransform(src *block.Spatial, dst *block.Coeffs) {
	for v := 0; v < block.Dim; v++ {
		for u := 0; u < block.Dim; u++ {
			var s float64
			for y := 0; y < block.Dim; y++ {
				for x := 0; x < block.Dim; x++ {
					s += float64(src[y*block.Dim+x]) *
						math.Cos(float64(2*x+1)*float64(u)*math.Pi/16) *
						math.Cos(float64(2*y+1)*float64(v)*math.Pi/16)
				}
			}
			dst[v*block.Dim+u] = alphaAt(v) * alphaAt(u) * 0.25 * s
		}
	}
}

func randomBlock(rng *rand.Rand) *block.Spatial {
	var b block.Spatial
	for i := range b {
		b[i] = int32(rng.Intn(256) - 128)
	}
	return &b
}

func TestTransformZero(t *testing.T) {
	var src block.Spatial
	var dst block.Coeffs
	Transform(&src, &dst)
	for i, c := range dst {
		if c != 0 {
			t.Fatalf("coefficient %d = %g, want exactly 0", i, c)
		}
	}
}

func TestTransformUniform(t *testing.T) {
	for _, k := range []int32{-128, -1, 1, 35, 127} {
		var src block.Spatial
		for i := range src {
			src[i] = k
		}
		var dst block.Coeffs
		Transform(&src, &dst)

		// The DC of a constant block is float-exact, not just close:
		// quantization boundaries like 1016/16 = 63.5 depend on it.
		if got, want := dst[0], 8*float64(k); got != want {
			t.Errorf("k=%d: DC = %g, want exactly %g", k, got, want)
		}
		for i := 1; i < block.Len; i++ {
			if math.Abs(dst[i]) > 1e-9 {
				t.Errorf("k=%d: AC %d = %g, want 0", k, i, dst[i])
			}
		}
	}
}

func TestTransformDCIsScaledMean(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := randomBlock(rng)

	var sum float64
	for _, v := range src {
		sum += float64(v)
	}

	var dst block.Coeffs
	Transform(src, &dst)
	if want := sum / 8; math.Abs(dst[0]-want) > 1e-9 {
		t.Errorf("DC = %g, want sum/8 = %g", dst[0], want)
	}
}

func TestTransformMatchesDirect(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 50; trial++ {
		src := randomBlock(rng)

		var sep, dir block.Coeffs
		Transform(src, &sep)
		directTransform(src, &dir)

		for i := range sep {
			if math.Abs(sep[i]-dir[i]) > 1e-9 {
				t.Fatalf("trial %d, coefficient %d: separable %g, direct %g",
					trial, i, sep[i], dir[i])
			}
		}
	}
}

// The orthonormal transform preserves energy: Σ coeff² == Σ sample².
func TestTransformPreservesEnergy(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		src := randomBlock(rng)

		var spatial float64
		for _, v := range src {
			spatial += float64(v) * float64(v)
		}

		var dst block.Coeffs
		Transform(src, &dst)
		var freq float64
		for _, c := range dst {
			freq += c * c
		}

		if spatial == 0 {
			continue
		}
		if rel := math.Abs(freq-spatial) / spatial; rel > 1e-9 {
			t.Fatalf("trial %d: energy %g vs %g (rel %g)", trial, freq, spatial, rel)
		}
	}
}
