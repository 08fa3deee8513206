package dump

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/AnyUserName/dctstream/internal/encoder"
)

func testResult(t *testing.T, w, h int) *encoder.Result {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 13), G: uint8(y * 29), B: uint8((x + y) * 7), A: 255,
			})
		}
	}
	enc, err := encoder.New(encoder.Options{Quality: 50, Subsample: true})
	if err != nil {
		t.Fatal(err)
	}
	res, err := enc.Encode(img)
	if err != nil {
		t.Fatal(err)
	}
	return res
}

func TestRoundTrip(t *testing.T) {
	res := testResult(t, 32, 16)

	for _, compress := range []bool{false, true} {
		data := Marshal(res, compress)
		f, err := Read(data)
		if err != nil {
			t.Fatalf("compress=%v: %v", compress, err)
		}

		if f.Version != Version || f.Width != 32 || f.Height != 16 ||
			f.Quality != 50 || !f.Subsampled || f.Compressed != compress {
			t.Errorf("compress=%v: header %+v", compress, f)
		}
		for c := range f.Channels {
			want := res.Channels[c].Bytes()
			if !bytes.Equal(f.Channels[c], want) {
				t.Errorf("compress=%v: channel %s differs", compress, ChannelNames[c])
			}
		}
	}
}

func TestWriteReadFile(t *testing.T) {
	res := testResult(t, 16, 16)
	path := filepath.Join(t.TempDir(), "img.dcs")

	if err := WriteFile(path, res, true); err != nil {
		t.Fatal(err)
	}
	f, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Width != 16 || !f.Compressed {
		t.Errorf("header %+v", f)
	}
}

func TestReadRejectsCorruption(t *testing.T) {
	res := testResult(t, 16, 16)

	t.Run("short header", func(t *testing.T) {
		if _, err := Read(Marshal(res, false)[:12]); !errors.Is(err, ErrHeader) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("bad magic", func(t *testing.T) {
		data := Marshal(res, false)
		data[0] = 'X'
		if _, err := Read(data); !errors.Is(err, ErrMagic) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("unknown version", func(t *testing.T) {
		data := Marshal(res, false)
		data[4] = 9
		if _, err := Read(data); !errors.Is(err, ErrVersion) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("flipped payload byte", func(t *testing.T) {
		data := Marshal(res, false)
		data[len(data)-3] ^= 0x40
		if _, err := Read(data); !errors.Is(err, ErrChecksum) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("truncated payload", func(t *testing.T) {
		data := Marshal(res, false)
		if _, err := Read(data[:len(data)-2]); !errors.Is(err, ErrPayload) {
			t.Errorf("got %v", err)
		}
	})

	t.Run("corrupted compressed payload", func(t *testing.T) {
		data := Marshal(res, true)
		data[len(data)-5] ^= 0xFF
		if _, err := Read(data); err == nil {
			t.Error("corrupted zstd frame accepted")
		}
	})
}

func TestChannelGrid(t *testing.T) {
	f := &File{Width: 32, Height: 16, Subsampled: true}
	if bw, bh := f.ChannelGrid(0); bw != 4 || bh != 2 {
		t.Errorf("luma grid %dx%d, want 4x2", bw, bh)
	}
	if bw, bh := f.ChannelGrid(1); bw != 2 || bh != 1 {
		t.Errorf("chroma grid %dx%d, want 2x1", bw, bh)
	}
	if got := f.Blocks(); got != 12 {
		t.Errorf("blocks %d, want 12", got)
	}

	f.Subsampled = false
	if bw, bh := f.ChannelGrid(2); bw != 4 || bh != 2 {
		t.Errorf("full-chroma grid %dx%d, want 4x2", bw, bh)
	}
}

func TestCompressionShrinksRedundantPayload(t *testing.T) {
	// A large flat image produces thousands of identical two-byte block
	// streams; the compressed container must come out smaller.
	img := image.NewNRGBA(image.Rect(0, 0, 256, 256))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	enc, err := encoder.New(encoder.Options{Quality: 50, Subsample: true})
	if err != nil {
		t.Fatal(err)
	}
	res, err := enc.Encode(img)
	if err != nil {
		t.Fatal(err)
	}

	raw := Marshal(res, false)
	packed := Marshal(res, true)
	if len(packed) >= len(raw) {
		t.Errorf("compressed %d bytes >= raw %d", len(packed), len(raw))
	}
}
