package pipeline

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnyUserName/dctstream/internal/dump"
	"github.com/AnyUserName/dctstream/internal/profile"
	"github.com/AnyUserName/dctstream/internal/report"
)

// writePNG creates a deterministic gradient PNG at path.
func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 7), G: uint8(y * 5), B: uint8((x + y) * 3), A: 255,
			})
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
}

func runPipeline(t *testing.T, inputPath string, strict bool) (*report.Report, string, error) {
	t.Helper()
	outDir := filepath.Join(t.TempDir(), "out")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		t.Fatal(err)
	}
	p := New(Config{
		InputPath: inputPath,
		OutputDir: outDir,
		Profile:   profile.Get("balanced"),
		Workers:   2,
		Strict:    strict,
	})
	rep, err := p.Run()
	return rep, outDir, err
}

func TestPipelineRun(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "a.png"), 32, 32)
	writePNG(t, filepath.Join(inDir, "sub", "b.png"), 16, 16)

	rep, outDir, err := runPipeline(t, inDir, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(rep.Entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(rep.Entries))
	}
	for _, key := range []string{"a", "sub/b"} {
		e, ok := rep.Entries[key]
		if !ok {
			t.Fatalf("entry %q missing", key)
		}
		if len(e.Output.Hash) != 16 {
			t.Errorf("%s: hash length %d, want 16", key, len(e.Output.Hash))
		}

		// Dump must exist and parse back to the reported dimensions.
		f, err := dump.ReadFile(filepath.Join(outDir, e.Output.Path))
		if err != nil {
			t.Fatalf("%s: read dump: %v", key, err)
		}
		if f.Width != e.Output.Width || f.Height != e.Output.Height {
			t.Errorf("%s: dump %dx%d, report %dx%d",
				key, f.Width, f.Height, e.Output.Width, e.Output.Height)
		}
		if !f.Subsampled || !f.Compressed {
			t.Errorf("%s: balanced profile should subsample and compress", key)
		}
	}

	if rep.Stats.TotalSources != 2 {
		t.Errorf("TotalSources: got %d", rep.Stats.TotalSources)
	}
	if rep.Stats.CroppedSources != 0 {
		t.Errorf("CroppedSources: got %d, want 0", rep.Stats.CroppedSources)
	}
	if rep.Run == nil || rep.Run.Quality != 75 || !rep.Run.Subsampled {
		t.Errorf("run info: %+v", rep.Run)
	}
}

func TestPipelineCropsMisaligned(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "odd.png"), 67, 45)

	rep, outDir, err := runPipeline(t, inDir, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	e, ok := rep.Entries["odd"]
	if !ok {
		t.Fatal("entry odd missing")
	}
	if e.Source.Width != 67 || e.Source.Height != 45 {
		t.Errorf("source dims: %dx%d", e.Source.Width, e.Source.Height)
	}
	// 4:2:0 snaps to 16: 67 -> 64, 45 -> 32.
	if e.Output.Width != 64 || e.Output.Height != 32 {
		t.Errorf("output dims: %dx%d, want 64x32", e.Output.Width, e.Output.Height)
	}
	if rep.Stats.CroppedSources != 1 {
		t.Errorf("CroppedSources: got %d, want 1", rep.Stats.CroppedSources)
	}

	f, err := dump.ReadFile(filepath.Join(outDir, e.Output.Path))
	if err != nil {
		t.Fatalf("read dump: %v", err)
	}
	if f.Width != 64 || f.Height != 32 {
		t.Errorf("dump dims: %dx%d", f.Width, f.Height)
	}
}

func TestPipelineStrictRejectsMisaligned(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "odd.png"), 67, 45)

	_, _, err := runPipeline(t, inDir, true)
	if err == nil {
		t.Fatal("strict run accepted a 67x45 image")
	}
	if !strings.Contains(err.Error(), "not a multiple") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestPipelineSingleFileInput(t *testing.T) {
	inDir := t.TempDir()
	path := filepath.Join(inDir, "solo.png")
	writePNG(t, path, 16, 16)

	rep, _, err := runPipeline(t, path, false)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(rep.Entries))
	}
	if _, ok := rep.Entries["solo"]; !ok {
		t.Errorf("entry keys: %v", keys(rep.Entries))
	}
}

func TestPipelineRejectsTooSmall(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "tiny.png"), 4, 4)

	_, _, err := runPipeline(t, inDir, false)
	if err == nil {
		t.Fatal("accepted an image smaller than one macroblock")
	}
}

func TestPipelinePartialFailure(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "good.png"), 16, 16)
	if err := os.WriteFile(filepath.Join(inDir, "bad.png"), []byte("not a png"), 0o644); err != nil {
		t.Fatal(err)
	}

	rep, _, err := runPipeline(t, inDir, false)
	if err != nil {
		t.Fatalf("partial failure should not fail the run: %v", err)
	}
	if len(rep.Entries) != 1 {
		t.Fatalf("entries: got %d, want 1", len(rep.Entries))
	}
	if _, ok := rep.Entries["good"]; !ok {
		t.Error("surviving entry missing")
	}
}

func TestScanImagesSkipsHiddenAndForeign(t *testing.T) {
	inDir := t.TempDir()
	writePNG(t, filepath.Join(inDir, "keep.png"), 16, 16)
	writePNG(t, filepath.Join(inDir, ".cache", "skip.png"), 16, 16)
	if err := os.WriteFile(filepath.Join(inDir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	sources, err := ScanImages(inDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 1 || sources[0].Key != "keep" {
		t.Errorf("sources: %+v", sources)
	}
	if sources[0].Format != "png" {
		t.Errorf("format: %q", sources[0].Format)
	}
}

func keys(m map[string]report.Entry) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
