package pipeline

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/AnyUserName/dctstream/internal/block"
	"github.com/AnyUserName/dctstream/internal/dump"
	"github.com/AnyUserName/dctstream/internal/encoder"
	"github.com/AnyUserName/dctstream/internal/hasher"
	"github.com/AnyUserName/dctstream/internal/report"
	"github.com/disintegration/imaging"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// processResult holds the result of processing a single source image.
type processResult struct {
	key   string
	entry report.Entry
	err   error
}

// processImage handles a single source image: decode, align, encode, dump.
func processImage(src Source, cfg Config, enc *encoder.Encoder) processResult {
	result := processResult{key: src.Key}

	// Open and decode image.
	f, err := os.Open(src.AbsPath)
	if err != nil {
		result.err = fmt.Errorf("open %s: %w", src.RelPath, err)
		return result
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		result.err = fmt.Errorf("decode %s: %w", src.RelPath, err)
		return result
	}

	bounds := img.Bounds()
	origW := bounds.Dx()
	origH := bounds.Dy()

	// Snap to the block grid: 16 for 4:2:0 runs, 8 otherwise.
	align := block.Dim
	if enc.Subsampled() {
		align = 2 * block.Dim
	}
	encW := origW - origW%align
	encH := origH - origH%align

	if encW == 0 || encH == 0 {
		result.err = fmt.Errorf("%s: %dx%d smaller than one %dx%d macroblock",
			src.RelPath, origW, origH, align, align)
		return result
	}
	if encW != origW || encH != origH {
		if cfg.Strict {
			result.err = fmt.Errorf("%s: %dx%d is not a multiple of %d",
				src.RelPath, origW, origH, align)
			return result
		}
		if cfg.Verbose {
			fmt.Fprintf(os.Stderr, "[dctstream] crop: %s %dx%d -> %dx%d\n",
				src.Key, origW, origH, encW, encH)
		}
		// Keep the top-left corner; discard the ragged edges.
		img = imaging.CropAnchor(img, encW, encH, imaging.TopLeft)
	}

	// Encode to quantized symbol streams.
	res, err := enc.Encode(img)
	if err != nil {
		result.err = fmt.Errorf("encode %s: %w", src.RelPath, err)
		return result
	}

	// Serialize the dump container.
	data := dump.Marshal(res, cfg.Profile.Compress)
	contentHash := hasher.ContentHash(data, 16)

	// Ensure output subdirectory exists.
	keyDir := filepath.Dir(src.Key)
	if keyDir != "." {
		os.MkdirAll(filepath.Join(cfg.OutputDir, keyDir), 0o755)
	}

	// Build filename: key.WxH.hash.dcs
	fileName := fmt.Sprintf("%s.%dx%d.%s.dcs",
		filepath.Base(src.Key), encW, encH, contentHash[:8])
	relPath := filepath.ToSlash(filepath.Join(keyDir, fileName))

	outPath := filepath.Join(cfg.OutputDir, relPath)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		result.err = fmt.Errorf("write %s: %w", relPath, err)
		return result
	}

	var channels [3]report.ChannelInfo
	for i, ch := range res.Channels {
		channels[i] = report.ChannelInfo{
			Name:   ch.Name,
			Blocks: len(ch.Blocks),
			Bytes:  ch.SymbolBytes(),
		}
	}

	result.entry = report.Entry{
		Source: report.SourceInfo{
			Width:  origW,
			Height: origH,
			Format: src.Format,
			Size:   src.Size,
		},
		Output: report.OutputInfo{
			Path:   relPath,
			Size:   int64(len(data)),
			Hash:   contentHash,
			Width:  encW,
			Height: encH,
		},
		Channels: channels,
		Ratio:    res.Ratio(),
	}
	return result
}
