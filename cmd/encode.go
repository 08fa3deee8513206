package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/AnyUserName/dctstream/internal/pipeline"
	"github.com/AnyUserName/dctstream/internal/profile"
	"github.com/AnyUserName/dctstream/internal/report"
	"github.com/spf13/cobra"
)

var (
	encodeOutDir     string
	encodeProfile    string
	encodeWorkers    int
	encodeQuality    int
	encodeFullChroma bool
	encodeNoCompress bool
	encodeStrict     bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <input_path>",
	Short: "Encode images into quantized symbol-stream dumps + report",
	Long: `Scans the input path for images (png, jpg, jpeg, webp, gif, bmp, tiff),
runs each through the block-transform front end and writes one .dcs dump
per image, plus a JSON report for the whole run.

Images are cropped to the block grid (16px for 4:2:0, 8px otherwise)
unless --strict is set, in which case misaligned inputs are rejected.

Output filenames are content-addressed: <key>.<w>x<h>.<hash>.dcs`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeOutDir, "out", "o", "./dctstream_out", "output directory")
	encodeCmd.Flags().StringVarP(&encodeProfile, "profile", "p", "balanced", "encoding profile (balanced, quality, compact)")
	encodeCmd.Flags().IntVarP(&encodeWorkers, "workers", "w", 0, "parallel workers (0 = NumCPU)")
	encodeCmd.Flags().IntVarP(&encodeQuality, "quality", "q", 0, "quality 1-100 (0 = profile default)")
	encodeCmd.Flags().BoolVar(&encodeFullChroma, "full-chroma", false, "keep full chroma resolution (no 4:2:0)")
	encodeCmd.Flags().BoolVar(&encodeNoCompress, "no-compress", false, "store dump payloads uncompressed")
	encodeCmd.Flags().BoolVar(&encodeStrict, "strict", false, "reject images not aligned to the block grid")
	rootCmd.AddCommand(encodeCmd)
}

func runEncode(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	start := time.Now()

	// Resolve absolute paths.
	absInput, err := filepath.Abs(inputPath)
	if err != nil {
		return fmt.Errorf("resolve input path: %w", err)
	}
	absOutput, err := filepath.Abs(encodeOutDir)
	if err != nil {
		return fmt.Errorf("resolve output path: %w", err)
	}

	// Load profile.
	prof := profile.Get(encodeProfile)
	if encodeQuality > 0 {
		prof.Quality = encodeQuality
	}
	if encodeFullChroma {
		prof.Subsample = false
	}
	if encodeNoCompress {
		prof.Compress = false
	}

	logVerbose("input:   %s", absInput)
	logVerbose("output:  %s", absOutput)
	logVerbose("profile: %s (quality=%d, subsample=%v, compress=%v)",
		prof.Name, prof.Quality, prof.Subsample, prof.Compress)

	// Create output dir.
	if err := os.MkdirAll(absOutput, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Run pipeline.
	p := pipeline.New(pipeline.Config{
		InputPath: absInput,
		OutputDir: absOutput,
		Profile:   prof,
		Workers:   encodeWorkers,
		Verbose:   verbose,
		Strict:    encodeStrict,
	})

	rep, err := p.Run()
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	// Write report.
	reportPath := filepath.Join(absOutput, report.FileName)
	if err := report.WriteJSON(rep, reportPath); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	elapsed := time.Since(start)
	printEncodeReport(rep, elapsed)
	return nil
}

func printEncodeReport(rep *report.Report, elapsed time.Duration) {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════╗")
	fmt.Println("║            dctstream encode complete             ║")
	fmt.Println("╚══════════════════════════════════════════════════╝")
	fmt.Println()

	stats := rep.Stats
	ratio := float64(0)
	if stats.TotalInputBytes > 0 {
		ratio = float64(stats.TotalOutputBytes) / float64(stats.TotalInputBytes) * 100
	}

	fmt.Printf("  Sources:     %d\n", stats.TotalSources)
	fmt.Printf("  Blocks:      %d\n", stats.TotalBlocks)
	fmt.Printf("  Input size:  %s\n", formatBytes(stats.TotalInputBytes))
	fmt.Printf("  Output size: %s\n", formatBytes(stats.TotalOutputBytes))
	fmt.Printf("  Ratio:       %.1f%% of original\n", ratio)
	if stats.CroppedSources > 0 {
		fmt.Printf("  Cropped:     %d sources (snapped to block grid)\n", stats.CroppedSources)
	}
	fmt.Printf("  Time:        %s\n", elapsed.Round(time.Millisecond))

	if rep.Run != nil {
		fmt.Printf("  Workers:     %d  (quality=%d, subsample=%v, zstd=%v)\n",
			rep.Run.Workers, rep.Run.Quality, rep.Run.Subsampled, rep.Run.Compressed)
	}
	fmt.Println()

	// Top 10 heaviest sources.
	if len(rep.Entries) > 0 {
		type entrySize struct {
			key        string
			inputSize  int64
			outputSize int64
		}
		var items []entrySize
		for key, e := range rep.Entries {
			items = append(items, entrySize{key, e.Source.Size, e.Output.Size})
		}
		sort.Slice(items, func(i, j int) bool {
			return items[i].inputSize > items[j].inputSize
		})
		n := len(items)
		if n > 10 {
			n = 10
		}
		fmt.Printf("  Top %d heaviest (original → dump):\n", n)
		for _, it := range items[:n] {
			saved := float64(0)
			if it.inputSize > 0 {
				saved = (1 - float64(it.outputSize)/float64(it.inputSize)) * 100
			}
			fmt.Printf("    %-40s %8s → %8s  (−%.0f%%)\n",
				truncKey(it.key, 40),
				formatBytes(it.inputSize),
				formatBytes(it.outputSize),
				saved,
			)
		}
		fmt.Println()
	}

	// Source format info.
	fmts := detectSourceFormats(rep)
	fmt.Printf("  Inputs:      %s\n", strings.Join(fmts, ", "))
	fmt.Println()

	// Report path.
	data, _ := json.Marshal(rep)
	fmt.Printf("  Report:      %s (%s)\n", report.FileName, formatBytes(int64(len(data))))
	fmt.Println()
}

func detectSourceFormats(rep *report.Report) []string {
	set := map[string]bool{}
	for _, e := range rep.Entries {
		set[e.Source.Format] = true
	}
	var out []string
	for _, f := range []string{"png", "jpeg", "webp", "gif", "bmp", "tiff"} {
		if set[f] {
			out = append(out, f)
		}
	}
	return out
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

func truncKey(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max+3:]
}
