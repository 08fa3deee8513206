package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/AnyUserName/dctstream/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats <out_dir_or_report>",
	Short: "Display statistics for an encoded output directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(_ *cobra.Command, args []string) error {
	path := args[0]

	// If path is a directory, look for the report inside.
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		path = filepath.Join(path, report.FileName)
	}

	rep, err := report.Load(path)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	printStats(rep)
	return nil
}

func printStats(rep *report.Report) {
	fmt.Println()
	fmt.Printf("  Report version:   %d\n", rep.Version)
	fmt.Printf("  Generated:        %s\n", rep.GeneratedAt)
	fmt.Printf("  Profile:          %s\n", rep.Profile)
	if rep.Run != nil {
		fmt.Printf("  Workers:          %d\n", rep.Run.Workers)
		fmt.Printf("  Quality:          %d\n", rep.Run.Quality)
		fmt.Printf("  Chroma:           %s\n", chromaMode(rep.Run.Subsampled))
		fmt.Printf("  Payloads:         %s\n", compressMode(rep.Run.Compressed))
	}
	fmt.Println()

	s := rep.Stats
	fmt.Printf("  Total sources:    %d\n", s.TotalSources)
	fmt.Printf("  Total blocks:     %d\n", s.TotalBlocks)
	fmt.Printf("  Input size:       %s\n", formatBytes(s.TotalInputBytes))
	fmt.Printf("  Output size:      %s\n", formatBytes(s.TotalOutputBytes))

	if s.TotalInputBytes > 0 {
		ratio := float64(s.TotalOutputBytes) / float64(s.TotalInputBytes) * 100
		fmt.Printf("  Compression:      %.1f%% of original\n", ratio)
	}
	if s.CroppedSources > 0 {
		fmt.Printf("  Cropped:          %d sources\n", s.CroppedSources)
	}
	fmt.Println()

	// Per-format breakdown of sources.
	formatStats := map[string]struct {
		count int
		bytes int64
	}{}
	for _, e := range rep.Entries {
		fs := formatStats[e.Source.Format]
		fs.count++
		fs.bytes += e.Source.Size
		formatStats[e.Source.Format] = fs
	}

	fmt.Println("  Source formats:")
	for _, f := range []string{"png", "jpeg", "webp", "gif", "bmp", "tiff"} {
		if fs, ok := formatStats[f]; ok {
			fmt.Printf("    %-6s  %4d files  %s\n", f, fs.count, formatBytes(fs.bytes))
		}
	}
	fmt.Println()

	// Per-resolution breakdown of dumps.
	resStats := map[string]int{}
	for _, e := range rep.Entries {
		res := fmt.Sprintf("%dx%d", e.Output.Width, e.Output.Height)
		resStats[res]++
	}
	var resolutions []string
	for r := range resStats {
		resolutions = append(resolutions, r)
	}
	sort.Strings(resolutions)
	fmt.Println("  Dump resolutions:")
	for _, r := range resolutions {
		fmt.Printf("    %10s  %4d dumps\n", r, resStats[r])
	}
	fmt.Println()

	// Warnings.
	var warnings []string
	for key, e := range rep.Entries {
		for _, ch := range e.Channels {
			if ch.Blocks == 0 {
				warnings = append(warnings, fmt.Sprintf("entry %q: channel %s has no blocks", key, ch.Name))
			}
		}
		if e.Output.Hash == "" {
			warnings = append(warnings, fmt.Sprintf("entry %q missing content hash", key))
		}
	}
	if len(warnings) > 0 {
		fmt.Printf("  Warnings (%d):\n", len(warnings))
		for _, w := range warnings {
			fmt.Printf("    ⚠ %s\n", w)
		}
		fmt.Println()
	}
}

func chromaMode(subsampled bool) string {
	if subsampled {
		return "4:2:0 subsampled"
	}
	return "full resolution"
}

func compressMode(compressed bool) string {
	if compressed {
		return "zstd compressed"
	}
	return "stored"
}
