package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnyUserName/dctstream/internal/block"
	"github.com/AnyUserName/dctstream/internal/dump"
	"github.com/AnyUserName/dctstream/internal/hasher"
	"github.com/AnyUserName/dctstream/internal/report"
	"github.com/spf13/cobra"
)

var verifyDeep bool

var verifyCmd = &cobra.Command{
	Use:   "verify <report_path>",
	Short: "Verify a dctstream report and check referenced dumps",
	Long: `Checks the report schema, entry consistency and that every referenced
.dcs dump exists with the recorded size.  With --deep, each dump is also
re-read, its payload checksum validated and its content hash recomputed.`,
	Args: cobra.ExactArgs(1),
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().BoolVar(&verifyDeep, "deep", false, "re-read dumps and recompute content hashes")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(_ *cobra.Command, args []string) error {
	reportPath := args[0]

	// Accept the output directory as well as the report file itself.
	if info, err := os.Stat(reportPath); err == nil && info.IsDir() {
		reportPath = filepath.Join(reportPath, report.FileName)
	}

	rep, err := report.Load(reportPath)
	if err != nil {
		return fmt.Errorf("read report: %w", err)
	}

	baseDir := filepath.Dir(reportPath)
	errors := verifyReport(rep, baseDir, verifyDeep)

	if len(errors) == 0 {
		fmt.Println("  ✓ Report is valid")
		fmt.Printf("  ✓ %d sources, %d blocks — all dumps present\n",
			rep.Stats.TotalSources, rep.Stats.TotalBlocks)
		if verifyDeep {
			fmt.Println("  ✓ Deep check passed: checksums and content hashes match")
		}
		return nil
	}

	fmt.Printf("  ✗ Report has %d error(s):\n", len(errors))
	for _, e := range errors {
		fmt.Printf("    • %s\n", e)
	}
	return fmt.Errorf("verification failed with %d errors", len(errors))
}

func verifyReport(rep *report.Report, baseDir string, deep bool) []string {
	var errs []string

	// Check version.
	if rep.Version != report.SupportedReportVersion {
		errs = append(errs, fmt.Sprintf("unsupported report version: %d", rep.Version))
	}

	// Alignment granularity follows the run's chroma mode.
	align := block.Dim
	if rep.Run != nil && rep.Run.Subsampled {
		align = 2 * block.Dim
	}

	seenPaths := map[string]bool{}
	for key, e := range rep.Entries {
		// Check source dimensions.
		if e.Source.Width <= 0 || e.Source.Height <= 0 {
			errs = append(errs, fmt.Sprintf("entry %q: invalid source dimensions %dx%d",
				key, e.Source.Width, e.Source.Height))
		}

		// Check output dimensions.
		switch {
		case e.Output.Width <= 0 || e.Output.Height <= 0:
			errs = append(errs, fmt.Sprintf("entry %q: invalid output dimensions %dx%d",
				key, e.Output.Width, e.Output.Height))
		case e.Output.Width > e.Source.Width || e.Output.Height > e.Source.Height:
			errs = append(errs, fmt.Sprintf("entry %q: output %dx%d exceeds source %dx%d",
				key, e.Output.Width, e.Output.Height, e.Source.Width, e.Source.Height))
		case e.Output.Width%align != 0 || e.Output.Height%align != 0:
			errs = append(errs, fmt.Sprintf("entry %q: output %dx%d not aligned to %d",
				key, e.Output.Width, e.Output.Height, align))
		}

		// Check channel block counts against the grid.
		if e.Output.Width > 0 && e.Output.Height > 0 {
			lumaBlocks := (e.Output.Width / block.Dim) * (e.Output.Height / block.Dim)
			chromaBlocks := lumaBlocks
			if rep.Run != nil && rep.Run.Subsampled {
				chromaBlocks = lumaBlocks / 4
			}
			wantBlocks := [3]int{lumaBlocks, chromaBlocks, chromaBlocks}
			for i, ch := range e.Channels {
				if ch.Blocks != wantBlocks[i] {
					errs = append(errs, fmt.Sprintf("entry %q: channel %s has %d blocks, grid implies %d",
						key, ch.Name, ch.Blocks, wantBlocks[i]))
				}
			}
		}

		if e.Output.Hash == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing content hash", key))
		}
		if e.Output.Path == "" {
			errs = append(errs, fmt.Sprintf("entry %q: missing dump path", key))
			continue
		}

		// Check duplicate paths.
		if seenPaths[e.Output.Path] {
			errs = append(errs, fmt.Sprintf("entry %q: duplicate path %q", key, e.Output.Path))
		}
		seenPaths[e.Output.Path] = true

		// Check dump exists.
		fullPath := filepath.Join(baseDir, e.Output.Path)
		info, err := os.Stat(fullPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("entry %q: dump not found: %s", key, e.Output.Path))
			continue
		}
		if e.Output.Size > 0 && info.Size() != e.Output.Size {
			errs = append(errs, fmt.Sprintf("entry %q: size mismatch: report=%d, disk=%d",
				key, e.Output.Size, info.Size()))
		}

		if deep {
			errs = append(errs, deepCheck(key, &e, fullPath)...)
		}
	}

	// Verify stats consistency.
	var inBytes, outBytes int64
	blockCount := 0
	for _, e := range rep.Entries {
		inBytes += e.Source.Size
		outBytes += e.Output.Size
		for _, ch := range e.Channels {
			blockCount += ch.Blocks
		}
	}
	if rep.Stats.TotalSources != len(rep.Entries) {
		errs = append(errs, fmt.Sprintf("stats.total_sources mismatch: %d != %d",
			rep.Stats.TotalSources, len(rep.Entries)))
	}
	if rep.Stats.TotalBlocks != blockCount {
		errs = append(errs, fmt.Sprintf("stats.total_blocks mismatch: %d != %d",
			rep.Stats.TotalBlocks, blockCount))
	}
	if rep.Stats.TotalInputBytes != inBytes {
		errs = append(errs, fmt.Sprintf("stats.total_input_bytes mismatch: %d != %d",
			rep.Stats.TotalInputBytes, inBytes))
	}
	if rep.Stats.TotalOutputBytes != outBytes {
		errs = append(errs, fmt.Sprintf("stats.total_output_bytes mismatch: %d != %d",
			rep.Stats.TotalOutputBytes, outBytes))
	}

	return errs
}

// deepCheck re-reads one dump: container parse (which validates the
// payload checksum), dimension agreement and content hash.
func deepCheck(key string, e *report.Entry, fullPath string) []string {
	var errs []string

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return []string{fmt.Sprintf("entry %q: read dump: %v", key, err)}
	}

	if got := hasher.ContentHash(data, len(e.Output.Hash)); got != e.Output.Hash {
		errs = append(errs, fmt.Sprintf("entry %q: content hash mismatch: report=%s, disk=%s",
			key, e.Output.Hash, got))
	}

	f, err := dump.Read(data)
	if err != nil {
		errs = append(errs, fmt.Sprintf("entry %q: dump unreadable: %v", key, err))
		return errs
	}
	if f.Width != e.Output.Width || f.Height != e.Output.Height {
		errs = append(errs, fmt.Sprintf("entry %q: dump is %dx%d, report says %dx%d",
			key, f.Width, f.Height, e.Output.Width, e.Output.Height))
	}
	for i, ch := range e.Channels {
		if got := len(f.Channels[i]); got != ch.Bytes {
			errs = append(errs, fmt.Sprintf("entry %q: channel %s has %d bytes, report says %d",
				key, ch.Name, got, ch.Bytes))
		}
	}
	return errs
}
