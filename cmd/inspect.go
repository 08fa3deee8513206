package cmd

import (
	"fmt"
	"os"

	"github.com/AnyUserName/dctstream/internal/dump"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <dump.dcs>",
	Short: "Print header and channel details of a single dump",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(_ *cobra.Command, args []string) error {
	path := args[0]

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	f, err := dump.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read dump: %w", err)
	}

	fmt.Println()
	fmt.Printf("  File:        %s (%s)\n", path, formatBytes(info.Size()))
	fmt.Printf("  Version:     %d\n", f.Version)
	fmt.Printf("  Dimensions:  %dx%d\n", f.Width, f.Height)
	fmt.Printf("  Quality:     %d\n", f.Quality)
	fmt.Printf("  Chroma:      %s\n", chromaMode(f.Subsampled))
	fmt.Printf("  Payload:     %s, %s of symbols\n",
		compressMode(f.Compressed), formatBytes(int64(f.PayloadBytes())))
	fmt.Println("  Checksum:    ✓ valid")
	fmt.Println()

	fmt.Printf("  %-4s %9s %8s %10s %12s\n", "", "grid", "blocks", "bytes", "bytes/block")
	for c, name := range dump.ChannelNames {
		bw, bh := f.ChannelGrid(c)
		blocks := bw * bh
		size := len(f.Channels[c])
		avg := float64(0)
		if blocks > 0 {
			avg = float64(size) / float64(blocks)
		}
		fmt.Printf("  %-4s %4dx%-4d %8d %10d %12.1f\n",
			name, bw, bh, blocks, size, avg)
	}
	fmt.Println()

	pixels := f.Width * f.Height
	if pixels > 0 {
		bpp := float64(f.PayloadBytes()) * 8 / float64(pixels)
		raw := 3 * pixels
		fmt.Printf("  Symbol rate: %.2f bits/pixel\n", bpp)
		fmt.Printf("  Vs raw RGB:  %.1fx smaller (%s → %s)\n",
			float64(raw)/float64(f.PayloadBytes()),
			formatBytes(int64(raw)), formatBytes(int64(f.PayloadBytes())))
	}
	fmt.Println()
	return nil
}
