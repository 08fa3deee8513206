package cmd

import (
	"fmt"

	"github.com/AnyUserName/dctstream/internal/block"
	"github.com/AnyUserName/dctstream/internal/profile"
	"github.com/AnyUserName/dctstream/internal/quant"
	"github.com/AnyUserName/dctstream/internal/zigzag"
	"github.com/spf13/cobra"
)

var (
	tablesQuality int
	tablesProfile string
	tablesChroma  bool
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Print the scaled quantization table and zig-zag scan order",
	Args:  cobra.NoArgs,
	RunE:  runTables,
}

func init() {
	tablesCmd.Flags().IntVarP(&tablesQuality, "quality", "q", 50, "quality 1-100")
	tablesCmd.Flags().StringVarP(&tablesProfile, "profile", "p", "", "take quality from a profile instead")
	tablesCmd.Flags().BoolVar(&tablesChroma, "chroma", false, "show the chrominance table")
	rootCmd.AddCommand(tablesCmd)
}

func runTables(_ *cobra.Command, _ []string) error {
	pair := quant.TablesForQuality(tablesQuality)
	if tablesProfile != "" {
		prof := profile.Get(tablesProfile)
		tablesQuality = prof.Quality
		pair = prof.Tables()
	}

	name := "Luminance"
	tab := pair.Luma
	if tablesChroma {
		name = "Chrominance"
		tab = pair.Chroma
	}

	fmt.Println()
	fmt.Printf("  %s quantization table (quality %d):\n\n", name, tablesQuality)
	for y := 0; y < block.Dim; y++ {
		fmt.Print("   ")
		for x := 0; x < block.Dim; x++ {
			fmt.Printf(" %4d", tab[y*block.Dim+x])
		}
		fmt.Println()
	}
	fmt.Println()

	steps := zigzag.Steps()
	fmt.Println("  Zig-zag scan order (raster position → scan step):")
	fmt.Println()
	for y := 0; y < block.Dim; y++ {
		fmt.Print("   ")
		for x := 0; x < block.Dim; x++ {
			fmt.Printf(" %4d", steps[y*block.Dim+x])
		}
		fmt.Println()
	}
	fmt.Println()
	return nil
}
