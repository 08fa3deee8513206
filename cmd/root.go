package cmd

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "dctstream",
	Short: "Block-transform image encoder producing quantized symbol streams",
	Long: `dctstream — runs images through the classic lossy front end: YCbCr
conversion, 4:2:0 chroma subsampling, 8x8 DCT, quantization and zig-zag
run-length coding.

Each image becomes three per-channel symbol streams packed into a .dcs
dump with a content-addressed filename, plus a JSON report for the batch.`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"dctstream %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[dctstream] "+format+"\n", args...)
	}
}
