package report

// Report is the top-level output of a batch encode run.
type Report struct {
	Version     int              `json:"version"`
	GeneratedAt string           `json:"generated_at"`
	Profile     string           `json:"profile"`
	Run         *RunInfo         `json:"run,omitempty"`
	Entries     map[string]Entry `json:"entries"`
	Stats       Stats            `json:"stats"`
}

// RunInfo captures run-time parameters for diagnostics.
type RunInfo struct {
	Workers    int  `json:"workers"`
	Quality    int  `json:"quality"` // 0 = caller-supplied tables
	Subsampled bool `json:"subsampled"`
	Compressed bool `json:"compressed"`
}

// Entry describes one source image and its encoded dump.
type Entry struct {
	Source   SourceInfo     `json:"source"`
	Output   OutputInfo     `json:"output"`
	Channels [3]ChannelInfo `json:"channels"`
	Ratio    float64        `json:"ratio"` // raw sample bytes / symbol bytes
}

// SourceInfo holds metadata about the decoded input.
type SourceInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
	Size   int64  `json:"size"`
}

// OutputInfo describes the written dump.  Width and Height are the encoded
// dimensions, smaller than the source when alignment cropping applied.
type OutputInfo struct {
	Path   string `json:"path"` // relative to the output directory
	Size   int64  `json:"size"`
	Hash   string `json:"hash"` // first 16 hex chars of xxhash64
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// ChannelInfo summarizes one channel's block streams.
type ChannelInfo struct {
	Name   string `json:"name"`
	Blocks int    `json:"blocks"`
	Bytes  int    `json:"bytes"`
}

// Stats aggregates run metrics.
type Stats struct {
	TotalInputBytes  int64 `json:"total_input_bytes"`
	TotalOutputBytes int64 `json:"total_output_bytes"`
	TotalSources     int   `json:"total_sources"`
	TotalBlocks      int   `json:"total_blocks"`
	CroppedSources   int   `json:"cropped_sources,omitempty"`
}

// SupportedReportVersion is the current schema version.
const SupportedReportVersion = 1

// FileName is the report's on-disk name inside the output directory.
const FileName = "dctstream.report.json"
