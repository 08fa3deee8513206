package pipeline

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/AnyUserName/dctstream/internal/encoder"
	"github.com/AnyUserName/dctstream/internal/profile"
	"github.com/AnyUserName/dctstream/internal/report"
)

// Config holds all parameters for an encode pipeline run.
type Config struct {
	InputPath string
	OutputDir string
	Profile   profile.Profile
	Workers   int
	Verbose   bool
	Strict    bool // reject misaligned dimensions instead of cropping
}

// Pipeline orchestrates batch encoding.
type Pipeline struct {
	cfg Config
}

// New creates a configured pipeline.
func New(cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{cfg: cfg}
}

// Run executes the full encode pipeline and returns the report.
func (p *Pipeline) Run() (*report.Report, error) {
	// Step 1: Scan for images.
	sources, err := ScanImages(p.cfg.InputPath)
	if err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no images found in %s", p.cfg.InputPath)
	}

	if p.cfg.Verbose {
		fmt.Fprintf(os.Stderr, "[dctstream] found %d images\n", len(sources))
	}

	// A single image gets the whole worker budget inside the encoder;
	// a batch parallelizes across images instead.
	encWorkers := 1
	if len(sources) == 1 {
		encWorkers = p.cfg.Workers
	}
	enc, err := encoder.New(encoder.Options{
		Quality:   p.cfg.Profile.Quality,
		Subsample: p.cfg.Profile.Subsample,
		Workers:   encWorkers,
	})
	if err != nil {
		return nil, fmt.Errorf("encoder: %w", err)
	}

	// Step 2: Process images in parallel.
	results := make([]processResult, len(sources))
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.cfg.Workers)

	for i, src := range sources {
		wg.Add(1)
		go func(idx int, s Source) {
			defer wg.Done()
			sem <- struct{}{}        // acquire
			defer func() { <-sem }() // release

			if p.cfg.Verbose {
				fmt.Fprintf(os.Stderr, "[dctstream] processing: %s\n", s.Key)
			}

			results[idx] = processImage(s, p.cfg, enc)

			if p.cfg.Verbose && results[idx].err == nil {
				fmt.Fprintf(os.Stderr, "[dctstream] done: %s (%d blocks)\n",
					s.Key, blockTotal(results[idx].entry))
			}
		}(i, src)
	}
	wg.Wait()

	// Step 3: Collect results into the report.
	rep := report.New(p.cfg.Profile.Name)
	rep.Run = &report.RunInfo{
		Workers:    p.cfg.Workers,
		Quality:    enc.Quality(),
		Subsampled: enc.Subsampled(),
		Compressed: p.cfg.Profile.Compress,
	}

	var errs []error
	for _, r := range results {
		if r.err != nil {
			errs = append(errs, r.err)
			continue
		}
		rep.Entries[r.key] = r.entry
	}

	// Report errors but don't fail the entire run for partial failures.
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "[dctstream] error: %v\n", e)
		}
		if len(errs) == len(sources) {
			return nil, fmt.Errorf("all %d images failed to encode: %w", len(errs), errs[0])
		}
		fmt.Fprintf(os.Stderr, "[dctstream] warning: %d of %d images had errors\n",
			len(errs), len(sources))
	}

	rep.ComputeStats()
	return rep, nil
}

func blockTotal(e report.Entry) int {
	n := 0
	for _, ch := range e.Channels {
		n += ch.Blocks
	}
	return n
}
