package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// New creates an empty report for the given profile.
func New(profileName string) *Report {
	return &Report{
		Version:     SupportedReportVersion,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Profile:     profileName,
		Entries:     make(map[string]Entry),
	}
}

// ComputeStats recalculates the aggregate counters from the entries.
// A source counts as cropped when its encoded dimensions differ from
// the decoded ones.
func (r *Report) ComputeStats() {
	var s Stats
	s.TotalSources = len(r.Entries)
	for _, e := range r.Entries {
		s.TotalInputBytes += e.Source.Size
		s.TotalOutputBytes += e.Output.Size
		for _, ch := range e.Channels {
			s.TotalBlocks += ch.Blocks
		}
		if e.Output.Width != e.Source.Width || e.Output.Height != e.Source.Height {
			s.CroppedSources++
		}
	}
	r.Stats = s
}

// WriteJSON recomputes the stats and writes the report to path.
// encoding/json sorts map keys, so the output is deterministic for a
// given entry set.
func WriteJSON(r *Report, path string) error {
	r.ComputeStats()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// Load parses the report at path.  Unknown fields are ignored so newer
// writers stay readable.
func Load(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &r, nil
}
