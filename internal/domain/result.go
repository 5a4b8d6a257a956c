package domain

import "time"

// RunOutput represents the raw result of invoking the test runner for one entity
type RunOutput struct {
	Target   string        // Full path handed to the runner
	Stdout   string        // Raw standard output, ANSI colours included
	Stderr   string        // Raw standard error
	ExitCode int           // Runner exit code
	Duration time.Duration // Time the runner took
}

// Text returns the text shown to the user: stdout when present, stderr otherwise
func (o RunOutput) Text() string {
	if o.Stdout != "" {
		return o.Stdout
	}
	return o.Stderr
}

// CollectedTest is one entry of a collection snapshot
type CollectedTest struct {
	Path string `json:"path"`
	Kind string `json:"kind"`
	File string `json:"file"`
	Line int    `json:"line"`
}

// CollectionMeta contains metadata about a discovery run
type CollectionMeta struct {
	Root         string   `json:"root"`
	TotalFiles   int      `json:"total_files"`
	TotalTests   int      `json:"total_tests"`
	SkippedFiles []string `json:"skipped_files,omitempty"`
	Timestamp    string   `json:"timestamp"`
}

// Collection is the complete snapshot written by collect --json
type Collection struct {
	Meta  CollectionMeta  `json:"meta"`
	Tests []CollectedTest `json:"tests"`
}
