package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"pytexp/internal/discovery"
	"pytexp/internal/domain"
	"pytexp/internal/storage"
)

// Formatter prints collect-only output
type Formatter struct {
	out    io.Writer
	errOut io.Writer
}

// NewFormatter creates a new Formatter writing results to out and warnings to errOut
func NewFormatter(out, errOut io.Writer) *Formatter {
	return &Formatter{out: out, errOut: errOut}
}

// PrintCollection prints every full path in discovery order, one per line, then the total.
// Paths are never coloured so the list can be piped.
func (f *Formatter) PrintCollection(collection *domain.Collection) {
	for _, test := range collection.Tests {
		fmt.Fprintln(f.out, test.Path)
	}

	fmt.Fprintln(f.out)
	summary := color.New(color.FgGreen)
	if collection.Meta.TotalTests == 0 {
		summary = color.New(color.FgYellow)
	}
	summary.Fprintf(f.out, "%d tests collected from %d files", collection.Meta.TotalTests, collection.Meta.TotalFiles)
	if n := len(collection.Meta.SkippedFiles); n > 0 {
		color.New(color.FgRed).Fprintf(f.out, " (%d skipped)", n)
	}
	fmt.Fprintln(f.out)
}

// PrintSkipped warns about files left out of discovery
func (f *Formatter) PrintSkipped(skipped []*discovery.ParseError) {
	warn := color.New(color.FgYellow)
	for _, perr := range skipped {
		warn.Fprintf(f.errOut, "⚠ skipped %v\n", perr)
	}
}

// PrintSaved reports where a snapshot was written
func (f *Formatter) PrintSaved(path string) {
	color.New(color.FgCyan).Fprintf(f.errOut, "✓ collection written to %s\n", path)
}

// PrintChanges reports how the collection moved since the previous snapshot at since
func (f *Formatter) PrintChanges(changes storage.Changes, since string) {
	if changes.Empty() {
		fmt.Fprintf(f.errOut, "no changes since %s\n", since)
		return
	}
	added := color.New(color.FgGreen)
	for _, path := range changes.Added {
		added.Fprintf(f.errOut, "+ %s\n", path)
	}
	removed := color.New(color.FgRed)
	for _, path := range changes.Removed {
		removed.Fprintf(f.errOut, "- %s\n", path)
	}
	fmt.Fprintf(f.errOut, "%d added, %d removed since %s\n", len(changes.Added), len(changes.Removed), since)
}
