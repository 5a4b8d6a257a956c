package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

// ProgressBar shows discovery progress. It satisfies discovery.Progress.
type ProgressBar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewProgressBar creates a progress bar drawn on w once the file count is known
func NewProgressBar(w io.Writer) *ProgressBar {
	return &ProgressBar{w: w}
}

// Start draws an empty bar over total files
func (p *ProgressBar) Start(total int) {
	w := p.w
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetDescription(describe(0, 0)),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color.CyanString("█"),
			SaucerHead:    color.CyanString("█"),
			SaucerPadding: "░",
			BarStart:      "│",
			BarEnd:        "│",
		}),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(w),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update moves the bar to done files, skipped of which failed to parse
func (p *ProgressBar) Update(done, skipped int) {
	if p.bar == nil {
		return
	}
	p.bar.Set(done)
	p.bar.Describe(describe(done-skipped, skipped))
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() {
	if p.bar == nil {
		return
	}
	p.bar.Finish()
}

func describe(parsed, skipped int) string {
	return color.CyanString("Collecting tests: ") +
		color.GreenString("[parsed: %d", parsed) +
		" | " +
		color.RedString("skipped: %d]", skipped)
}
