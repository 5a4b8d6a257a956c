package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	ansiPattern    = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
	summaryPattern = regexp.MustCompile(`^=+ (.+) in ([0-9.]+s)\b.*=+$`)
	countPattern   = regexp.MustCompile(`(\d+) (passed|failed|errors?|skipped|xfailed|xpassed|deselected|warnings?)`)
)

// Summary is the result line pytest prints last, e.g. "1 failed, 2 passed in 0.12s"
type Summary struct {
	Found    bool
	Passed   int
	Failed   int
	Errors   int
	Skipped  int
	Duration string
	Line     string // the line without separators and colours
}

// OK reports whether the run had neither failures nor errors
func (s Summary) OK() bool {
	return s.Found && s.Failed == 0 && s.Errors == 0
}

// String returns the summary text, or "" when no summary was found
func (s Summary) String() string {
	if !s.Found {
		return ""
	}
	return s.Line
}

// StripANSI removes terminal colour sequences
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// ParseSummary extracts the final summary line from pytest output.
// Output without a summary (collection errors, crashes) yields a zero Summary.
func ParseSummary(output string) Summary {
	lines := strings.Split(StripANSI(output), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		match := summaryPattern.FindStringSubmatch(line)
		if len(match) < 3 {
			continue
		}

		summary := Summary{
			Found:    true,
			Duration: match[2],
			Line:     fmt.Sprintf("%s in %s", match[1], match[2]),
		}
		for _, count := range countPattern.FindAllStringSubmatch(match[1], -1) {
			n, err := strconv.Atoi(count[1])
			if err != nil {
				continue
			}
			switch count[2] {
			case "passed":
				summary.Passed += n
			case "failed":
				summary.Failed += n
			case "error", "errors":
				summary.Errors += n
			case "skipped":
				summary.Skipped += n
			}
		}
		return summary
	}
	return Summary{}
}
