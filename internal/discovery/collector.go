package discovery

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
)

// Progress reports discovery progress, one step per scanned file
type Progress interface {
	Start(total int)
	Update(done, skipped int)
	Finish()
}

// Collector builds the entity tree: scan, then parse every file in scan order
type Collector struct {
	scanner  *Scanner
	parser   *Parser
	relative func(string) string
	progress Progress
	logger   *log.Logger
}

// NewCollector creates a Collector. relative maps scanned paths to the form used in full paths.
func NewCollector(scanner *Scanner, parser *Parser, relative func(string) string) *Collector {
	if relative == nil {
		relative = func(p string) string { return p }
	}
	return &Collector{
		scanner:  scanner,
		parser:   parser,
		relative: relative,
		logger:   log.New(io.Discard, "", 0),
	}
}

// SetProgress sets the progress reporter for the collector
func (c *Collector) SetProgress(progress Progress) {
	c.progress = progress
}

// SetLogger sets the diagnostics logger
func (c *Collector) SetLogger(logger *log.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Result is the outcome of a discovery run
type Result struct {
	Tree    *Tree
	Files   []string      // scanned files, in scan order
	Skipped []*ParseError // files left out under per-file isolation
}

// Collect scans root and parses every test file found.
// A scan failure is returned as is. With strict set the first unreadable or
// unparsable file aborts the run; otherwise it is skipped and reported in Result.Skipped.
func (c *Collector) Collect(ctx context.Context, root string, strict bool) (*Result, error) {
	files, err := c.scanner.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	c.logger.Printf("scanned %s: %d test files", root, len(files))

	result := &Result{Tree: NewTree(), Files: files}
	if c.progress != nil {
		c.progress.Start(len(files))
		defer c.progress.Finish()
	}

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := c.relative(file)
		perr := c.collectFile(ctx, result.Tree, file, path)
		if perr != nil {
			if strict {
				return nil, perr
			}
			c.logger.Printf("skipping %v", perr)
			result.Skipped = append(result.Skipped, perr)
		}
		if c.progress != nil {
			c.progress.Update(i+1, len(result.Skipped))
		}
	}

	c.logger.Printf("tests load %d from %d files", result.Tree.Len(), result.Tree.Files())
	return result, nil
}

func (c *Collector) collectFile(ctx context.Context, tree *Tree, file, path string) *ParseError {
	content, err := os.ReadFile(file)
	if err != nil {
		return &ParseError{Path: path, Err: fmt.Errorf("read file: %w", err)}
	}
	decls, err := c.parser.Parse(ctx, path, content)
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			return perr
		}
		return &ParseError{Path: path, Err: err}
	}
	if err := tree.AddFile(path, decls); err != nil {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}
