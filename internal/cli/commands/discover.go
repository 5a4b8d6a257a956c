package commands

import (
	"context"
	"log"

	"pytexp/internal/config"
	"pytexp/internal/discovery"
)

// discover scans and parses the configured test path
func discover(ctx context.Context, cfg *config.Config, progress discovery.Progress, logger *log.Logger) (*discovery.Result, error) {
	scanner := discovery.NewScanner(discovery.Naming{
		Ext:    cfg.SourceExt,
		Prefix: cfg.TestFilePrefix,
		Suffix: cfg.TestFileSuffix,
	}, cfg.PathsToIgnore)

	parser := discovery.NewParser(discovery.Prefixes{
		Function: cfg.FunctionPrefix,
		Class:    cfg.ClassPrefix,
	})
	defer parser.Close()

	collector := discovery.NewCollector(scanner, parser, cfg.RelativeToProject)
	collector.SetLogger(logger)
	if progress != nil {
		collector.SetProgress(progress)
	}
	return collector.Collect(ctx, cfg.GetTestPath(), cfg.Flags.Strict)
}
