package commands

import (
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"pytexp/internal/app"
	"pytexp/internal/config"
	"pytexp/internal/discovery"
	"pytexp/internal/execution"
	"pytexp/internal/ui"
)

// BrowseCommand runs the interactive browser
type BrowseCommand struct {
	config *config.Config
	logger *log.Logger
}

// NewBrowseCommand creates a new BrowseCommand
func NewBrowseCommand(cfg *config.Config) *BrowseCommand {
	return &BrowseCommand{
		config: cfg,
		logger: log.New(io.Discard, "", 0),
	}
}

// Execute runs the command
func (bc *BrowseCommand) Execute(cmd *cobra.Command, args []string) error {
	result, err := discover(cmd.Context(), bc.config, nil, bc.logger)
	if err != nil {
		return err
	}

	engine, err := discovery.NewEngine(result.Tree, discovery.DefaultCountCacheSize)
	if err != nil {
		return fmt.Errorf("create filter engine: %w", err)
	}

	runner := execution.NewRunner(bc.config)
	explorer := app.New(engine, runner, execution.NewShell(runner))
	explorer.SetLogger(bc.logger)

	if err := ui.NewBrowser(explorer).Run(); err != nil {
		return err
	}

	// the browser owned the terminal until now
	ui.NewFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr()).PrintSkipped(result.Skipped)
	return nil
}
