package commands

import (
	"errors"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
	"pytexp/internal/config"
	"pytexp/internal/discovery"
	"pytexp/internal/storage"
	"pytexp/internal/ui"
)

// CollectCommand handles the collect command
type CollectCommand struct {
	config  *config.Config
	storage storage.Storage
	logger  *log.Logger
}

// NewCollectCommand creates a new CollectCommand
func NewCollectCommand(cfg *config.Config, st storage.Storage) *CollectCommand {
	return &CollectCommand{
		config:  cfg,
		storage: st,
		logger:  log.New(io.Discard, "", 0),
	}
}

// Execute runs the command
func (cc *CollectCommand) Execute(cmd *cobra.Command, args []string) error {
	formatter := ui.NewFormatter(cmd.OutOrStdout(), cmd.ErrOrStderr())

	var progress discovery.Progress
	if cc.config.Flags.Progress {
		progress = ui.NewProgressBar(cmd.ErrOrStderr())
	}

	testPath := cc.config.GetTestPath()
	result, err := discover(cmd.Context(), cc.config, progress, cc.logger)
	if err != nil {
		return err
	}

	collection := storage.NewCollection(cc.config.RelativeToProject(testPath), result)
	formatter.PrintSkipped(result.Skipped)
	formatter.PrintCollection(collection)

	if cc.config.GetOutputPath() == "" {
		return nil
	}
	previous, err := cc.storage.Load()
	switch {
	case err == nil:
		formatter.PrintChanges(storage.Diff(previous, collection), previous.Meta.Timestamp)
	case errors.Is(err, os.ErrNotExist):
	default:
		cc.logger.Printf("previous collection ignored: %v", err)
	}
	if err := cc.storage.Save(collection); err != nil {
		return err
	}
	formatter.PrintSaved(cc.config.GetOutputPath())
	return nil
}
