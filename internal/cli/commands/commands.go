package commands

import (
	"io"
	"log"
	"os"

	"pytexp/internal/cli"
	"pytexp/internal/config"
	"pytexp/internal/storage"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Browse  *BrowseCommand
	Collect *CollectCommand

	logFile io.Closer
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config) *Commands {
	jsonStorage := storage.NewJSONStorage(cfg)

	return &Commands{
		Browse:  NewBrowseCommand(cfg),
		Collect: NewCollectCommand(cfg, jsonStorage),
	}
}

// Register registers all commands with cobra. The root command itself runs the browser.
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	rootCmd.RunE = c.Browse.Execute
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Update config with flags after parsing
		cfg.Apply(flags.ToConfigFlags())
		return c.openLog(cfg.Flags.DebugLog)
	}
	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return c.Close()
	}
	rootCmd.PersistentFlags().StringVarP(&flags.ProjectPath, "project-path", "p", "", "Project root; runner and full paths are relative to it")
	rootCmd.PersistentFlags().StringVarP(&flags.TestPath, "test-path", "t", "", "Path to the folder where test detection should start")
	rootCmd.PersistentFlags().BoolVar(&flags.Strict, "strict", false, "Abort on the first file that cannot be parsed instead of skipping it")
	rootCmd.PersistentFlags().StringVar(&flags.DebugLog, "debug-log", "", "Append diagnostics to this file")

	// Collect command
	collectCmd := &cobra.Command{
		Use:   "collect",
		Short: "List discovered tests",
		Long:  "Discover tests and print every full path, one per line, without starting the browser",
		Args:  cobra.NoArgs,
		RunE:  c.Collect.Execute,
	}
	collectCmd.Flags().StringVarP(&flags.JSONOutput, "json", "o", "", "Also write the collection to this JSON file")
	collectCmd.Flags().BoolVar(&flags.Progress, "progress", false, "Show a progress bar while parsing")
	rootCmd.AddCommand(collectCmd)
}

// openLog directs diagnostics to path, or discards them when path is empty
func (c *Commands) openLog(path string) error {
	logger := log.New(io.Discard, "", 0)
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		c.logFile = f
		logger = log.New(f, "pytexp ", log.LstdFlags|log.Lmicroseconds)
	}

	c.Browse.logger = logger
	c.Collect.logger = logger
	return nil
}

// Close releases the debug log. Cobra skips PersistentPostRunE when a command fails, so main calls it too.
func (c *Commands) Close() error {
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}
