package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"pytexp/internal/cli"
	"pytexp/internal/cli/commands"
	"pytexp/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "pytexp",
		Short:   "Interactive pytest explorer",
		Long:    `Discover pytest tests without importing them, narrow the list with a live filter and run the selected test or class in place.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	err := rootCmd.ExecuteContext(ctx)
	cmds.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
