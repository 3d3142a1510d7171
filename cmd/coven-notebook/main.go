// ABOUTME: Entry point for coven-notebook, a terminal viewer for agent notebooks
// ABOUTME: Wires config, logging, the platform client and local state into cobra commands

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version is set by goreleaser at build time.
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(&env{}).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(e *env) *cobra.Command {
	root := &cobra.Command{
		Use:   "coven-notebook",
		Short: "View agent notebooks and hierarchies from the terminal",
		Long: `coven-notebook fetches notebooks written by authoring agents and renders
them to the terminal or to a standalone HTML page. Examples, answers and
other long regions start collapsed; expand them by id with the expand command.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return e.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}

	root.PersistentFlags().StringVar(&e.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/coven/notebook.yaml)")

	root.AddCommand(
		newRenderCmd(e),
		newHierarchyCmd(e),
		newAgentsCmd(e),
		newInstructionsCmd(e),
		newThemeCmd(e),
		newExpandCmd(e),
		newCollapseCmd(e),
		newServeCmd(e),
	)
	return root
}
