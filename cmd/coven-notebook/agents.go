// ABOUTME: agents and instructions commands
// ABOUTME: Lists agents and reads or replaces an agent's instructions

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAgentsCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "agents",
		Short: "List agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agents, err := e.client().ListAgents(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(agents) == 0 {
				fmt.Fprintln(out, "No agents")
				return nil
			}

			cyan := color.New(color.FgCyan)
			gray := color.New(color.FgHiBlack)
			for _, a := range agents {
				cyan.Fprintf(out, "%s", a.ID)
				fmt.Fprintf(out, "  %s", a.Name())
				if a.Kind != "" {
					gray.Fprintf(out, " [%s]", a.Kind)
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newInstructionsCmd(e *env) *cobra.Command {
	var set string

	cmd := &cobra.Command{
		Use:   "instructions <agent-id>",
		Short: "Show or replace an agent's instructions",
		Long: `Show an agent's instructions, or replace them with the contents of a file
given to --set. Use --set - to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id := args[0]
			out := cmd.OutOrStdout()

			if set == "" {
				text, err := e.client().Instructions(ctx, id)
				if err != nil {
					return err
				}
				if text == "" {
					color.New(color.FgHiBlack).Fprintln(out, "(no instructions)")
					return nil
				}
				fmt.Fprintln(out, text)
				return nil
			}

			var data []byte
			var err error
			if set == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(set)
			}
			if err != nil {
				return fmt.Errorf("reading instructions: %w", err)
			}

			if err := e.client().UpdateInstructions(ctx, id, strings.TrimRight(string(data), "\n")); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(out, "✓ Updated instructions for %s\n", id)
			return nil
		},
	}

	cmd.Flags().StringVar(&set, "set", "", "file with the new instructions (- for stdin)")
	return cmd
}
