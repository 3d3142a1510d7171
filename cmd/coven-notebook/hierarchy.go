// ABOUTME: hierarchy command: draw an agent with its parent and children
// ABOUTME: Runs the logical layout, mounts boxes, then derives edges from their geometry

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/2389/coven-notebook/internal/hierarchy"
)

func newHierarchyCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "hierarchy <agent-id>",
		Short: "Show an agent with its parent and child agents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := e.client().Hierarchy(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			plan := h.Plan()
			canvas := hierarchy.Mount(plan)
			edges := hierarchy.ComputeEdges(plan, canvas)

			e.logger.Debug("hierarchy laid out",
				"agent", args[0],
				"signature", plan.Signature(),
				"edges", len(edges),
			)

			_, err = fmt.Fprintln(cmd.OutOrStdout(), canvas.Draw(edges))
			return err
		},
	}
}
