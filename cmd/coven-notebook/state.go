// ABOUTME: theme, expand and collapse commands
// ABOUTME: Explicit load and save of persisted viewer state

package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/render"
	"github.com/2389/coven-notebook/internal/store"
)

func newThemeCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|auto]",
		Short:     "Show or save the display theme",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(markdown.ThemeDark), string(markdown.ThemeLight), string(markdown.ThemeAuto)},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			st, err := e.openStore()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				theme, err := resolveTheme(ctx, st, "", e.cfg.Render.Theme)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), theme)
				return nil
			}

			theme, err := markdown.ParseTheme(args[0])
			if err != nil {
				return err
			}
			if err := st.SetPreference(ctx, store.PrefTheme, string(theme)); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Theme set to %s\n", theme)
			return nil
		},
	}
}

func newExpandCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "expand <notebook> [directive-id...]",
		Short: "Open collapsible regions of a notebook",
		Long: `Open collapsible regions by the ids shown next to them in render output.
The notebook is an id, or a path to a local notebook file. With no directive
ids, lists the regions currently open.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateExpanded(cmd, e, notebookKey(args[0]), func(set *render.ExpandedSet) {
				for _, id := range args[1:] {
					set.Expand(id)
				}
			})
		},
	}
}

func newCollapseCmd(e *env) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "collapse <notebook> [directive-id...]",
		Short: "Close collapsible regions of a notebook",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && len(args) == 1 {
				return fmt.Errorf("give directive ids to collapse, or --all")
			}
			return updateExpanded(cmd, e, notebookKey(args[0]), func(set *render.ExpandedSet) {
				if all {
					*set = render.NewExpandedSet()
					return
				}
				for _, id := range args[1:] {
					set.Collapse(id)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "close every region")
	return cmd
}

// updateExpanded loads a notebook's expanded set, applies change, saves it and
// prints the result
func updateExpanded(cmd *cobra.Command, e *env, key string, change func(*render.ExpandedSet)) error {
	ctx := cmd.Context()
	st, err := e.openStore()
	if err != nil {
		return err
	}

	ids, err := st.LoadExpanded(ctx, key)
	if err != nil {
		return fmt.Errorf("loading view state: %w", err)
	}
	set := render.NewExpandedSet(ids...)
	change(&set)

	if err := st.SaveExpanded(ctx, key, set.IDs()); err != nil {
		return fmt.Errorf("saving view state: %w", err)
	}

	printExpanded(cmd.OutOrStdout(), set)
	return nil
}

func printExpanded(w io.Writer, set render.ExpandedSet) {
	if set.Len() == 0 {
		color.New(color.FgHiBlack).Fprintln(w, "(all regions collapsed)")
		return
	}
	for _, id := range set.IDs() {
		fmt.Fprintf(w, "▾ %s\n", id)
	}
}
