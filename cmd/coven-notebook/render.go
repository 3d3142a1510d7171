// ABOUTME: render command: fetch or read a notebook and display it
// ABOUTME: Applies the saved expanded set and theme, writes terminal text or HTML

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/2389/coven-notebook/internal/config"
	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/notebook"
	"github.com/2389/coven-notebook/internal/render"
	"github.com/2389/coven-notebook/internal/store"
	"github.com/2389/coven-notebook/internal/view"
)

type renderOptions struct {
	file      string
	format    string
	out       string
	theme     string
	expandAll bool
	watch     bool
}

func newRenderCmd(e *env) *cobra.Command {
	var opts renderOptions

	cmd := &cobra.Command{
		Use:   "render [notebook-id]",
		Short: "Render a notebook to the terminal or to HTML",
		Long: `Render a notebook fetched from the platform, or read from a local JSON file
with --file. Regions expanded with the expand command are shown open.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (opts.file == "") {
				return fmt.Errorf("give either a notebook id or --file")
			}
			if opts.watch && opts.file == "" {
				return fmt.Errorf("--watch needs --file")
			}
			var id string
			if len(args) == 1 {
				id = args[0]
			}

			ctx, out := cmd.Context(), cmd.OutOrStdout()
			if err := runRender(ctx, e, out, id, opts); err != nil {
				return err
			}
			if !opts.watch {
				return nil
			}
			return watchFile(ctx, opts.file, watchDebounce, e.logger, func() {
				e.logger.Info("notebook file changed, rendering again", "path", opts.file)
				if err := runRender(ctx, e, out, id, opts); err != nil {
					// Editors can leave a half-written file; the next save retries.
					e.logger.Error("render failed", "error", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read the notebook from a JSON file instead of the API")
	cmd.Flags().StringVar(&opts.format, "format", "", "output format: terminal or html (default from config)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&opts.theme, "theme", "", "dark, light or auto (default: saved theme)")
	cmd.Flags().BoolVar(&opts.expandAll, "expand-all", false, "show every collapsible region open")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "render again whenever the --file notebook changes")
	return cmd
}

func runRender(ctx context.Context, e *env, stdout io.Writer, id string, opts renderOptions) error {
	data, key, err := loadNotebook(ctx, e, id, opts.file)
	if err != nil {
		return err
	}

	doc, err := notebook.NewNormalizer(e.logger).ParseDocument(data)
	if err != nil {
		return fmt.Errorf("parsing notebook: %w", err)
	}

	st, err := e.openStore()
	if err != nil {
		return err
	}

	ids, err := st.LoadExpanded(ctx, key)
	if err != nil {
		return fmt.Errorf("loading view state: %w", err)
	}
	expanded := render.NewExpandedSet(ids...)
	if opts.expandAll {
		expanded = render.NewExpandedSet(collapsibleIDs(render.Render(doc, expanded))...)
	}
	directives := render.Render(doc, expanded)

	theme, err := resolveTheme(ctx, st, opts.theme, e.cfg.Render.Theme)
	if err != nil {
		return err
	}

	format := opts.format
	if format == "" {
		format = e.cfg.Render.Format
	}

	w := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	e.logger.Debug("rendering notebook",
		"notebook", key,
		"format", format,
		"theme", theme,
		"directives", len(directives),
		"expanded", expanded.Len(),
	)

	switch format {
	case config.FormatHTML:
		return view.WriteHTML(w, doc.Outline, directives, view.Options{Theme: theme, Logger: e.logger})
	case config.FormatTerminal:
		writeHeader(w, doc.Outline)
		return view.WriteTerminal(w, directives, view.Options{
			Theme:  theme,
			Engine: terminalEngine(e, w, theme),
			Logger: e.logger,
		})
	default:
		return fmt.Errorf("unknown format %q (want %s or %s)", format, config.FormatTerminal, config.FormatHTML)
	}
}

// terminalEngine styles markdown with glamour when w is a terminal. Pipes and
// files get the text unchanged.
func terminalEngine(e *env, w io.Writer, theme markdown.Theme) markdown.Engine {
	if !isTerminal(w) {
		return markdown.PlainEngine{}
	}
	engine, err := markdown.NewTerm(theme, e.cfg.Render.Width)
	if err != nil {
		e.logger.Warn("terminal markdown unavailable, using plain text", "error", err)
		return markdown.PlainEngine{}
	}
	return engine
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadNotebook returns the raw document and the key its view state is saved under
func loadNotebook(ctx context.Context, e *env, id, file string) ([]byte, string, error) {
	if file == "" {
		data, err := e.client().NotebookContent(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return data, id, nil
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, "", fmt.Errorf("reading notebook file: %w", err)
	}
	return data, fileKey(file), nil
}

// fileKey is the view state key of a local notebook file
func fileKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return "file:" + path
}

// notebookKey maps a command argument to its view state key. Arguments that
// name an existing file are treated like --file.
func notebookKey(arg string) string {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return fileKey(arg)
	}
	return arg
}

func collapsibleIDs(directives []render.Directive) []string {
	var ids []string
	for _, d := range directives {
		if d.Collapsible {
			ids = append(ids, d.ID)
		}
	}
	return ids
}

// resolveTheme picks the theme: flag, then saved preference, then config
func resolveTheme(ctx context.Context, st store.Store, flagValue, configured string) (markdown.Theme, error) {
	if flagValue != "" {
		return markdown.ParseTheme(flagValue)
	}

	saved, err := st.GetPreference(ctx, store.PrefTheme)
	switch {
	case err == nil:
		return markdown.ParseTheme(saved)
	case errors.Is(err, store.ErrNotFound):
		return markdown.ParseTheme(configured)
	default:
		return "", fmt.Errorf("loading theme: %w", err)
	}
}

func writeHeader(w io.Writer, outline notebook.Outline) {
	if outline.Title != "" {
		color.New(color.Bold).Fprintln(w, outline.Title)
	}
	if outline.Description != "" {
		color.New(color.FgHiBlack).Fprintln(w, outline.Description)
	}
}
