// ABOUTME: Writes the visible part of a rendered notebook to a terminal
// ABOUTME: Collapsed regions show a reveal affordance with their directive id

package view

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/notebook"
	"github.com/2389/coven-notebook/internal/render"
)

// Options carries presentation settings into a render call
type Options struct {
	Theme  markdown.Theme
	Engine markdown.Engine
	Logger *slog.Logger

	// ToggleURL, when set, makes HTML pages POST each open/close of a region
	// to it so the expanded set survives a reload. Terminal output ignores it.
	ToggleURL string
}

func (o Options) withDefaults() Options {
	if o.Theme == "" {
		o.Theme = markdown.ThemeAuto
	}
	if o.Engine == nil {
		o.Engine = markdown.PlainEngine{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// palette holds the terminal styles for one theme
type palette struct {
	heading lipgloss.Style
	label   lipgloss.Style
	toggle  lipgloss.Style
	id      lipgloss.Style
	blank   lipgloss.Style
	correct lipgloss.Style
}

func newPalette(theme markdown.Theme) palette {
	accent := lipgloss.TerminalColor(lipgloss.AdaptiveColor{Light: "25", Dark: "111"})
	muted := lipgloss.TerminalColor(lipgloss.AdaptiveColor{Light: "245", Dark: "241"})
	good := lipgloss.TerminalColor(lipgloss.AdaptiveColor{Light: "28", Dark: "46"})
	switch theme {
	case markdown.ThemeDark:
		accent, muted, good = lipgloss.Color("111"), lipgloss.Color("241"), lipgloss.Color("46")
	case markdown.ThemeLight:
		accent, muted, good = lipgloss.Color("25"), lipgloss.Color("245"), lipgloss.Color("28")
	}

	return palette{
		heading: lipgloss.NewStyle().Bold(true).Foreground(accent).MarginTop(1),
		label:   lipgloss.NewStyle().Bold(true),
		toggle:  lipgloss.NewStyle().Foreground(accent),
		id:      lipgloss.NewStyle().Foreground(muted),
		blank:   lipgloss.NewStyle().Underline(true).Foreground(accent),
		correct: lipgloss.NewStyle().Bold(true).Foreground(good),
	}
}

// WriteTerminal writes the visible directives. Collapsible directives print
// a marker (▸ collapsed, ▾ expanded) followed by their id, which the expand
// and collapse commands accept.
func WriteTerminal(w io.Writer, directives []render.Directive, opts Options) error {
	opts = opts.withDefaults()
	p := newPalette(opts.Theme)

	for _, d := range render.VisibleOnly(directives) {
		indent := strings.Repeat("  ", d.Depth)

		var block string
		switch {
		case d.Collapsible:
			block = toggleLine(d, p)
		case d.Kind == render.KindSection:
			block = p.heading.Render(d.Label)
			if d.Text != "" {
				block += "\n" + terminalText(d.ID, d.Text, opts)
			}
		case len(d.Runs) > 0:
			block = labelled(d.Label, annotated(d.Runs, p), p)
		case d.Kind == render.KindCorrectAnswer:
			block = labelled(d.Label, correctOptions(d, p, opts), p)
		default:
			block = labelled(d.Label, terminalText(d.ID, d.Text, opts), p)
		}

		if _, err := fmt.Fprintln(w, indentLines(block, indent)); err != nil {
			return fmt.Errorf("writing directive %s: %w", d.ID, err)
		}
	}
	return nil
}

func toggleLine(d render.Directive, p palette) string {
	marker := "▸"
	if d.Expanded {
		marker = "▾"
	}
	text := marker + " " + d.Label
	if d.ItemCount > 0 && d.IsGroup() {
		text += fmt.Sprintf(" (%d)", d.ItemCount)
	}
	return p.toggle.Render(text) + " " + p.id.Render("["+d.ID+"]")
}

func labelled(label, body string, p palette) string {
	switch {
	case label == "":
		return body
	case body == "":
		return p.label.Render(label)
	default:
		return p.label.Render(label) + "\n" + body
	}
}

// annotated prints fill-blank text with placeholder tokens highlighted
func annotated(runs []notebook.Run, p palette) string {
	var b strings.Builder
	for _, r := range runs {
		if r.Kind == notebook.RunBlank {
			b.WriteString(p.blank.Render(r.Value))
			continue
		}
		b.WriteString(r.Value)
	}
	return b.String()
}

// correctOptions lists the options with the correct one highlighted. When the
// answer matches no option, the answer text is printed as given.
func correctOptions(d render.Directive, p palette, opts Options) string {
	var lines []string
	matched := false
	for _, o := range d.Options {
		line := o.Label + ". " + o.Text
		if o.Correct {
			matched = true
			line = p.correct.Render("✓ " + line)
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if !matched {
		return terminalText(d.ID, d.Text, opts)
	}
	return strings.Join(lines, "\n")
}

func terminalText(id, text string, opts Options) string {
	if text == "" {
		return ""
	}
	out, err := opts.Engine.Render(text)
	if err != nil {
		opts.Logger.Warn("markdown render failed", "directive", id, "error", err)
		return text
	}
	return out
}

func indentLines(s, indent string) string {
	if indent == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = indent + l
		}
	}
	return strings.Join(lines, "\n")
}
