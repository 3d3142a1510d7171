// ABOUTME: Writes rendered notebooks as standalone HTML pages
// ABOUTME: Collapsible directives become <details> elements opened per the expanded set

package view

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/notebook"
	"github.com/2389/coven-notebook/internal/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/notebook.html"))

// pageData holds data for the notebook page
type pageData struct {
	Title       string
	Description string
	Theme       string
	ToggleURL   string
	Nodes       []*htmlNode
}

// htmlNode is one directive with its rendered body and nested directives
type htmlNode struct {
	render.Directive
	Heading  bool
	Body     template.HTML
	Children []*htmlNode
}

// WriteHTML writes a full HTML page for directives. Every directive is
// written, including hidden ones, so the page can be browsed offline.
func WriteHTML(w io.Writer, outline notebook.Outline, directives []render.Directive, opts Options) error {
	if opts.Engine == nil {
		opts.Engine = markdown.NewHTML()
	}
	opts = opts.withDefaults()

	data := pageData{
		Title:       outline.Title,
		Description: outline.Description,
		Theme:       string(opts.Theme),
		ToggleURL:   opts.ToggleURL,
		Nodes:       nest(directives, func(d render.Directive) template.HTML { return htmlBody(d, opts) }),
	}
	if data.Title == "" {
		data.Title = "Notebook"
	}

	if err := pageTemplate.ExecuteTemplate(w, "notebook", data); err != nil {
		return fmt.Errorf("executing notebook template: %w", err)
	}
	return nil
}

// nest arranges directives into a tree: a directive owns every following
// directive that is deeper than it.
func nest(directives []render.Directive, body func(render.Directive) template.HTML) []*htmlNode {
	var roots, stack []*htmlNode
	for _, d := range directives {
		n := &htmlNode{Directive: d, Heading: d.Kind == render.KindSection, Body: body(d)}
		for len(stack) > 0 && stack[len(stack)-1].Depth >= d.Depth {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, n)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, n)
		}
		stack = append(stack, n)
	}
	return roots
}

// htmlBody converts a directive's text. Engine failures fall back to escaped
// text so one bad fragment never blanks the page.
func htmlBody(d render.Directive, opts Options) template.HTML {
	text := d.Text
	if len(d.Runs) > 0 {
		text = blankMarkdown(d.Runs)
	}
	if text == "" {
		return ""
	}

	out, err := opts.Engine.Render(text)
	if err != nil {
		opts.Logger.Warn("markdown render failed", "directive", d.ID, "error", err)
		return template.HTML("<p>" + html.EscapeString(text) + "</p>")
	}
	// Engine output is trusted: goldmark escapes raw HTML in its input.
	return template.HTML(out)
}

// blankMarkdown rebuilds fill-blank text with placeholder tokens as code spans
func blankMarkdown(runs []notebook.Run) string {
	var s string
	for _, r := range runs {
		if r.Kind == notebook.RunBlank {
			s += "`" + r.Value + "`"
			continue
		}
		s += r.Value
	}
	return s
}
