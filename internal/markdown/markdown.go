// ABOUTME: Markdown engines used to display directive text
// ABOUTME: goldmark renders HTML, glamour renders styled terminal output

package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Engine converts markdown text into a displayable fragment
type Engine interface {
	Render(text string) (string, error)
}

// Theme selects the terminal color scheme
type Theme string

// Theme constants
const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
	ThemeAuto  Theme = "auto"
)

// ParseTheme validates a theme name. The empty string means auto.
func ParseTheme(s string) (Theme, error) {
	switch Theme(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, nil
	case ThemeLight:
		return ThemeLight, nil
	case ThemeAuto, "":
		return ThemeAuto, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want dark, light or auto)", s)
	}
}

// HTMLEngine renders GitHub-flavored markdown to HTML.
// Raw HTML in the input is escaped.
type HTMLEngine struct {
	md goldmark.Markdown
}

// NewHTML creates an HTMLEngine
func NewHTML() *HTMLEngine {
	return &HTMLEngine{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render converts text to an HTML fragment
func (e *HTMLEngine) Render(text string) (string, error) {
	var buf bytes.Buffer
	if err := e.md.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

// TermEngine renders markdown for a terminal
type TermEngine struct {
	r *glamour.TermRenderer
}

// NewTerm creates a TermEngine for theme, wrapping at width columns
func NewTerm(theme Theme, width int) (*TermEngine, error) {
	if width <= 0 {
		width = 80
	}

	style := glamour.WithAutoStyle()
	switch theme {
	case ThemeDark:
		style = glamour.WithStylePath("dark")
	case ThemeLight:
		style = glamour.WithStylePath("light")
	}

	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil, fmt.Errorf("creating terminal renderer: %w", err)
	}
	return &TermEngine{r: r}, nil
}

// Render converts text to styled terminal output
func (e *TermEngine) Render(text string) (string, error) {
	out, err := e.r.Render(text)
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.Trim(out, "\n"), nil
}

// PlainEngine returns text unchanged. Used for notty output and in tests.
type PlainEngine struct{}

// Render returns text as-is
func (PlainEngine) Render(text string) (string, error) {
	return text, nil
}
