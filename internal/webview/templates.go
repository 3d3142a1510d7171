// ABOUTME: Template rendering functions for the viewer
// ABOUTME: Loads templates from embedded filesystem and renders them

package webview

import (
	"html/template"
	"net/http"
	"net/url"

	"github.com/2389/coven-notebook/internal/hierarchy"
	"github.com/2389/coven-notebook/internal/markdown"
)

// Template data types
type agentItem struct {
	ID          string
	Name        string
	Kind        string
	Description string
	Href        string
}

// newAgentItem links notebook agents to their notebook page and every other
// agent to its hierarchy page
func newAgentItem(a hierarchy.Agent) agentItem {
	href := "/agents/" + url.PathEscape(a.ID)
	if a.Kind == hierarchy.KindNotebook {
		href = "/notebooks/" + url.PathEscape(a.ID)
	}
	return agentItem{
		ID:          a.ID,
		Name:        a.Name(),
		Kind:        string(a.Kind),
		Description: a.Description,
		Href:        href,
	}
}

type agentsData struct {
	Title  string
	Theme  markdown.Theme
	Agents []agentItem
}

type hierarchyData struct {
	Title    string
	Theme    markdown.Theme
	Drawing  string
	Parent   *agentItem
	Current  agentItem
	Children []agentItem
}

// renderAgents renders the agent list page
func (s *Server) renderAgents(w http.ResponseWriter, theme markdown.Theme, agents []agentItem) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/agents.html"))

	data := agentsData{
		Title:  "Agents",
		Theme:  theme,
		Agents: agents,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render agents page", "error", err)
	}
}

// renderHierarchy renders the hierarchy page of one agent
func (s *Server) renderHierarchy(w http.ResponseWriter, data hierarchyData) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/hierarchy.html"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		s.logger.Error("failed to render hierarchy page", "error", err)
	}
}
