// ABOUTME: Browser viewer for notebooks and agent hierarchies
// ABOUTME: Serves rendered pages and records region toggles in the view state store

package webview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/2389/coven-notebook/internal/cache"
	"github.com/2389/coven-notebook/internal/client"
	"github.com/2389/coven-notebook/internal/hierarchy"
	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/notebook"
	"github.com/2389/coven-notebook/internal/render"
	"github.com/2389/coven-notebook/internal/store"
	"github.com/2389/coven-notebook/internal/view"
)

// Source is the platform data the viewer reads. *client.Client satisfies it.
type Source interface {
	ListAgents(ctx context.Context) ([]hierarchy.Agent, error)
	Hierarchy(ctx context.Context, id string) (*client.Hierarchy, error)
	NotebookContent(ctx context.Context, id string) ([]byte, error)
}

// Config holds viewer configuration
type Config struct {
	// Theme is used until a theme preference is saved
	Theme markdown.Theme

	// CacheTTL is how long a parsed notebook is reused
	CacheTTL time.Duration

	// CacheSize bounds the number of cached notebooks
	CacheSize int
}

// Server handles viewer routes
type Server struct {
	source Source
	store  store.Store
	config Config
	docs   *cache.Cache[*notebook.Document]
	logger *slog.Logger

	// stateMu serializes read-modify-write of expanded sets
	stateMu sync.Mutex
}

// New creates a viewer. Close must be called to stop the notebook cache.
func New(source Source, st store.Store, cfg Config, logger *slog.Logger) *Server {
	if cfg.Theme == "" {
		cfg.Theme = markdown.ThemeAuto
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Server{
		source: source,
		store:  st,
		config: cfg,
		docs:   cache.New[*notebook.Document](cfg.CacheTTL, cfg.CacheSize),
		logger: logger.With("component", "webview"),
	}
}

// Close releases viewer resources
func (s *Server) Close() {
	s.docs.Close()
}

// RegisterRoutes registers all viewer routes on the given mux
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handleAgents)
	mux.HandleFunc("GET /agents/{id}", s.handleHierarchy)
	mux.HandleFunc("GET /notebooks/{id}", s.handleNotebook)
	mux.HandleFunc("POST /notebooks/{id}/expanded", s.handleToggle)
	mux.HandleFunc("POST /theme", s.handleTheme)

	s.logger.Info("viewer routes registered")
}

func (s *Server) handleAgents(w http.ResponseWriter, r *http.Request) {
	agents, err := s.source.ListAgents(r.Context())
	if err != nil {
		s.fail(w, "listing agents", err)
		return
	}

	items := make([]agentItem, len(agents))
	for i, a := range agents {
		items[i] = newAgentItem(a)
	}
	s.renderAgents(w, s.theme(r.Context()), items)
}

func (s *Server) handleHierarchy(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	h, err := s.source.Hierarchy(r.Context(), id)
	if err != nil {
		s.fail(w, "fetching hierarchy", err)
		return
	}

	plan := h.Plan()
	canvas := hierarchy.Mount(plan)
	edges := hierarchy.ComputeEdges(plan, canvas)

	data := hierarchyData{
		Title:   h.Current.Name(),
		Theme:   s.theme(r.Context()),
		Drawing: ansi.Strip(canvas.Draw(edges)),
		Current: newAgentItem(h.Current),
	}
	if h.Parent != nil {
		parent := newAgentItem(*h.Parent)
		data.Parent = &parent
	}
	for _, c := range h.Children {
		data.Children = append(data.Children, newAgentItem(c))
	}

	s.logger.Debug("hierarchy laid out", "agent", id, "signature", plan.Signature(), "edges", len(edges))
	s.renderHierarchy(w, data)
}

func (s *Server) handleNotebook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if r.URL.Query().Get("refresh") != "" {
		s.docs.Invalidate(id)
	}

	doc, err := s.document(ctx, id)
	if err != nil {
		s.fail(w, "loading notebook", err)
		return
	}

	ids, err := s.store.LoadExpanded(ctx, id)
	if err != nil {
		s.fail(w, "loading view state", err)
		return
	}

	directives := render.Render(doc, render.NewExpandedSet(ids...))

	var buf bytes.Buffer
	err = view.WriteHTML(&buf, doc.Outline, directives, view.Options{
		Theme:     s.theme(ctx),
		Logger:    s.logger,
		ToggleURL: "/notebooks/" + url.PathEscape(id) + "/expanded",
	})
	if err != nil {
		s.fail(w, "rendering notebook", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Error("failed to write notebook page", "notebook", id, "error", err)
	}
}

// document returns the parsed notebook, fetching it when not cached
func (s *Server) document(ctx context.Context, id string) (*notebook.Document, error) {
	if doc, ok := s.docs.Get(id); ok {
		return doc, nil
	}

	data, err := s.source.NotebookContent(ctx, id)
	if err != nil {
		return nil, err
	}
	doc, err := notebook.NewNormalizer(s.logger).ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing notebook %s: %w", id, err)
	}

	s.docs.Put(id, doc)
	return doc, nil
}

// handleToggle records one region being opened or closed. Form fields:
// directive (the directive id) and open ("1" or "0").
func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")

	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	directive := r.PostFormValue("directive")
	if directive == "" {
		http.Error(w, "directive is required", http.StatusBadRequest)
		return
	}
	open := r.PostFormValue("open") == "1"

	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	ids, err := s.store.LoadExpanded(ctx, id)
	if err != nil {
		s.fail(w, "loading view state", err)
		return
	}

	has := slices.Contains(ids, directive)
	switch {
	case open && !has:
		ids = append(ids, directive)
	case !open && has:
		ids = slices.DeleteFunc(ids, func(x string) bool { return x == directive })
	default:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := s.store.SaveExpanded(ctx, id, ids); err != nil {
		s.fail(w, "saving view state", err)
		return
	}

	s.logger.Debug("region toggled", "notebook", id, "directive", directive, "open", open)
	w.WriteHeader(http.StatusNoContent)
}

// handleTheme saves the theme preference and redirects back
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	theme, err := markdown.ParseTheme(r.PostFormValue("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := s.store.SetPreference(r.Context(), store.PrefTheme, string(theme)); err != nil {
		s.fail(w, "saving theme", err)
		return
	}

	back := "/"
	if ref, err := url.Parse(r.Referer()); err == nil && ref.Path != "" {
		back = ref.RequestURI()
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// theme returns the saved theme, or the configured one when none is saved
// or the saved value is unusable
func (s *Server) theme(ctx context.Context) markdown.Theme {
	saved, err := s.store.GetPreference(ctx, store.PrefTheme)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.Warn("failed to load theme preference", "error", err)
		}
		return s.config.Theme
	}

	theme, err := markdown.ParseTheme(saved)
	if err != nil {
		s.logger.Warn("ignoring saved theme", "value", saved, "error", err)
		return s.config.Theme
	}
	return theme
}

// fail writes an error response. Platform not-found errors map to 404. Other
// platform failures and unreadable documents map to 502.
func (s *Server) fail(w http.ResponseWriter, action string, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
		return
	case errors.As(err, &apiErr), errors.Is(err, notebook.ErrInvalidDocument):
		s.logger.Warn("platform request failed", "action", action, "error", err)
		http.Error(w, "platform request failed", http.StatusBadGateway)
		return
	}

	s.logger.Error("request failed", "action", action, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

var _ Source = (*client.Client)(nil)
