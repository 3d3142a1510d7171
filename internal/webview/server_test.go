// ABOUTME: Tests for the viewer routes against a fake platform source
// ABOUTME: Covers pages, notebook caching, toggle persistence, theme and error mapping

package webview

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/coven-notebook/internal/client"
	"github.com/2389/coven-notebook/internal/hierarchy"
	"github.com/2389/coven-notebook/internal/markdown"
	"github.com/2389/coven-notebook/internal/store"
)

const notebookJSON = `{
	"outline": {"notebook_title": "Signs", "notebook_description": "A short notebook", "outlines": {"Basics": "Start here"}},
	"sections": {"Basics": {
		"introduction": "Numbers have signs.",
		"concept_blocks": [{
			"definition": "x is positive when x>0",
			"examples": [
				{"question_type":"multiple_choice","question":"Which is negative?","options":["x>0","x<0","x=0"],"correct_answer":"B"}
			]
		}]
	}}
}`

// fakeSource serves fixed platform data and counts notebook fetches
type fakeSource struct {
	mu         sync.Mutex
	fetches    int
	contentErr error
	content    string
}

func (f *fakeSource) ListAgents(ctx context.Context) ([]hierarchy.Agent, error) {
	return []hierarchy.Agent{
		{ID: "root", DisplayName: "Course", Kind: hierarchy.KindTopLevel},
		{ID: "nb1", DisplayName: "Signs", Kind: hierarchy.KindNotebook, Description: "Signs of numbers"},
	}, nil
}

func (f *fakeSource) Hierarchy(ctx context.Context, id string) (*client.Hierarchy, error) {
	if id != "m1" {
		return nil, &client.APIError{StatusCode: http.StatusNotFound, Message: "no such agent"}
	}
	return &client.Hierarchy{
		Parent:  &hierarchy.Agent{ID: "root", DisplayName: "Course", Kind: hierarchy.KindTopLevel},
		Current: hierarchy.Agent{ID: "m1", DisplayName: "Algebra", Kind: hierarchy.KindMaster},
		Children: []hierarchy.Agent{
			{ID: "nb1", DisplayName: "Signs", Kind: hierarchy.KindNotebook},
			{ID: "nb2", DisplayName: "Lines", Kind: hierarchy.KindNotebook},
		},
	}, nil
}

func (f *fakeSource) NotebookContent(ctx context.Context, id string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	if f.contentErr != nil {
		return nil, f.contentErr
	}
	if f.content != "" {
		return []byte(f.content), nil
	}
	return []byte(notebookJSON), nil
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (http.Handler, *fakeSource, *store.MockStore) {
	t.Helper()
	src := &fakeSource{}
	st := store.NewMockStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s := New(src, st, Config{CacheTTL: time.Minute, CacheSize: 8}, logger)
	t.Cleanup(s.Close)

	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return mux, src, st
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAgentsPage(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := get(h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, `class="theme-auto"`)
	assert.Contains(t, body, `<a href="/agents/root">Course</a>`)
	assert.Contains(t, body, `<a href="/notebooks/nb1">Signs</a>`)
	assert.Contains(t, body, "Signs of numbers")
}

func TestUnknownPathIsNotFound(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := get(h, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHierarchyPage(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := get(h, "/agents/m1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<h1>Algebra</h1>")
	assert.Contains(t, body, `<pre class="hierarchy">`)
	assert.Contains(t, body, "┬")
	assert.NotContains(t, body, "\x1b[")
	assert.Contains(t, body, `<a href="/agents/root">Course</a>`)
	assert.Contains(t, body, `<a href="/notebooks/nb1">Signs</a>`)
	assert.Contains(t, body, `<a href="/notebooks/nb2">Lines</a>`)
	assert.NotContains(t, body, "Open notebook")
}

func TestHierarchyPage_NotFound(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := get(h, "/agents/ghost")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotebookPage(t *testing.T) {
	h, _, st := newTestServer(t)
	require.NoError(t, st.SaveExpanded(context.Background(), "nb1", []string{"s0/cb0/examples"}))

	rec := get(h, "/notebooks/nb1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "<title>Signs</title>")
	assert.Contains(t, body, `data-id="s0/cb0/examples" open>`)
	assert.Contains(t, body, `data-id="s0/cb0/examples/0/reveal">`)
	assert.Contains(t, body, "<script>")
}

func TestNotebookPage_Cached(t *testing.T) {
	h, src, _ := newTestServer(t)

	require.Equal(t, http.StatusOK, get(h, "/notebooks/nb1").Code)
	require.Equal(t, http.StatusOK, get(h, "/notebooks/nb1").Code)
	assert.Equal(t, 1, src.fetchCount())

	require.Equal(t, http.StatusOK, get(h, "/notebooks/nb1?refresh=1").Code)
	assert.Equal(t, 2, src.fetchCount())
}

func TestNotebookPage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		content string
		want    int
	}{
		{
			name: "not found",
			err:  &client.APIError{StatusCode: http.StatusNotFound},
			want: http.StatusNotFound,
		},
		{
			name: "platform failure",
			err:  &client.APIError{StatusCode: http.StatusInternalServerError, Message: "boom"},
			want: http.StatusBadGateway,
		},
		{
			name: "transport failure",
			err:  errors.New("connection refused"),
			want: http.StatusInternalServerError,
		},
		{
			name:    "malformed document",
			content: "not json",
			want:    http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, src, _ := newTestServer(t)
			src.contentErr = tt.err
			src.content = tt.content

			rec := get(h, "/notebooks/nb1")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestToggle(t *testing.T) {
	h, _, st := newTestServer(t)
	ctx := context.Background()

	rec := postForm(h, "/notebooks/nb1/expanded", url.Values{"directive": {"s0/cb0/examples"}, "open": {"1"}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = postForm(h, "/notebooks/nb1/expanded", url.Values{"directive": {"s0/cb0/examples/0/reveal"}, "open": {"1"}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	ids, err := st.LoadExpanded(ctx, "nb1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s0/cb0/examples", "s0/cb0/examples/0/reveal"}, ids)

	rec = postForm(h, "/notebooks/nb1/expanded", url.Values{"directive": {"s0/cb0/examples"}, "open": {"0"}})
	require.Equal(t, http.StatusNoContent, rec.Code)

	ids, err = st.LoadExpanded(ctx, "nb1")
	require.NoError(t, err)
	assert.Equal(t, []string{"s0/cb0/examples/0/reveal"}, ids)

	// Closing an already closed region is a no-op.
	rec = postForm(h, "/notebooks/nb1/expanded", url.Values{"directive": {"s0/cb0/examples"}, "open": {"0"}})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestToggle_MissingDirective(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := postForm(h, "/notebooks/nb1/expanded", url.Values{"open": {"1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTheme(t *testing.T) {
	h, _, st := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/theme", strings.NewReader("theme=dark"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", "http://localhost:7777/agents/m1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/agents/m1", rec.Header().Get("Location"))

	saved, err := st.GetPreference(context.Background(), store.PrefTheme)
	require.NoError(t, err)
	assert.Equal(t, string(markdown.ThemeDark), saved)

	assert.Contains(t, get(h, "/").Body.String(), `class="theme-dark"`)
}

func TestTheme_Invalid(t *testing.T) {
	h, _, st := newTestServer(t)

	rec := postForm(h, "/theme", url.Values{"theme": {"sepia"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	_, err := st.GetPreference(context.Background(), store.PrefTheme)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTheme_NoRefererRedirectsHome(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := postForm(h, "/theme", url.Values{"theme": {"light"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestSavedThemeIgnoredWhenInvalid(t *testing.T) {
	h, _, st := newTestServer(t)
	require.NoError(t, st.SetPreference(context.Background(), store.PrefTheme, "sepia"))

	assert.Contains(t, get(h, "/").Body.String(), `class="theme-auto"`)
}
