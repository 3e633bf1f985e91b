package web

import (
	"database/sql"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/errors"
	"github.com/hpungsan/linkbot/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	renderer *Renderer
}

// HandleList handles GET /bookmarks. With ?q= it searches handles instead
// of paging through all bookmarks.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	data := ListPageData{
		PageData: PageData{
			Title:   "Bookmarks",
			Version: h.renderer.version,
		},
		Query: query,
	}

	if query != "" {
		result, err := ops.Search(r.Context(), h.db, ops.SearchInput{Pattern: query})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		if wantsJSON(r) {
			renderJSON(w, http.StatusOK, result)
			return
		}
		data.Title = "Search"
		data.Matches = result.Handles
		data.HasMore = result.HasMore
		h.renderer.renderPage(w, "list", data)
		return
	}

	result, err := ops.List(r.Context(), h.db, ops.ListInput{
		Limit:  parseIntParam(r, "limit", ops.DefaultListLimit),
		Offset: parseIntParam(r, "offset", 0),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	data.Items = result.Items
	data.Pagination = result.Pagination
	h.renderer.renderPage(w, "list", data)
}

// HandleDetail handles GET /bookmarks/{handle}.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("handle is required"))
		return
	}

	b, err := ops.Resolve(r.Context(), h.db, ops.ResolveInput{Handle: handle})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, b)
		return
	}

	h.renderer.renderPage(w, "detail", DetailPageData{
		PageData: PageData{
			Title:   b.Handle,
			Version: h.renderer.version,
		},
		Bookmark:     b,
		RenderedHTML: h.renderer.renderMarkdown(b.Link),
		IsURL:        bookmark.IsURL(b.Link),
	})
}

// HandleGo handles GET /go/{handle}: a redirect to the stored link when it
// is a URL, otherwise to the bookmark's page.
func (h *Handlers) HandleGo(w http.ResponseWriter, r *http.Request) {
	handle := r.PathValue("handle")
	if handle == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("handle is required"))
		return
	}

	b, err := ops.Resolve(r.Context(), h.db, ops.ResolveInput{Handle: handle})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if bookmark.IsURL(b.Link) {
		http.Redirect(w, r, b.Link, http.StatusFound)
		return
	}
	http.Redirect(w, r, "/bookmarks/"+url.PathEscape(b.Handle), http.StatusFound)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
