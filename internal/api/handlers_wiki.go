package api

import (
	"net/http"
	"strconv"

	"github.com/dgallion1/wikibinder/internal/wiki"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := s.cfg.DefaultSearchLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	results, err := s.wiki.Search(r.Context(), query, limit)
	if err != nil {
		s.log.Error("search failed", "query", query, "error", err)
		jsonError(w, "search failed", http.StatusBadGateway)
		return
	}
	if results == nil {
		results = []wiki.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// handleArticle returns one article body, served from the cache when
// possible. The title is a query parameter because article titles may
// contain slashes.
func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		jsonError(w, "title query parameter is required", http.StatusBadRequest)
		return
	}

	html, err := s.fetch(r.Context(), title)
	if err != nil {
		s.log.Warn("article fetch failed", "title", title, "error", err)
		jsonError(w, "failed to fetch article \""+title+"\"", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"title": title,
		"html":  html,
	})
}

func (s *Server) handleDeleteArticleCache(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")
	if title == "" {
		jsonError(w, "title query parameter is required", http.StatusBadRequest)
		return
	}
	if err := s.store.DeleteCachedArticle(r.Context(), title); err != nil {
		s.log.Error("cache delete failed", "title", title, "error", err)
		jsonError(w, "failed to delete cache entry", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": title})
}
