package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/wikibinder/internal/assemble"
	"github.com/dgallion1/wikibinder/internal/render"
)

// handleExport renders a project and streams the finished file. The
// whole artifact is built in memory first; a failure mid-pipeline
// returns a JSON error and no file at all.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := chi.URLParam(r, "projectID")
	p, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		s.log.Error("load project for export", "id", id, "error", err)
		jsonError(w, "failed to load project", http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "project not found", http.StatusNotFound)
		return
	}

	out, err := s.exporter.Export(r.Context(), p, format, s.settings.Get())
	if err != nil {
		var fetchErr *assemble.ArticleFetchError
		if errors.As(err, &fetchErr) {
			jsonError(w, fmt.Sprintf("failed to fetch article %q", fetchErr.Title), http.StatusBadGateway)
			return
		}
		s.log.Error("export failed", "project", id, "format", string(format), "error", err)
		jsonError(w, "export failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", out.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(out.Data)))
	w.Write(out.Data)
}
