package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/wikibinder/internal/project"
)

// projectRequest is the client-editable part of a project.
type projectRequest struct {
	Name     string   `json:"name"`
	Notes    string   `json:"notes"`
	Articles []string `json:"articles"`
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context())
	if err != nil {
		s.log.Error("list projects", "error", err)
		jsonError(w, "failed to list projects", http.StatusInternalServerError)
		return
	}
	if projects == nil {
		projects = []*project.Project{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}

	p, err := s.store.CreateProject(r.Context(), &project.Project{
		Name:     req.Name,
		Notes:    req.Notes,
		Articles: req.Articles,
	})
	if err != nil {
		s.log.Error("create project", "error", err)
		jsonError(w, "failed to create project", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		s.log.Error("get project", "error", err)
		jsonError(w, "failed to load project", http.StatusInternalServerError)
		return
	}
	if p == nil {
		jsonError(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		jsonError(w, "name is required", http.StatusBadRequest)
		return
	}

	p := &project.Project{
		ID:       chi.URLParam(r, "projectID"),
		Name:     req.Name,
		Notes:    req.Notes,
		Articles: req.Articles,
	}
	found, err := s.store.UpdateProject(r.Context(), p)
	if err != nil {
		s.log.Error("update project", "id", p.ID, "error", err)
		jsonError(w, "failed to update project", http.StatusInternalServerError)
		return
	}
	if !found {
		jsonError(w, "project not found", http.StatusNotFound)
		return
	}
	p, err = s.store.GetProject(r.Context(), p.ID)
	if err != nil || p == nil {
		jsonError(w, "failed to load project", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "projectID")
	found, err := s.store.DeleteProject(r.Context(), id)
	if err != nil {
		s.log.Error("delete project", "id", id, "error", err)
		jsonError(w, "failed to delete project", http.StatusInternalServerError)
		return
	}
	if !found {
		jsonError(w, "project not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"deleted": id})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
