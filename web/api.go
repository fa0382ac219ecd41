// ABOUTME: JSON API consumed by the data store: member names, member READMEs, and the curriculum.
package web

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/2389-research/cohort/curriculum"
)

func (s *Server) handleAPIMembers(w http.ResponseWriter, r *http.Request) {
	names, err := s.lib.Members()
	if err != nil {
		s.log.Error("failed to list members", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list members"})
		return
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleAPIMember(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	content, err := s.lib.Readme(name)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"content": content})
	case errors.Is(err, curriculum.ErrInvalidMemberName):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, curriculum.ErrMemberNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.log.Error("failed to read member README", "member", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to read README"})
	}
}

// handleAPICurriculum serves the manifest's chapters. Parts are re-encoded
// from their raw JSON, so fields this server does not know survive.
func (s *Server) handleAPICurriculum(w http.ResponseWriter, r *http.Request) {
	m, err := s.lib.Manifest()
	if err != nil {
		s.log.Error("failed to load curriculum", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load curriculum"})
		return
	}
	chapters := m.Chapters
	if chapters == nil {
		chapters = []curriculum.Chapter{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"curriculum": chapters})
}
